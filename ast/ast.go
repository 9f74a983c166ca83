// Copyright 2025 The TCY Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast declares the types used to represent parsed paths and
// expressions of the query language.
package ast

import (
	"github.com/tcy-lang/tcy/token"
	"github.com/tcy-lang/tcy/value"
)

// Node is the common interface of all syntax tree nodes.
type Node interface {
	Pos() token.Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// A BasicLit holds a literal of scalar kind: null, a boolean, a number,
// or a string.
type BasicLit struct {
	ValuePos token.Pos
	Value    value.Value
}

// A ListLit is a sequence literal. Elements may be Splice nodes, which
// expand a sequence-valued expression in place.
type ListLit struct {
	Lbrack token.Pos
	Elts   []Expr
}

// A MapLit is a mapping literal.
type MapLit struct {
	Lbrace token.Pos
	Elts   []MapElt
}

// A MapElt is a single entry of a MapLit. A nil Key marks a **-splice
// whose Value must evaluate to a mapping; a nil Value means null.
type MapElt struct {
	Key   Expr
	Value Expr
}

// A Splice is a *x element inside a ListLit or the expression of a
// **-splice MapElt.
type Splice struct {
	OpPos token.Pos
	X     Expr
}

// A ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Lparen token.Pos
	X      Expr
	Rparen token.Pos
}

// A UnaryExpr is a unary operator applied to an operand: +x, -x, ~x, or
// not x.
type UnaryExpr struct {
	OpPos token.Pos
	Op    token.Token
	X     Expr
}

// A BinaryExpr is a binary operator applied to two operands. Op may be
// token.NOTIN for the two-word form.
type BinaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    token.Token
	Y     Expr
}

// A CondExpr is the conditional "Value if Cond else Else".
type CondExpr struct {
	Value Expr
	IfPos token.Pos
	Cond  Expr
	Else  Expr
}

func (x *BasicLit) Pos() token.Pos   { return x.ValuePos }
func (x *ListLit) Pos() token.Pos    { return x.Lbrack }
func (x *MapLit) Pos() token.Pos     { return x.Lbrace }
func (x *Splice) Pos() token.Pos     { return x.OpPos }
func (x *ParenExpr) Pos() token.Pos  { return x.Lparen }
func (x *UnaryExpr) Pos() token.Pos  { return x.OpPos }
func (x *BinaryExpr) Pos() token.Pos { return x.X.Pos() }
func (x *CondExpr) Pos() token.Pos   { return x.Value.Pos() }

func (*BasicLit) exprNode()   {}
func (*ListLit) exprNode()    {}
func (*MapLit) exprNode()     {}
func (*Splice) exprNode()     {}
func (*ParenExpr) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CondExpr) exprNode()   {}
