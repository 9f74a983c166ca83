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

package engine

import (
	"math"
	"strings"

	"github.com/tcy-lang/tcy/ast"
	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/token"
	"github.com/tcy-lang/tcy/value"
)

// evalExpr interprets an expression tree in r's context. Variable paths
// resolve through the navigation engine and are fully evaluated.
func (r *Resolution) evalExpr(x ast.Expr) (value.Value, error) {
	switch x := x.(type) {
	case *ast.BasicLit:
		return x.Value, nil

	case *ast.ParenExpr:
		return r.evalExpr(x.X)

	case *ast.Path:
		res, err := r.ResolveSteps(x, true)
		if err != nil {
			return nil, err
		}
		v := res.Value()
		if v == nil {
			return value.Null{}, nil
		}
		return v, nil

	case *ast.CondExpr:
		cond, err := r.evalExpr(x.Cond)
		if err != nil {
			return nil, err
		}
		if value.Truth(cond) {
			return r.evalExpr(x.Value)
		}
		return r.evalExpr(x.Else)

	case *ast.UnaryExpr:
		return r.evalUnary(x)

	case *ast.BinaryExpr:
		return r.evalBinary(x)

	case *ast.ListLit:
		out := make(value.List, 0, len(x.Elts))
		for _, e := range x.Elts {
			if sp, ok := e.(*ast.Splice); ok {
				v, err := r.evalExpr(sp.X)
				if err != nil {
					return nil, err
				}
				list, ok := v.(value.List)
				if !ok {
					return nil, r.evalErrf("cannot splice %s into a sequence", v.Kind())
				}
				out = append(out, list...)
				continue
			}
			v, err := r.evalExpr(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case *ast.MapLit:
		out := value.NewMap()
		for _, elt := range x.Elts {
			if elt.Key == nil {
				sp := elt.Value.(*ast.Splice)
				v, err := r.evalExpr(sp.X)
				if err != nil {
					return nil, err
				}
				m, ok := v.(*value.Map)
				if !ok {
					return nil, r.evalErrf("cannot splice %s into a mapping", v.Kind())
				}
				for _, p := range m.Pairs() {
					out.Set(p.Key, p.Value)
				}
				continue
			}
			k, err := r.evalExpr(elt.Key)
			if err != nil {
				return nil, err
			}
			var v value.Value = value.Null{}
			if elt.Value != nil {
				if v, err = r.evalExpr(elt.Value); err != nil {
					return nil, err
				}
			}
			if !out.Set(k, v) {
				return nil, r.evalErrf("unhashable mapping key of kind %s", k.Kind())
			}
		}
		return out, nil

	case *ast.Splice:
		return nil, r.evalErrf("splice outside a collection literal")
	}
	return nil, r.evalErrf("unsupported expression")
}

func (r *Resolution) evalErrf(format string, args ...interface{}) error {
	return errors.Newf(errors.EvalError, r.locationPath(), format, args...)
}

func (r *Resolution) evalUnary(x *ast.UnaryExpr) (value.Value, error) {
	v, err := r.evalExpr(x.X)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case token.NOT:
		return value.Bool(!value.Truth(v)), nil
	case token.ADD:
		if v.Kind()&value.NumKind != 0 {
			return v, nil
		}
	case token.SUB:
		switch n := v.(type) {
		case value.Int:
			return -n, nil
		case value.Float:
			return -n, nil
		}
	case token.TILDE:
		if n, ok := v.(value.Int); ok {
			return ^n, nil
		}
	}
	return nil, r.evalErrf("invalid operand of kind %s to unary '%s'", v.Kind(), x.Op)
}

func (r *Resolution) evalBinary(x *ast.BinaryExpr) (value.Value, error) {
	// The boolean operators short-circuit and return the deciding
	// operand rather than a bool.
	switch x.Op {
	case token.AND:
		left, err := r.evalExpr(x.X)
		if err != nil {
			return nil, err
		}
		if !value.Truth(left) {
			return left, nil
		}
		return r.evalExpr(x.Y)
	case token.OR:
		left, err := r.evalExpr(x.X)
		if err != nil {
			return nil, err
		}
		if value.Truth(left) {
			return left, nil
		}
		return r.evalExpr(x.Y)
	}

	left, err := r.evalExpr(x.X)
	if err != nil {
		return nil, err
	}
	right, err := r.evalExpr(x.Y)
	if err != nil {
		return nil, err
	}
	return r.binOp(x.Op, left, right)
}

// binOp applies a binary operator to two evaluated operands. Numeric
// operations follow mixed int/float promotion; membership works over
// strings, sequences, and mapping keys; union and intersection work
// over mappings.
func (r *Resolution) binOp(op token.Token, left, right value.Value) (value.Value, error) {
	leftKind := left.Kind()
	rightKind := right.Kind()
	bothNum := leftKind&value.NumKind != 0 && rightKind&value.NumKind != 0
	bothInt := leftKind == value.IntKind && rightKind == value.IntKind

	switch op {
	case token.EQL:
		return value.Bool(value.Equal(left, right)), nil

	case token.NEQ:
		return value.Bool(!value.Equal(left, right)), nil

	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		c, ok := value.Compare(left, right)
		if !ok {
			return nil, r.evalErrf("cannot order %s and %s", leftKind, rightKind)
		}
		switch op {
		case token.LSS:
			return value.Bool(c < 0), nil
		case token.LEQ:
			return value.Bool(c <= 0), nil
		case token.GTR:
			return value.Bool(c > 0), nil
		default:
			return value.Bool(c >= 0), nil
		}

	case token.IN, token.NOTIN:
		in, err := r.membership(left, right)
		if err != nil {
			return nil, err
		}
		if op == token.NOTIN {
			in = !in
		}
		return value.Bool(in), nil

	case token.ADD:
		switch {
		case bothInt:
			return left.(value.Int) + right.(value.Int), nil
		case bothNum:
			return value.Float(value.AsFloat(left) + value.AsFloat(right)), nil
		case leftKind == value.StringKind && rightKind == value.StringKind:
			return value.Str(left.(value.String).Text + right.(value.String).Text), nil
		case leftKind == value.ListKind && rightKind == value.ListKind:
			a, b := left.(value.List), right.(value.List)
			out := make(value.List, 0, len(a)+len(b))
			out = append(out, a...)
			out = append(out, b...)
			return out, nil
		}

	case token.SUB:
		switch {
		case bothInt:
			return left.(value.Int) - right.(value.Int), nil
		case bothNum:
			return value.Float(value.AsFloat(left) - value.AsFloat(right)), nil
		}

	case token.MUL:
		switch {
		case bothInt:
			return left.(value.Int) * right.(value.Int), nil
		case bothNum:
			return value.Float(value.AsFloat(left) * value.AsFloat(right)), nil
		case leftKind == value.StringKind && rightKind == value.IntKind:
			return value.Str(repeat(left.(value.String).Text, right.(value.Int))), nil
		case leftKind == value.IntKind && rightKind == value.StringKind:
			return value.Str(repeat(right.(value.String).Text, left.(value.Int))), nil
		case leftKind == value.ListKind && rightKind == value.IntKind:
			return repeatList(left.(value.List), right.(value.Int)), nil
		case leftKind == value.IntKind && rightKind == value.ListKind:
			return repeatList(right.(value.List), left.(value.Int)), nil
		}

	case token.QUO:
		if bothNum {
			y := value.AsFloat(right)
			if y == 0 {
				return nil, r.evalErrf("division by zero")
			}
			return value.Float(value.AsFloat(left) / y), nil
		}

	case token.IQUO:
		switch {
		case bothInt:
			a, b := int64(left.(value.Int)), int64(right.(value.Int))
			if b == 0 {
				return nil, r.evalErrf("division by zero")
			}
			return value.Int(floorDiv(a, b)), nil
		case bothNum:
			y := value.AsFloat(right)
			if y == 0 {
				return nil, r.evalErrf("division by zero")
			}
			return value.Float(math.Floor(value.AsFloat(left) / y)), nil
		}

	case token.REM:
		switch {
		case bothInt:
			a, b := int64(left.(value.Int)), int64(right.(value.Int))
			if b == 0 {
				return nil, r.evalErrf("division by zero")
			}
			return value.Int(floorMod(a, b)), nil
		case bothNum:
			y := value.AsFloat(right)
			if y == 0 {
				return nil, r.evalErrf("division by zero")
			}
			m := math.Mod(value.AsFloat(left), y)
			if m != 0 && (m < 0) != (y < 0) {
				m += y
			}
			return value.Float(m), nil
		}

	case token.POW:
		if bothInt {
			exp := int64(right.(value.Int))
			if exp >= 0 {
				return value.Int(intPow(int64(left.(value.Int)), exp)), nil
			}
		}
		if bothNum {
			return value.Float(math.Pow(value.AsFloat(left), value.AsFloat(right))), nil
		}

	case token.SHL:
		if bothInt {
			n := int64(right.(value.Int))
			if n < 0 {
				return nil, r.evalErrf("negative shift count")
			}
			return left.(value.Int) << uint64(n), nil
		}

	case token.SHR:
		if bothInt {
			n := int64(right.(value.Int))
			if n < 0 {
				return nil, r.evalErrf("negative shift count")
			}
			return left.(value.Int) >> uint64(n), nil
		}

	case token.BITAND:
		if bothInt {
			return left.(value.Int) & right.(value.Int), nil
		}
		// Intersection keeps the left mapping's entries whose keys are
		// also present on the right.
		if a, ok := left.(*value.Map); ok {
			if b, ok := right.(*value.Map); ok {
				out := value.NewMap()
				for _, p := range a.Pairs() {
					if b.Has(p.Key) {
						out.Set(p.Key, p.Value)
					}
				}
				return out, nil
			}
		}

	case token.BITOR:
		if bothInt {
			return left.(value.Int) | right.(value.Int), nil
		}
		// Union merges two mappings, the right one winning.
		if a, ok := left.(*value.Map); ok {
			if b, ok := right.(*value.Map); ok {
				out := a.Clone()
				for _, p := range b.Pairs() {
					out.Set(p.Key, p.Value)
				}
				return out, nil
			}
		}

	case token.BITXOR:
		if bothInt {
			return left.(value.Int) ^ right.(value.Int), nil
		}
	}

	return nil, r.evalErrf("invalid operands %s and %s to '%s'", leftKind, rightKind, op)
}

func (r *Resolution) membership(needle, haystack value.Value) (bool, error) {
	switch h := haystack.(type) {
	case value.String:
		n, ok := needle.(value.String)
		if !ok {
			return false, r.evalErrf("'in' needs a string to search a string, got %s", needle.Kind())
		}
		return strings.Contains(h.Text, n.Text), nil
	case value.List:
		for _, e := range h {
			if value.Equal(needle, e) {
				return true, nil
			}
		}
		return false, nil
	case *value.Map:
		return h.Has(needle), nil
	}
	return false, r.evalErrf("'in' cannot search a %s", haystack.Kind())
}

func repeat(s string, n value.Int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

func repeatList(list value.List, n value.Int) value.List {
	if n <= 0 {
		return value.List{}
	}
	out := make(value.List, 0, len(list)*int(n))
	for i := value.Int(0); i < n; i++ {
		out = append(out, list...)
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
