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

// Package parser implements parsing of path strings and of the embedded
// expression language, producing the step programs and expression trees
// the navigation engine executes.
package parser

import (
	"strings"

	"github.com/tcy-lang/tcy/ast"
	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/literal"
	"github.com/tcy-lang/tcy/token"
	"github.com/tcy-lang/tcy/value"
)

type parser struct {
	scanner scanner

	pos token.Pos
	tok token.Token
	lit string

	err errors.Error
}

// ParseExpr parses a single expression of the embedded language.
func ParseExpr(src string) (ast.Expr, errors.Error) {
	p := &parser{scanner: scanner{src: src}}
	p.next()
	x := p.parseCond()
	if p.err == nil && p.tok != token.EOF {
		p.errf(p.pos, "unexpected %s after expression", p.tok)
	}
	if p.err != nil {
		return nil, p.err
	}
	return x, nil
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.scanner.scan()
	if p.scanner.err != nil && p.err == nil {
		p.err = p.scanner.err
	}
}

func (p *parser) errf(pos token.Pos, format string, args ...interface{}) {
	if p.err == nil {
		p.err = errors.Parsef(pos, format, args...)
	}
}

func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errf(pos, "expected %s, found %s", tok, p.tok)
	}
	p.next()
	return pos
}

func (p *parser) bad() ast.Expr {
	return &ast.BasicLit{ValuePos: p.pos, Value: value.Null{}}
}

// parseCond parses "x if cond else y". The else branch is itself a
// conditional, so chains associate to the right.
func (p *parser) parseCond() ast.Expr {
	x := p.parseOr()
	if p.tok != token.IF {
		return x
	}
	ifPos := p.pos
	p.next()
	cond := p.parseOr()
	p.expect(token.ELSE)
	els := p.parseCond()
	return &ast.CondExpr{Value: x, IfPos: ifPos, Cond: cond, Else: els}
}

func (p *parser) parseOr() ast.Expr {
	x := p.parseAnd()
	for p.tok == token.OR {
		pos := p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: token.OR, Y: p.parseAnd()}
	}
	return x
}

func (p *parser) parseAnd() ast.Expr {
	x := p.parseNot()
	for p.tok == token.AND {
		pos := p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: token.AND, Y: p.parseNot()}
	}
	return x
}

func (p *parser) parseNot() ast.Expr {
	if p.tok == token.NOT {
		pos := p.pos
		p.next()
		return &ast.UnaryExpr{OpPos: pos, Op: token.NOT, X: p.parseNot()}
	}
	return p.parseRel()
}

// parseRel parses a single, non-chaining comparison.
func (p *parser) parseRel() ast.Expr {
	x := p.parseBitOr()
	op := p.tok
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ, token.IN:
	case token.NOT:
		// The two-word operator "not in".
		pos := p.pos
		p.next()
		if p.tok != token.IN {
			p.errf(p.pos, "expected in after not, found %s", p.tok)
			return x
		}
		p.next()
		return &ast.BinaryExpr{X: x, OpPos: pos, Op: token.NOTIN, Y: p.parseBitOr()}
	default:
		return x
	}
	pos := p.pos
	p.next()
	return &ast.BinaryExpr{X: x, OpPos: pos, Op: op, Y: p.parseBitOr()}
}

func (p *parser) parseBitOr() ast.Expr {
	x := p.parseBitXor()
	for p.tok == token.BITOR {
		pos := p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: token.BITOR, Y: p.parseBitXor()}
	}
	return x
}

func (p *parser) parseBitXor() ast.Expr {
	x := p.parseBitAnd()
	for p.tok == token.BITXOR {
		pos := p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: token.BITXOR, Y: p.parseBitAnd()}
	}
	return x
}

func (p *parser) parseBitAnd() ast.Expr {
	x := p.parseShift()
	for p.tok == token.BITAND {
		pos := p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: token.BITAND, Y: p.parseShift()}
	}
	return x
}

func (p *parser) parseShift() ast.Expr {
	x := p.parseAdd()
	for p.tok == token.SHL || p.tok == token.SHR {
		op, pos := p.tok, p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: op, Y: p.parseAdd()}
	}
	return x
}

func (p *parser) parseAdd() ast.Expr {
	x := p.parseMul()
	for p.tok == token.ADD || p.tok == token.SUB {
		op, pos := p.tok, p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: op, Y: p.parseMul()}
	}
	return x
}

func (p *parser) parseMul() ast.Expr {
	x := p.parseUnary()
	for p.tok == token.MUL || p.tok == token.QUO || p.tok == token.IQUO || p.tok == token.REM {
		op, pos := p.tok, p.pos
		p.next()
		x = &ast.BinaryExpr{X: x, OpPos: pos, Op: op, Y: p.parseUnary()}
	}
	return x
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok {
	case token.ADD, token.SUB:
		op, pos := p.tok, p.pos
		p.next()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: p.parseUnary()}
	case token.TILDE:
		pos := p.pos
		p.next()
		// A bare tilde with no operand is the null word.
		if !p.atOperand() {
			return &ast.BasicLit{ValuePos: pos, Value: value.Null{}}
		}
		return &ast.UnaryExpr{OpPos: pos, Op: token.TILDE, X: p.parseUnary()}
	}
	return p.parsePow()
}

// parsePow parses exponentiation. The base is an operand, so a unary
// minus on the left applies to the whole power; the exponent may carry
// its own sign and further powers, associating to the right.
func (p *parser) parsePow() ast.Expr {
	x := p.parseOperand()
	if p.tok != token.POW {
		return x
	}
	pos := p.pos
	p.next()
	return &ast.BinaryExpr{X: x, OpPos: pos, Op: token.POW, Y: p.parseUnary()}
}

// atOperand reports whether the current token can start an operand.
func (p *parser) atOperand() bool {
	switch p.tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING,
		token.TRUE, token.FALSE, token.YES, token.NO, token.NULL,
		token.LPAREN, token.LBRACK, token.LBRACE,
		token.COLON, token.PERIOD, token.TILDE,
		token.ADD, token.SUB:
		return true
	}
	return false
}

func (p *parser) parseOperand() ast.Expr {
	pos := p.pos
	switch p.tok {
	case token.INT, token.FLOAT:
		n, ok := literal.ParseNum(p.lit)
		if !ok {
			p.errf(pos, "invalid number literal %q", p.lit)
			n = value.Null{}
		}
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: n}

	case token.STRING:
		text, ok := literal.Unquote(p.lit)
		if !ok {
			p.errf(pos, "invalid string literal %s", p.lit)
		}
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Str(text)}

	case token.TRUE, token.YES:
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Bool(true)}

	case token.FALSE, token.NO:
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Bool(false)}

	case token.NULL:
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Null{}}

	case token.LPAREN:
		p.next()
		x := p.parseCond()
		rparen := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: pos, X: x, Rparen: rparen}

	case token.LBRACK:
		return p.parseList()

	case token.LBRACE:
		return p.parseMap()

	case token.IDENT, token.COLON, token.PERIOD:
		return p.parsePathAtom()
	}
	p.errf(pos, "expected operand, found %s", p.tok)
	x := p.bad()
	p.next()
	return x
}

func (p *parser) parseList() ast.Expr {
	lbrack := p.pos
	p.expect(token.LBRACK)
	var elts []ast.Expr
	for p.tok != token.RBRACK && p.tok != token.EOF {
		if p.tok == token.MUL {
			opPos := p.pos
			p.next()
			elts = append(elts, &ast.Splice{OpPos: opPos, X: p.parseCond()})
		} else {
			elts = append(elts, p.parseCond())
		}
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	p.expect(token.RBRACK)
	return &ast.ListLit{Lbrack: lbrack, Elts: elts}
}

func (p *parser) parseMap() ast.Expr {
	lbrace := p.pos
	p.expect(token.LBRACE)
	var elts []ast.MapElt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.POW {
			// **x splices a mapping-valued expression into the literal.
			opPos := p.pos
			p.next()
			elts = append(elts, ast.MapElt{Value: &ast.Splice{OpPos: opPos, X: p.parseCond()}})
		} else {
			key := p.parseMapKey()
			elt := ast.MapElt{Key: key}
			if p.tok == token.COLON {
				p.next()
				if p.tok != token.COMMA && p.tok != token.RBRACE && p.tok != token.EOF {
					elt.Value = p.parseCond()
				}
			}
			elts = append(elts, elt)
		}
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	p.expect(token.RBRACE)
	return &ast.MapLit{Lbrace: lbrace, Elts: elts}
}

// parseMapKey parses a mapping-literal key: a scalar literal, a bare
// word, a parenthesized expression, or a sequence.
func (p *parser) parseMapKey() ast.Expr {
	pos := p.pos
	switch p.tok {
	case token.IDENT:
		lit := p.lit
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Str(lit)}
	case token.TRUE, token.YES:
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Bool(true)}
	case token.FALSE, token.NO:
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Bool(false)}
	case token.NULL:
		p.next()
		return &ast.BasicLit{ValuePos: pos, Value: value.Null{}}
	case token.INT, token.FLOAT, token.STRING:
		return p.parseOperand()
	case token.LPAREN:
		p.next()
		x := p.parseCond()
		p.expect(token.RPAREN)
		return x
	case token.LBRACK:
		return p.parseList()
	}
	p.errf(pos, "expected mapping key, found %s", p.tok)
	x := p.bad()
	p.next()
	return x
}

// parsePathAtom parses a variable reference: an optionally anchored path
// whose steps are identifiers, numbers, strings, wildcards,
// parenthesized expressions, or call arguments.
func (p *parser) parsePathAtom() ast.Expr {
	path := &ast.Path{PathPos: p.pos}

	switch p.tok {
	case token.COLON:
		path.Origin = ast.RootOrigin
		p.next()
		// One dot directly after the anchor separates it from the first
		// step; further dots are upward moves.
		if p.tok == token.PERIOD {
			p.next()
		}
		for p.tok == token.PERIOD {
			path.Steps = append(path.Steps, ast.Step{StepPos: p.pos, Up: true})
			p.next()
		}
	case token.PERIOD:
		path.Origin = ast.ParentOrigin
		for p.tok == token.PERIOD {
			path.Ups++
			p.next()
		}
	default:
		path.Origin = ast.ArgumentsOrigin
	}

	for {
		if !p.atPathStep() {
			// An anchored path with no steps refers to the anchor value
			// itself: ':' is the root, leading dots are ancestors.
			if len(path.Steps) == 0 && path.Origin == ast.ArgumentsOrigin {
				p.errf(p.pos, "expected path, found %s", p.tok)
			}
			return path
		}
		path.Steps = append(path.Steps, p.parsePathStep())

		// Call groups desugar to one evaluated step per argument.
		for p.tok == token.LPAREN {
			path.Steps = append(path.Steps, p.parseCallArgs()...)
		}

		if p.tok != token.PERIOD {
			return path
		}
		p.next()
		for p.tok == token.PERIOD {
			path.Steps = append(path.Steps, ast.Step{StepPos: p.pos, Up: true})
			p.next()
		}
		if !p.atPathStep() {
			path.SelfName = true
			return path
		}
	}
}

func (p *parser) atPathStep() bool {
	switch p.tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.MUL,
		token.LPAREN, token.LBRACK:
		return true
	}
	return p.tok.IsKeyword()
}

func (p *parser) parsePathStep() ast.Step {
	pos := p.pos
	switch p.tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING:
		raw := p.lit
		p.next()
		return ast.Step{StepPos: pos, Raw: raw}
	case token.MUL:
		p.next()
		return ast.Step{StepPos: pos, Raw: "*"}
	case token.LPAREN:
		p.next()
		start := p.pos
		x := p.parseCond()
		rparen := p.expect(token.RPAREN)
		return ast.Step{StepPos: pos, Raw: p.source(start, rparen), Expr: x}
	case token.LBRACK:
		start := p.pos
		x := p.parseList()
		return ast.Step{StepPos: pos, Raw: p.source(start, p.pos), Expr: x}
	}
	// Keywords are plain names when they appear as a path step.
	raw := p.tok.String()
	p.next()
	return ast.Step{StepPos: pos, Raw: raw}
}

// parseCallArgs parses one "(a, b)" call group following a path step.
// Each argument becomes an evaluated step; an empty slot, or an empty
// group, is a null argument.
func (p *parser) parseCallArgs() []ast.Step {
	lparen := p.pos
	p.expect(token.LPAREN)
	var steps []ast.Step
	null := func(pos token.Pos) ast.Step {
		return ast.Step{
			StepPos: pos,
			Raw:     "null",
			Expr:    &ast.BasicLit{ValuePos: pos, Value: value.Null{}},
		}
	}
	if p.tok == token.RPAREN {
		p.next()
		return []ast.Step{null(lparen)}
	}
	for {
		if p.tok == token.COMMA {
			steps = append(steps, null(p.pos))
		} else {
			start := p.pos
			x := p.parseCond()
			steps = append(steps, ast.Step{StepPos: start, Raw: p.source(start, p.pos), Expr: x})
		}
		if p.tok != token.COMMA {
			break
		}
		p.next()
		if p.tok == token.RPAREN {
			steps = append(steps, null(p.pos))
			break
		}
	}
	p.expect(token.RPAREN)
	return steps
}

// source recovers the trimmed source text between two token positions,
// used for literal-first key lookup of evaluated steps.
func (p *parser) source(start, end token.Pos) string {
	src := p.scanner.src
	if !start.IsValid() || !end.IsValid() || int(end) > len(src) || start > end {
		return ""
	}
	return strings.TrimSpace(src[start:end])
}
