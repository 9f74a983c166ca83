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

package parser

import (
	"strings"

	"github.com/tcy-lang/tcy/ast"
	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/token"
	"github.com/tcy-lang/tcy/value"
)

// ParsePath parses a path string into its step program.
//
// The origin is selected by the first character: ':' anchors at the
// document root, leading dots move upward one level each, anything else
// anchors at the argument scope. Parts are separated by dots; an empty
// part (two dots in a row) moves one level up, and a trailing dot
// replaces the final cursor with its own label. Function-style calls
// "f(a, b)" desugar to "f.(a).(b)" with empty argument slots becoming
// null.
func ParsePath(src string) (*ast.Path, errors.Error) {
	p := &pathParser{src: src}
	path := &ast.Path{PathPos: 0}

	p.skipSpace()
	switch {
	case p.peek() == ':':
		path.Origin = ast.RootOrigin
		p.i++
		// A dot directly after the anchor merely separates it from the
		// first part.
		if p.peek() == '.' {
			p.i++
		}
	case p.peek() == '.':
		path.Origin = ast.ParentOrigin
		for p.peek() == '.' {
			path.Ups++
			p.i++
		}
	default:
		path.Origin = ast.ArgumentsOrigin
	}

	for {
		p.skipSpace()
		if p.i >= len(p.src) {
			break
		}
		start := p.i
		text := strings.TrimSpace(p.scanPart())
		if p.err != nil {
			return nil, p.err
		}
		if text == "" {
			path.Steps = append(path.Steps, ast.Step{StepPos: token.Pos(start), Up: true})
		} else {
			steps, err := p.partSteps(text, token.Pos(start))
			if err != nil {
				return nil, err
			}
			path.Steps = append(path.Steps, steps...)
		}

		p.skipSpace()
		if p.i >= len(p.src) {
			break
		}
		if p.src[p.i] != '.' {
			return nil, errors.Parsef(token.Pos(p.i), "invalid path format at %q", p.src[p.i:])
		}
		p.i++ // separator
		if j := p.i + countSpace(p.src[p.i:]); j >= len(p.src) {
			path.SelfName = true
			break
		}
	}
	return path, nil
}

type pathParser struct {
	src string
	i   int
	err errors.Error
}

func (p *pathParser) peek() byte {
	if p.i < len(p.src) {
		return p.src[p.i]
	}
	return 0
}

func (p *pathParser) skipSpace() {
	p.i += countSpace(p.src[p.i:])
}

func countSpace(s string) int {
	n := 0
	for n < len(s) && isSpace(s[n]) {
		n++
	}
	return n
}

// scanPart consumes one path part: a run of atom characters,
// parenthesized groups, and quoted strings, ending at a top-level dot,
// comma, closing parenthesis, or end of input. Whitespace ends the part unless it precedes a
// call group.
func (p *pathParser) scanPart() string {
	start := p.i
	for p.i < len(p.src) {
		switch c := p.src[p.i]; {
		case c == '.' || c == ',' || c == ')':
			return p.src[start:p.i]
		case isSpace(c):
			j := p.i + countSpace(p.src[p.i:])
			if j < len(p.src) && p.src[j] == '(' {
				p.i = j
				continue
			}
			return p.src[start:p.i]
		case c == '(':
			p.scanGroup()
		case c == '"' || c == '\'':
			p.scanQuoted(c)
		default:
			p.i++
		}
		if p.err != nil {
			return p.src[start:p.i]
		}
	}
	return p.src[start:p.i]
}

// scanGroup consumes a balanced parenthesized group, quotes included.
func (p *pathParser) scanGroup() {
	open := p.i
	depth := 0
	for p.i < len(p.src) {
		switch c := p.src[p.i]; c {
		case '(':
			depth++
			p.i++
		case ')':
			depth--
			p.i++
			if depth == 0 {
				return
			}
		case '"', '\'':
			p.scanQuoted(c)
		default:
			p.i++
		}
	}
	if p.err == nil {
		p.err = errors.Parsef(token.Pos(open), "unbalanced parentheses in path")
	}
}

func (p *pathParser) scanQuoted(quote byte) {
	open := p.i
	p.i++
	for p.i < len(p.src) {
		c := p.src[p.i]
		if c == '\\' {
			p.i += 2
			continue
		}
		p.i++
		if c == quote {
			return
		}
	}
	if p.err == nil {
		p.err = errors.Parsef(token.Pos(open), "string in path not terminated")
	}
}

// partSteps turns one part's text into steps: the atom itself, followed
// by one evaluated step per call argument.
func (p *pathParser) partSteps(text string, pos token.Pos) ([]ast.Step, errors.Error) {
	// A part carrying a splice stays raw; its evaluation is deferred to
	// the expansion of the part text.
	if strings.Contains(text, "$(") {
		return []ast.Step{{StepPos: pos, Raw: text}}, nil
	}

	atom, groups, err := splitCalls(text, pos)
	if err != nil {
		return nil, err
	}

	var steps []ast.Step
	switch {
	case atom == "" && len(groups) > 0:
		// A wholly parenthesized part is an evaluated key.
		inner := strings.TrimSpace(groups[0])
		step := ast.Step{StepPos: pos, Raw: inner}
		if inner == "" {
			step.Raw = "null"
			step.Expr = &ast.BasicLit{ValuePos: pos, Value: value.Null{}}
		} else {
			x, perr := ParseExpr(inner)
			if perr != nil {
				return nil, perr
			}
			step.Expr = x
		}
		steps = append(steps, step)
		groups = groups[1:]
	default:
		steps = append(steps, ast.Step{StepPos: pos, Raw: atom})
	}

	for _, g := range groups {
		args, aerr := splitArgs(g)
		if aerr != nil {
			return nil, aerr
		}
		for _, arg := range args {
			arg = strings.TrimSpace(arg)
			step := ast.Step{StepPos: pos, Raw: arg}
			if arg == "" {
				step.Raw = "null"
				step.Expr = &ast.BasicLit{ValuePos: pos, Value: value.Null{}}
			} else {
				x, perr := ParseExpr(arg)
				if perr != nil {
					return nil, perr
				}
				step.Expr = x
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// splitCalls splits a part into its leading atom and the contents of its
// trailing call groups.
func splitCalls(text string, pos token.Pos) (atom string, groups []string, err errors.Error) {
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '(' {
			break
		}
		if c == '"' || c == '\'' {
			q := c
			i++
			for i < len(text) {
				if text[i] == '\\' {
					i += 2
					continue
				}
				i++
				if text[i-1] == q {
					break
				}
			}
			continue
		}
		i++
	}
	atom = strings.TrimSpace(text[:i])
	for i < len(text) {
		if isSpace(text[i]) {
			i++
			continue
		}
		if text[i] != '(' {
			return "", nil, errors.Parsef(pos, "malformed call in path part %q", text)
		}
		depth := 0
		start := i + 1
		for i < len(text) {
			switch c := text[i]; c {
			case '(':
				depth++
				i++
			case ')':
				depth--
				i++
			case '"', '\'':
				q := c
				i++
				for i < len(text) {
					if text[i] == '\\' {
						i += 2
						continue
					}
					i++
					if text[i-1] == q {
						break
					}
				}
			default:
				i++
			}
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return "", nil, errors.Parsef(pos, "unbalanced parentheses in path part %q", text)
		}
		groups = append(groups, text[start:i-1])
	}
	return atom, groups, nil
}

// splitArgs splits a call group's contents on top-level commas. An empty
// group yields a single empty argument.
func splitArgs(group string) ([]string, errors.Error) {
	var args []string
	depth := 0
	start := 0
	i := 0
	for i < len(group) {
		switch c := group[i]; c {
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			depth--
			i++
		case '"', '\'':
			q := c
			i++
			for i < len(group) {
				if group[i] == '\\' {
					i += 2
					continue
				}
				i++
				if group[i-1] == q {
					break
				}
			}
		case ',':
			if depth == 0 {
				args = append(args, group[start:i])
				start = i + 1
			}
			i++
		default:
			i++
		}
	}
	args = append(args, group[start:])
	return args, nil
}
