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
	"strings"

	"github.com/tcy-lang/tcy/ast"
	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/parser"
	"github.com/tcy-lang/tcy/value"
)

// evaluate expands the splices of a string-valued cursor. With full set
// it also recurses into containers and batches: containers become fully
// plain values, and a batch cursor becomes a batch of fully evaluated
// branches. A string whose whole content is one bare-mode splice may
// evaluate to another Resolution; navigation then continues inside it.
func (r *Resolution) evaluate(full bool) (*Resolution, error) {
	switch v := r.Value().(type) {
	case value.String:
		if v.Text == "" {
			return r, nil
		}
		out, err := r.expandString(v)
		if err != nil {
			return nil, err
		}
		if res, ok := out.(*Resolution); ok {
			if full {
				return res.finalize(false).evaluate(true)
			}
			return res, nil
		}
		return r.set(out), nil

	case value.List:
		if !full {
			return r, nil
		}
		out := make(value.List, len(v))
		for i, e := range v {
			ev, err := r.push(e, value.Int(i), nil).deepValue()
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return r.set(out), nil

	case *value.Map:
		if !full {
			return r, nil
		}
		out := value.NewMap()
		for _, p := range r.effectivePairs(v) {
			kv, err := r.push(p.Key, p.Key, nil).deepValue()
			if err != nil {
				return nil, err
			}
			vv, err := r.push(p.Value, p.Key, nil).deepValue()
			if err != nil {
				return nil, err
			}
			out.Set(kv, vv)
		}
		return r.set(out), nil

	case *Batch:
		if !full {
			return r, nil
		}
		branches := make([]*Resolution, 0, len(v.elems))
		for _, e := range v.elems {
			ev, err := e.evaluate(true)
			if err != nil {
				return nil, err
			}
			branches = append(branches, ev)
		}
		return r.set(&Batch{elems: branches}), nil
	}
	return r, nil
}

// deepValue fully evaluates the cursor and returns it as a plain value:
// handles unwrapped, splices expanded, batches flattened to lists.
func (r *Resolution) deepValue() (value.Value, error) {
	res, err := r.finalize(false).evaluate(true)
	if err != nil {
		return nil, err
	}
	v := res.finalize(true).Value()
	if v == nil {
		return value.Null{}, nil
	}
	return v, nil
}

// plainOf projects an expanded token to a plain value.
func (r *Resolution) plainOf(v value.Value) (value.Value, error) {
	switch v.(type) {
	case *Resolution, *Batch:
		return r.set(v).deepValue()
	}
	return v, nil
}

// expandString expands the splices of one string value in r's context.
//
// The string-mode decision: a quoted-scalar marker from the loader, or a
// matching pair of outer quote characters, selects string-mode, where
// splices are textual and the result is the concatenation. Otherwise the
// string is a bare expression: a single splice returns its resolved
// value with its type preserved, and several tokens compose one
// expression that is evaluated as a whole.
func (r *Resolution) expandString(v value.String) (value.Value, error) {
	text := v.Text
	stringMode := v.Quoted
	if !stringMode && len(text) >= 2 {
		if q := text[0]; (q == '"' || q == '\'') && text[len(text)-1] == q {
			stringMode = true
			text = text[1 : len(text)-1]
		}
	}

	type token struct {
		verbatim string
		expanded value.Value
		isExp    bool
	}
	var toks []token
	for _, seg := range parser.Splices(text, stringMode) {
		if !seg.Splice {
			t := seg.Text
			if !stringMode {
				t = strings.TrimSpace(t)
				if t == "" {
					continue
				}
			}
			toks = append(toks, token{verbatim: t})
			continue
		}
		x, perr := parser.ParseExpr(strings.TrimSpace(seg.Text))
		if perr != nil {
			return nil, perr
		}
		ev, err := r.evalKey(x)
		if err != nil {
			return nil, err
		}
		toks = append(toks, token{expanded: ev, isExp: true})
	}

	switch {
	case len(toks) == 0:
		return value.Null{}, nil

	case stringMode:
		var b strings.Builder
		for _, t := range toks {
			if !t.isExp {
				b.WriteString(t.verbatim)
				continue
			}
			pv, err := r.plainOf(t.expanded)
			if err != nil {
				return nil, err
			}
			b.WriteString(value.Text(pv))
		}
		return value.Str(b.String()), nil

	case len(toks) == 1:
		if !toks[0].isExp {
			return value.Str(toks[0].verbatim), nil
		}
		return toks[0].expanded, nil

	default:
		// Compose one expression from the verbatim fragments and the
		// fully evaluated splice results, then evaluate it as a whole.
		var b []byte
		for i, t := range toks {
			if i > 0 {
				b = append(b, ' ')
			}
			if !t.isExp {
				b = append(b, t.verbatim...)
				continue
			}
			pv, err := r.plainOf(t.expanded)
			if err != nil {
				return nil, err
			}
			b = value.AppendExpr(b, pv)
		}
		x, perr := parser.ParseExpr(string(b))
		if perr != nil {
			return nil, errors.Wrapf(perr, errors.EvalError, r.locationPath(),
				"error while evaluating expression %q", string(b))
		}
		out, err := r.evalExpr(x)
		if err != nil {
			return nil, errors.Wrapf(err, errors.EvalError, r.locationPath(),
				"error while evaluating expression %q", string(b))
		}
		return out, nil
	}
}

// evalKey evaluates a splice body or step key. A body that is a bare
// path stays a Resolution so that references keep their context and
// types are preserved; anything else evaluates to a plain value.
func (r *Resolution) evalKey(x ast.Expr) (value.Value, error) {
	for {
		p, ok := x.(*ast.ParenExpr)
		if !ok {
			break
		}
		x = p.X
	}
	if p, ok := x.(*ast.Path); ok {
		return r.ResolveSteps(p, false)
	}
	return r.evalExpr(x)
}
