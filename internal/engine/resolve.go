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
	"github.com/tcy-lang/tcy/literal"
	"github.com/tcy-lang/tcy/parser"
	"github.com/tcy-lang/tcy/value"
)

// Resolve parses and executes a path against r. With evaluateFully set
// the final value is deeply expanded and surviving batches flatten to
// ordered lists.
func (r *Resolution) Resolve(path string, evaluateFully bool) (*Resolution, error) {
	p, err := parser.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return r.ResolveSteps(p, evaluateFully)
}

// ResolveSteps executes a parsed step program against r.
func (r *Resolution) ResolveSteps(p *ast.Path, evaluateFully bool) (*Resolution, error) {
	var cur *Resolution
	switch p.Origin {
	case ast.ParentOrigin:
		cur = r
		for i := 0; i < p.Ups; i++ {
			next, ok := cur.pop()
			if !ok {
				return nil, errors.Newf(errors.UpwardFromRoot, cur.locationPath(),
					"cannot indirect upwards from '%s', as it's already the root", cur.Location())
			}
			cur = next
		}
	case ast.RootOrigin:
		cur = r.callRoot()
	default:
		cur = r.callArguments()
	}

	var err error
	for _, st := range p.Steps {
		if st.Up {
			next, ok := cur.pop()
			if !ok {
				return nil, errors.Newf(errors.UpwardFromRoot, cur.locationPath(),
					"cannot indirect upwards from '%s', as it's already the root", cur.Location())
			}
			cur = next
			continue
		}

		// A step's value may itself be a template whose expansion
		// determines the next navigable structure.
		cur, err = cur.evaluate(false)
		if err != nil {
			return nil, err
		}

		var key value.Value
		var eval keyFunc
		rawWildcard := false
		if st.Expr != nil {
			// Evaluated keys run lazily, and in the context the path
			// appeared in rather than at the navigated cursor.
			key = value.Str(st.Raw)
			x := st.Expr
			eval = func() (value.Value, error) { return r.evalKey(x) }
		} else {
			key = literal.ParseScalar(st.Raw)
			rawWildcard = st.Raw == "*"
			if strings.Contains(st.Raw, "$(") {
				raw := st.Raw
				eval = func() (value.Value, error) { return r.expandText(raw) }
			}
		}
		cur, err = cur.indirect(key, rawWildcard, eval)
		if err != nil {
			return nil, err
		}
	}

	if p.SelfName {
		cur, err = cur.selfName()
		if err != nil {
			return nil, err
		}
	}

	cur = cur.finalize(false)
	if evaluateFully {
		cur, err = cur.evaluate(true)
		if err != nil {
			return nil, err
		}
		cur = cur.finalize(true)
	}
	return cur, nil
}

// expandText expands raw step text carrying splices.
func (r *Resolution) expandText(raw string) (value.Value, error) {
	return r.expandString(value.Str(raw))
}

// selfName replaces the cursor with the label it sits under, fanning
// out through batches.
func (r *Resolution) selfName() (*Resolution, error) {
	if b, ok := r.Value().(*Batch); ok {
		branches := make([]*Resolution, 0, len(b.elems))
		for _, e := range b.elems {
			parent, ok := e.pop()
			if !ok {
				continue
			}
			branches = append(branches, parent.push(e.lastLabel(), e.lastLabel(), nil))
		}
		return r.push(&Batch{elems: branches}, value.Str("."), nil), nil
	}
	parent, ok := r.pop()
	if !ok {
		return nil, errors.Newf(errors.UpwardFromRoot, r.locationPath(),
			"cannot take the name of '%s', as it's already the root", r.Location())
	}
	return parent.push(r.lastLabel(), r.lastLabel(), nil), nil
}
