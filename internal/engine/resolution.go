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

// Package engine implements the navigation and expansion core: the
// Resolution stack, single-step indirection, multi-step path
// resolution, and the evaluation of embedded expressions.
package engine

import (
	"strings"

	"github.com/tcy-lang/tcy/value"
)

// A Resolution is an immutable navigation state: the values seen along
// the path, the location labels describing how each subtree was
// entered, and the argument scopes accumulated by capture bindings.
// Every transition returns a new Resolution; prior states stay valid.
//
// Resolutions are values themselves: a capture binding stores the bound
// key as a Resolution so that an evaluated key keeps its call site's
// context, and the engine unwraps such handles during navigation.
type Resolution struct {
	root value.Value
	name string

	// acc is the accumulator; its last element is the cursor.
	acc []value.Value

	// locs is the stack of location frames. Each frame is the ordered
	// sequence of labels the current subtree was entered through. Only
	// diagnostics and name-of-self read it.
	locs [][]value.Value

	// args is the stack of argument scopes. The visible environment is
	// their union, later scopes winning.
	args []*value.Map
}

func (*Resolution) Kind() value.Kind { return value.HandleKind }

// A Batch is an ordered bundle of independent Resolutions produced by a
// multiplexed access. It is a first-class cursor: subsequent steps fan
// out over its branches, silently dropping the ones that fail.
type Batch struct {
	elems []*Resolution
}

func (*Batch) Kind() value.Kind { return value.BatchKind }

// New returns the initial Resolution for a document.
func New(root value.Value, name string, arguments *value.Map) *Resolution {
	r := &Resolution{root: root, name: name}
	if arguments != nil && arguments.Len() > 0 {
		r.args = []*value.Map{arguments}
	}
	return r
}

// Value returns the cursor, the top of the accumulator.
func (r *Resolution) Value() value.Value {
	if len(r.acc) == 0 {
		return nil
	}
	return r.acc[len(r.acc)-1]
}

// Location renders the current frame's labels for diagnostics.
func (r *Resolution) Location() string {
	if len(r.locs) == 0 {
		return r.name
	}
	frame := r.locs[len(r.locs)-1]
	parts := make([]string, len(frame))
	for i, l := range frame {
		parts[i] = value.Text(l)
	}
	return strings.Join(parts, ".")
}

// locationPath returns the current frame's labels as strings for error
// values.
func (r *Resolution) locationPath() []string {
	if len(r.locs) == 0 {
		return []string{r.name}
	}
	frame := r.locs[len(r.locs)-1]
	parts := make([]string, len(frame))
	for i, l := range frame {
		parts[i] = value.Text(l)
	}
	return parts
}

// lastLabel returns the label the cursor was entered through.
func (r *Resolution) lastLabel() value.Value {
	if len(r.locs) == 0 {
		return value.Null{}
	}
	frame := r.locs[len(r.locs)-1]
	if len(frame) == 0 {
		return value.Null{}
	}
	return frame[len(frame)-1]
}

// arguments returns the union of all argument scopes, later scopes
// winning.
func (r *Resolution) arguments() *value.Map {
	m := value.NewMap()
	for _, scope := range r.args {
		for _, p := range scope.Pairs() {
			m.Set(p.Key, p.Value)
		}
	}
	return m
}

func appendValue(s []value.Value, v value.Value) []value.Value {
	out := make([]value.Value, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func appendFrame(s [][]value.Value, f []value.Value) [][]value.Value {
	out := make([][]value.Value, len(s), len(s)+1)
	copy(out, s)
	return append(out, f)
}

func appendLabel(f []value.Value, l value.Value) []value.Value {
	out := make([]value.Value, len(f), len(f)+1)
	copy(out, f)
	return append(out, l)
}

func appendScope(s []*value.Map, m *value.Map) []*value.Map {
	out := make([]*value.Map, len(s), len(s)+1)
	copy(out, s)
	return append(out, m)
}

// push descends into v, recording label on the current frame. A non-nil
// scope becomes visible to everything navigated below this point.
func (r *Resolution) push(v value.Value, label value.Value, scope *value.Map) *Resolution {
	if scope == nil {
		scope = value.NewMap()
	}
	n := &Resolution{root: r.root, name: r.name}
	n.acc = appendValue(r.acc, v)
	if len(r.locs) == 0 {
		n.locs = [][]value.Value{{label}}
	} else {
		last := r.locs[len(r.locs)-1]
		n.locs = appendFrame(r.locs[:len(r.locs)-1], appendLabel(last, label))
	}
	n.args = appendScope(r.args, scope)
	return n
}

// set replaces the cursor in place.
func (r *Resolution) set(v value.Value) *Resolution {
	n := &Resolution{root: r.root, name: r.name}
	n.acc = appendValue(r.acc[:max(len(r.acc)-1, 0)], v)
	n.locs = r.locs
	n.args = r.args
	return n
}

// pop moves one level up. It reports false when the cursor is already
// the anchor of its frame; raising that as an error is the caller's
// business. Argument scopes are never popped.
func (r *Resolution) pop() (*Resolution, bool) {
	if len(r.acc) <= 1 {
		return nil, false
	}
	n := &Resolution{root: r.root, name: r.name}
	n.acc = r.acc[:len(r.acc)-1]
	if len(r.locs) > 0 {
		last := r.locs[len(r.locs)-1]
		if len(last) > 0 {
			last = last[:len(last)-1]
		}
		n.locs = appendFrame(r.locs[:len(r.locs)-1], last)
	}
	n.args = r.args
	return n, true
}

// call continues navigation inside another resolution: its cursor,
// location frame, and combined arguments are stacked on top of r.
func (r *Resolution) call(other *Resolution) *Resolution {
	n := &Resolution{root: r.root, name: r.name}
	n.acc = appendValue(r.acc, other.Value())
	var frame []value.Value
	if len(other.locs) > 0 {
		frame = other.locs[len(other.locs)-1]
	}
	n.locs = appendFrame(r.locs, frame)
	n.args = appendScope(r.args, other.arguments())
	return n
}

// referenceAt records that the cursor is now described by another
// resolution's location extended with label, without changing the
// accumulator. Capture bindings use it to keep the call site's context.
func (r *Resolution) referenceAt(other *Resolution, label value.Value) *Resolution {
	n := &Resolution{root: r.root, name: r.name}
	n.acc = r.acc
	var frame []value.Value
	if len(other.locs) > 0 {
		frame = other.locs[len(other.locs)-1]
	}
	n.locs = appendFrame(r.locs, appendLabel(frame, label))
	n.args = r.args
	return n
}

// callRoot starts a fresh accumulator anchored at the document root.
func (r *Resolution) callRoot() *Resolution {
	n := &Resolution{root: r.root, name: r.name}
	n.acc = []value.Value{r.root}
	n.locs = appendFrame(r.locs, []value.Value{value.Str(r.name)})
	n.args = r.args
	return n
}

// callArguments starts a fresh accumulator anchored at the combined
// argument scope, presented as a synthetic mapping.
func (r *Resolution) callArguments() *Resolution {
	n := &Resolution{root: r.root, name: r.name}
	n.acc = []value.Value{r.arguments()}
	n.locs = appendFrame(r.locs, []value.Value{value.Str("<arguments>")})
	n.args = r.args
	return n
}

// finalize unwraps a handle-valued cursor. With batches set, a batch
// cursor collapses into the ordered list of its branches' finalized
// values.
func (r *Resolution) finalize(batches bool) *Resolution {
	switch v := r.Value().(type) {
	case *Resolution:
		return v.finalize(batches)
	case *Batch:
		if !batches {
			return r
		}
		out := make(value.List, 0, len(v.elems))
		for _, e := range v.elems {
			out = append(out, e.finalize(true).Value())
		}
		return r.set(out)
	}
	return r
}
