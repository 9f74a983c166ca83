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

package value

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a mapping from scalar keys to values that preserves insertion
// order. Wildcard and regex accesses iterate entries in this order.
type Map struct {
	om *orderedmap.OrderedMap[Key, Pair]
}

func (*Map) Kind() Kind { return MapKind }

// Pair is a single mapping entry. Key holds the original key value, not
// its canonicalized lookup form.
type Pair struct {
	Key   Value
	Value Value
}

// Key is the comparable form of a value used as a mapping key. Integral
// floats canonicalize to their integer form so that 1 and 1.0 address the
// same entry.
type Key struct {
	kind Kind
	s    string
	num  int64
	f    float64
	b    bool
}

// KeyOf returns the lookup form of v and whether v can be used as a
// mapping key. Sequences hash through their canonical expression
// rendering; maps, batches, and handles are not hashable.
func KeyOf(v Value) (Key, bool) {
	switch x := v.(type) {
	case Null:
		return Key{kind: NullKind}, true
	case Bool:
		return Key{kind: BoolKind, b: bool(x)}, true
	case Int:
		return Key{kind: IntKind, num: int64(x)}, true
	case Float:
		if f := float64(x); f == float64(int64(f)) {
			return Key{kind: IntKind, num: int64(f)}, true
		}
		return Key{kind: FloatKind, f: float64(x)}, true
	case String:
		return Key{kind: StringKind, s: x.Text}, true
	case List:
		return Key{kind: ListKind, s: string(AppendExpr(nil, x))}, true
	}
	return Key{}, false
}

// NewMap returns an empty mapping.
func NewMap() *Map {
	return &Map{om: orderedmap.New[Key, Pair]()}
}

// Len reports the number of entries.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// Set inserts or replaces the entry for key. Replacing keeps the entry's
// original position. Keys that are not hashable are ignored and reported.
func (m *Map) Set(key, v Value) bool {
	k, ok := KeyOf(key)
	if !ok {
		return false
	}
	m.om.Set(k, Pair{Key: key, Value: v})
	return true
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	k, ok := KeyOf(key)
	if !ok {
		return nil, false
	}
	return m.GetKey(k)
}

// GetKey returns the value stored under the canonical key k.
func (m *Map) GetKey(k Key) (Value, bool) {
	if m == nil || m.om == nil {
		return nil, false
	}
	p, ok := m.om.Get(k)
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Has reports whether key is present.
func (m *Map) Has(key Value) bool {
	_, ok := m.Get(key)
	return ok
}

// Pairs returns the entries in insertion order.
func (m *Map) Pairs() []Pair {
	if m == nil || m.om == nil {
		return nil
	}
	pairs := make([]Pair, 0, m.om.Len())
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, p.Value)
	}
	return pairs
}

// Clone returns a shallow copy of m.
func (m *Map) Clone() *Map {
	n := NewMap()
	for _, p := range m.Pairs() {
		n.Set(p.Key, p.Value)
	}
	return n
}
