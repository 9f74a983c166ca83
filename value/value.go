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

// Package value defines the document value model: the tagged union of
// shapes a loaded configuration tree is made of, together with equality,
// ordering, truthiness, and rendering over those shapes.
package value

// Value is a node in a document tree. The concrete arms are Null, Bool,
// Int, Float, String, List, and *Map; the navigation engine additionally
// threads its Batch and Resolution shapes through the same interface.
type Value interface {
	Kind() Kind
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind { return NullKind }

// Bool is a boolean scalar.
type Bool bool

func (Bool) Kind() Kind { return BoolKind }

// Int is an integer scalar.
type Int int64

func (Int) Kind() Kind { return IntKind }

// Float is a floating-point scalar.
type Float float64

func (Float) Kind() Kind { return FloatKind }

// String is a text scalar. Quoted records whether the source syntax was a
// double-quoted scalar, which selects string-mode during expansion.
type String struct {
	Text   string
	Quoted bool
}

func (String) Kind() Kind { return StringKind }

// Str is shorthand for an unquoted String value.
func Str(text string) String { return String{Text: text} }

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return ListKind }
