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

package ast

import "github.com/tcy-lang/tcy/token"

// Origin selects where navigation of a path is anchored.
type Origin uint8

const (
	// ArgumentsOrigin anchors at the active argument scope. It is the
	// default for paths with no leading ':' or '.'.
	ArgumentsOrigin Origin = iota

	// RootOrigin anchors at the document root (leading ':').
	RootOrigin

	// ParentOrigin moves upward from the current cursor, one level per
	// leading dot (Path.Ups levels in total).
	ParentOrigin
)

// A Path is the step program navigation executes: an origin followed by
// a sequence of steps. Paths also serve as variable atoms inside
// expressions.
type Path struct {
	PathPos token.Pos
	Origin  Origin

	// Ups is the number of levels to pop for ParentOrigin.
	Ups int

	Steps []Step

	// SelfName marks a trailing standalone dot: the final cursor is
	// replaced with the label it sits under.
	SelfName bool
}

func (p *Path) Pos() token.Pos { return p.PathPos }
func (*Path) exprNode()        {}

// A Step is one access of a Path. Exactly one of the fields below is
// meaningful:
//
//   - Up: an empty part between two dots, meaning one level up;
//   - Expr: a parenthesized part or a call argument, evaluated lazily;
//     on a mapping cursor only when a literal lookup of its source text
//     fails;
//   - neither: a raw part, coerced through scalar parsing at access time.
//
// Raw always holds the source text of the part, including for Expr
// steps, because mapping lookup first tries the spelled text literally.
type Step struct {
	StepPos token.Pos
	Raw     string
	Expr    Expr
	Up      bool
}
