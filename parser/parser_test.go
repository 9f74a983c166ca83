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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/tcy-lang/tcy/ast"
	"github.com/tcy-lang/tcy/token"
)

// describePath renders a step program compactly for comparison.
func describePath(p *ast.Path) string {
	var b strings.Builder
	switch p.Origin {
	case ast.RootOrigin:
		b.WriteString(":")
	case ast.ParentOrigin:
		b.WriteString(strings.Repeat("^", p.Ups))
	case ast.ArgumentsOrigin:
		b.WriteString("@")
	}
	for _, s := range p.Steps {
		switch {
		case s.Up:
			b.WriteString(" up")
		case s.Expr != nil:
			b.WriteString(" (" + s.Raw + ")")
		default:
			b.WriteString(" " + s.Raw)
		}
	}
	if p.SelfName {
		b.WriteString(" .")
	}
	return b.String()
}

var parsePathTests = []struct {
	path string
	want string
}{
	{"my_test", "@ my_test"},
	{":my_test", ": my_test"},
	{":my_dictionary.my_key", ": my_dictionary my_key"},
	{":.pick", ": pick"},
	{":my_config.my_paths.0", ": my_config my_paths 0"},
	{".sibling", "^ sibling"},
	{"..a.b", "^^ a b"},
	{".", "^"},
	{"a..b", "@ a up b"},
	{"a.b.", "@ a b ."},
	{":*", ": *"},
	{"fac(5)", "@ fac (5)"},
	{"f(a, b)", "@ f (a) (b)"},
	{"f(a,, b)", "@ f (a) (null) (b)"},
	{"f()", "@ f (null)"},
	{":fac(n-1)", ": fac (n-1)"},
	{"x.(1+1)", "@ x (1+1)"},
	{"m.$(:.pick)", "@ m $(:.pick)"},
	{"s.'[0-9]+'", "@ s '[0-9]+'"},
}

func TestParsePath(t *testing.T) {
	for _, tc := range parsePathTests {
		p, err := ParsePath(tc.path)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("ParsePath(%q)", tc.path))
		qt.Check(t, qt.Equals(describePath(p), tc.want), qt.Commentf("ParsePath(%q)", tc.path))
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, path := range []string{
		"a,b",
		"a.(b",
		`a."unterminated`,
	} {
		_, err := ParsePath(path)
		qt.Check(t, qt.IsNotNil(err), qt.Commentf("ParsePath(%q)", path))
	}
}

func TestParseExprShapes(t *testing.T) {
	// Multiplication binds tighter than addition.
	x, err := ParseExpr("1 + 2 * 3")
	qt.Assert(t, qt.IsNil(err))
	add, ok := x.(*ast.BinaryExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(add.Op, token.ADD))
	mul, ok := add.Y.(*ast.BinaryExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(mul.Op, token.MUL))

	// Comparisons bind looser than arithmetic, conditionals loosest.
	x, err = ParseExpr("1 if n <= 1 else n * 2")
	qt.Assert(t, qt.IsNil(err))
	cond, ok := x.(*ast.CondExpr)
	qt.Assert(t, qt.IsTrue(ok))
	rel, ok := cond.Cond.(*ast.BinaryExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(rel.Op, token.LEQ))

	// "not in" is one operator.
	x, err = ParseExpr("1 not in [1, 2]")
	qt.Assert(t, qt.IsNil(err))
	nin, ok := x.(*ast.BinaryExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(nin.Op, token.NOTIN))

	// A path atom with a call group.
	x, err = ParseExpr(":.fac(n-1)")
	qt.Assert(t, qt.IsNil(err))
	p, ok := x.(*ast.Path)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(p.Origin, ast.RootOrigin))
	qt.Assert(t, qt.Equals(len(p.Steps), 2))
	qt.Assert(t, qt.Equals(p.Steps[0].Raw, "fac"))
	qt.Assert(t, qt.Equals(p.Steps[1].Raw, "n-1"))
	qt.Assert(t, qt.IsNotNil(p.Steps[1].Expr))
}

func TestParseExprErrors(t *testing.T) {
	for _, src := range []string{
		"1 +",
		"(1",
		"1 ??",
		`"unterminated`,
		"x if y",
	} {
		_, err := ParseExpr(src)
		qt.Check(t, qt.IsNotNil(err), qt.Commentf("ParseExpr(%q)", src))
	}
}

var splicesTests = []struct {
	in         string
	stringMode bool
	want       []Segment
}{
	{
		in:         "Hello, $(name)!",
		stringMode: true,
		want: []Segment{
			{Pos: 0, Text: "Hello, "},
			{Pos: 9, Text: "name", Splice: true},
			{Pos: 14, Text: "!"},
		},
	},
	{
		in:         "plain text",
		stringMode: true,
		want:       []Segment{{Pos: 0, Text: "plain text"}},
	},
	{
		in:         "$(a) + $(b)",
		stringMode: false,
		want: []Segment{
			{Pos: 2, Text: "a", Splice: true},
			{Pos: 4, Text: " + "},
			{Pos: 9, Text: "b", Splice: true},
		},
	},
	{
		in:         "$foo.bar + 1",
		stringMode: false,
		want: []Segment{
			{Pos: 1, Text: "foo.bar", Splice: true},
			{Pos: 8, Text: " + 1"},
		},
	},
	{
		// The short form does not splice in string-mode.
		in:         "cost: $5",
		stringMode: true,
		want:       []Segment{{Pos: 0, Text: "cost: $5"}},
	},
	{
		// An unterminated group stays verbatim.
		in:         "a $(b",
		stringMode: true,
		want:       []Segment{{Pos: 0, Text: "a $(b"}},
	},
	{
		in:         "$(f(x, ')'))",
		stringMode: false,
		want:       []Segment{{Pos: 2, Text: "f(x, ')')", Splice: true}},
	},
}

func TestSplices(t *testing.T) {
	for _, tc := range splicesTests {
		got := Splices(tc.in, tc.stringMode)
		qt.Check(t, qt.DeepEquals(got, tc.want), qt.Commentf("Splices(%q, %v)", tc.in, tc.stringMode))
	}
}
