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

package engine_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/tcy-lang/tcy/internal/engine"
	"github.com/tcy-lang/tcy/value"
)

// evalBare resolves a document entry holding "$(expr)" as a bare
// expression and returns the plain result.
func evalBare(t *testing.T, expr string, args map[string]value.Value) (any, error) {
	t.Helper()
	doc := value.NewMap()
	doc.Set(value.Str("e"), value.Str("$("+expr+")"))
	am := value.NewMap()
	for k, v := range args {
		am.Set(value.Str(k), v)
	}
	res, err := engine.New(doc, "test", am).Resolve(":e", true)
	if err != nil {
		return nil, err
	}
	return value.ToGo(res.Value()), nil
}

var exprTests = []struct {
	expr string
	want any
}{
	{"1 + 2", int64(3)},
	{"10 - 4", int64(6)},
	{"1 + 2.5", 3.5},
	{"7 / 2", 3.5},
	{"7 // 2", int64(3)},
	{"-7 // 2", int64(-4)},
	{"7.0 // 2", 3.0},
	{"7 % 3", int64(1)},
	{"-7 % 3", int64(2)},
	{"2 ** 10", int64(1024)},
	{"2 ** -1", 0.5},
	{"-2 ** 2", int64(-4)},
	{"(1 + 2) * 3", int64(9)},
	{"1 << 4", int64(16)},
	{"256 >> 4", int64(16)},
	{"6 & 3", int64(2)},
	{"6 | 3", int64(7)},
	{"6 ^ 3", int64(5)},
	{"~5", int64(-6)},
	{"not true", false},
	{"not 0", true},
	{"true and 5", int64(5)},
	{"false and 5", false},
	{"0 or 7", int64(7)},
	{"3 or 7", int64(3)},
	{"'a' + 'b'", "ab"},
	{"'ab' * 3", "ababab"},
	{"2 * 'ab'", "abab"},
	{"[1, 2] + [3]", []any{int64(1), int64(2), int64(3)}},
	{"[1, *[2, 3]]", []any{int64(1), int64(2), int64(3)}},
	{"[1, 2] * 2", []any{int64(1), int64(2), int64(1), int64(2)}},
	{"{a: 1, **{b: 2}}", map[string]any{"a": int64(1), "b": int64(2)}},
	{"{a: 1, b: 2} | {b: 3}", map[string]any{"a": int64(1), "b": int64(3)}},
	{"{a: 1, b: 2} & {b: 0}", map[string]any{"b": int64(2)}},
	{"{flag}", map[string]any{"flag": nil}},
	{"2 in [1, 2]", true},
	{"3 not in [1, 2]", true},
	{"'b' in 'abc'", true},
	{"'a' in {a: 1}", true},
	{"1 == 1.0", true},
	{"1 != 2", true},
	{"'a' < 'b'", true},
	{"1 < 2 and 2 < 3", true},
	{"1 if false else 2", int64(2)},
	{"'x' if 1 > 0 else 'y'", "x"},
	{"null", nil},
	{"~", nil},
	{"yes", true},
	{"no", false},
	{"null == null", true},
	{"1.5e1", 15.0},
	{".5 + .5", 1.0},
}

func TestEvalExpr(t *testing.T) {
	for _, tc := range exprTests {
		got, err := evalBare(t, tc.expr, nil)
		if !qt.Check(t, qt.IsNil(err), qt.Commentf("expr %q", tc.expr)) {
			continue
		}
		qt.Check(t, qt.DeepEquals(got, tc.want), qt.Commentf("expr %q", tc.expr))
	}
}

func TestEvalExprArguments(t *testing.T) {
	args := map[string]value.Value{
		"n":  value.Int(5),
		"s":  value.Str("hi"),
		"xs": value.List{value.Int(1), value.Int(2)},
	}
	testCases := []struct {
		expr string
		want any
	}{
		{"n + 1", int64(6)},
		{"n * n", int64(25)},
		{"s + '!'", "hi!"},
		{"n in xs", false},
		{"1 in xs", true},
		{"xs.0", int64(1)},
	}
	for _, tc := range testCases {
		got, err := evalBare(t, tc.expr, args)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("expr %q", tc.expr))
		qt.Check(t, qt.DeepEquals(got, tc.want), qt.Commentf("expr %q", tc.expr))
	}
}

func TestEvalExprErrors(t *testing.T) {
	for _, expr := range []string{
		"1 / 0",
		"1 // 0",
		"1 % 0",
		"1 + 'a'",
		"1 < 'a'",
		"1 in 2",
		"-'a'",
		"~1.5",
		"1 << -1",
		"*[1]",
	} {
		_, err := evalBare(t, expr, nil)
		qt.Check(t, qt.IsNotNil(err), qt.Commentf("expr %q", expr))
	}
}
