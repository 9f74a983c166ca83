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

package literal

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/tcy-lang/tcy/value"
)

var parseScalarTests = []struct {
	in   string
	want value.Value
}{
	{"5", value.Int(5)},
	{"-17", value.Int(-17)},
	{"+3", value.Int(3)},
	{"0x1A", value.Int(26)},
	{"0o17", value.Int(15)},
	{"1.5", value.Float(1.5)},
	{".5", value.Float(0.5)},
	{"2.", value.Float(2)},
	{"1e3", value.Float(1000)},
	{"2.5e-1", value.Float(0.25)},
	{"true", value.Bool(true)},
	{"Yes", value.Bool(true)},
	{"no", value.Bool(false)},
	{"FALSE", value.Bool(false)},
	{"null", value.Null{}},
	{"~", value.Null{}},
	{"", value.Null{}},
	{"*", value.Str("*")},
	{"foo", value.Str("foo")},
	{"foo bar", value.Str("foo bar")},
	{"5x", value.Str("5x")},
	{"1.2.3", value.Str("1.2.3")},
	{`"quoted"`, value.Str("quoted")},
	{`'single'`, value.Str("single")},
	{`"a\nb"`, value.Str("a\nb")},
	{`'foo\d'`, value.Str(`foo\d`)},
}

func TestParseScalar(t *testing.T) {
	for _, tc := range parseScalarTests {
		got := ParseScalar(tc.in)
		qt.Check(t, qt.IsTrue(value.Equal(got, tc.want)),
			qt.Commentf("ParseScalar(%q) = %#v, want %#v", tc.in, got, tc.want))
	}
}

func TestParseScalarKinds(t *testing.T) {
	// The int/float decision follows the source spelling.
	qt.Assert(t, qt.Equals(ParseScalar("5").Kind(), value.IntKind))
	qt.Assert(t, qt.Equals(ParseScalar("5.0").Kind(), value.FloatKind))
	qt.Assert(t, qt.Equals(ParseScalar("5e0").Kind(), value.FloatKind))
}

func TestParseNumOverflow(t *testing.T) {
	// Integers beyond int64 degrade to floats rather than failing.
	v, ok := ParseNum("92233720368547758080")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v.Kind(), value.FloatKind))
}

func TestUnquote(t *testing.T) {
	testCases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"abc"`, "abc", true},
		{`'abc'`, "abc", true},
		{`"a'b"`, "a'b", true},
		{`"a\"b"`, `a"b`, true},
		{`"a"b"`, "", false},
		{`"abc'`, "", false},
		{"abc", "", false},
		{`"`, "", false},
	}
	for _, tc := range testCases {
		got, ok := Unquote(tc.in)
		qt.Check(t, qt.Equals(ok, tc.ok), qt.Commentf("Unquote(%q)", tc.in))
		if tc.ok {
			qt.Check(t, qt.Equals(got, tc.want))
		}
	}
}
