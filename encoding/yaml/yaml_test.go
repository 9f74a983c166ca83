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

package yaml

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"github.com/tcy-lang/tcy/value"
)

func TestExtractScalars(t *testing.T) {
	doc, err := Extract("test.yaml", `
i: 42
oct: 0o17
hex: 0x10
f: 1.5
e: 2e3
b: true
nope: null
tilde: ~
s: plain
`)
	qt.Assert(t, qt.IsNil(err))
	got := value.ToGo(doc)
	want := map[string]any{
		"i":     int64(42),
		"oct":   int64(15),
		"hex":   int64(16),
		"f":     1.5,
		"e":     2000.0,
		"b":     true,
		"nope":  nil,
		"tilde": nil,
		"s":     "plain",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractQuotedMarker(t *testing.T) {
	doc, err := Extract("test.yaml", `
plain: a
single: 'a'
double: "a"
`)
	qt.Assert(t, qt.IsNil(err))
	m := doc.(*value.Map)

	get := func(key string) value.String {
		v, ok := m.Get(value.Str(key))
		qt.Assert(t, qt.IsTrue(ok))
		return v.(value.String)
	}
	// Only the double-quoted style carries the marker that selects
	// string-mode expansion.
	qt.Assert(t, qt.IsFalse(get("plain").Quoted))
	qt.Assert(t, qt.IsFalse(get("single").Quoted))
	qt.Assert(t, qt.IsTrue(get("double").Quoted))
}

func TestExtractOrder(t *testing.T) {
	doc, err := Extract("test.yaml", `
b: 1
a: 2
c: 3
`)
	qt.Assert(t, qt.IsNil(err))
	var keys []string
	for _, p := range doc.(*value.Map).Pairs() {
		keys = append(keys, value.Text(p.Key))
	}
	qt.Assert(t, qt.DeepEquals(keys, []string{"b", "a", "c"}))
}

func TestExtractAnchorsAndMerge(t *testing.T) {
	doc, err := Extract("test.yaml", `
base: &base
  a: 1
  b: 2
derived:
  <<: *base
  b: 20
`)
	qt.Assert(t, qt.IsNil(err))
	got := value.ToGo(doc)
	want := map[string]any{
		"base":    map[string]any{"a": int64(1), "b": int64(2)},
		"derived": map[string]any{"a": int64(1), "b": int64(20)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStream(t *testing.T) {
	doc, err := Extract("test.yaml", "a: 1\n---\nb: 2\n")
	qt.Assert(t, qt.IsNil(err))
	list, ok := doc.(value.List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(len(list), 2))
}

func TestExtractEmpty(t *testing.T) {
	doc, err := Extract("test.yaml", "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(doc.Kind(), value.NullKind))
}

func TestEncodeRoundTrip(t *testing.T) {
	src := `
name: "templated"
count: 3
ratio: 0.5
flags:
  - true
  - false
nested:
  x: null
`
	doc, err := Extract("test.yaml", src)
	qt.Assert(t, qt.IsNil(err))
	out, err := Encode(doc)
	qt.Assert(t, qt.IsNil(err))
	doc2, err := Extract("test.yaml", out)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(value.ToGo(doc2), value.ToGo(doc)))

	// The quoted marker survives the round trip.
	v, _ := doc2.(*value.Map).Get(value.Str("name"))
	qt.Assert(t, qt.IsTrue(v.(value.String).Quoted))
}
