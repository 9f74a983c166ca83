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
	"sort"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/kr/pretty"
	"github.com/rogpeppe/go-internal/txtar"

	tcyyaml "github.com/tcy-lang/tcy/encoding/yaml"
	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/internal/engine"
	"github.com/tcy-lang/tcy/value"
)

// Each case holds a document, a path to resolve against its root, and
// the expected fully evaluated result, with an optional argument
// environment.
var resolveArchive = `
-- literal/doc.yaml --
my_test: 42
-- literal/path --
my_test
-- literal/want.yaml --
42
-- nested/doc.yaml --
my_dictionary:
  my_key: hi
-- nested/path --
my_dictionary.my_key
-- nested/want.yaml --
hi
-- interpolation/doc.yaml --
my_message: "Hello, $(name_to_print)!"
-- interpolation/args.yaml --
name_to_print: World
-- interpolation/path --
my_message
-- interpolation/want.yaml --
Hello, World!
-- evaluated-key/doc.yaml --
my_variable_test:
  x: 1
  y: 2
pick: x
-- evaluated-key/path --
my_variable_test.$(:.pick)
-- evaluated-key/want.yaml --
1
-- index/doc.yaml --
my_config:
  my_paths:
    - a
    - b
    - c
-- index/path --
my_config.my_paths.0
-- index/want.yaml --
a
-- negative-index/doc.yaml --
my_config:
  my_paths:
    - a
    - b
    - c
-- negative-index/path --
my_config.my_paths.-1
-- negative-index/want.yaml --
c
-- factorial/doc.yaml --
fac:
  $n: $(1 if n <= 1 else n * :.fac(n-1))
-- factorial/path --
fac.5
-- factorial/want.yaml --
120
-- merge-explicit-wins/doc.yaml --
base:
  a: 1
  b: 2
derived:
  "**": $(:.base)
  b: 20
  c: 30
-- merge-explicit-wins/path --
derived.b
-- merge-explicit-wins/want.yaml --
20
-- merge-inherited/doc.yaml --
base:
  a: 1
  b: 2
derived:
  "**": $(:.base)
  b: 20
  c: 30
-- merge-inherited/path --
derived.a
-- merge-inherited/want.yaml --
1
-- wildcard/doc.yaml --
m:
  a: 1
  b: 2
  c: 3
-- wildcard/path --
m.*
-- wildcard/want.yaml --
- 1
- 2
- 3
-- multiplex/doc.yaml --
items:
  - n: 1
  - n: 2
  - 7
-- multiplex/path --
items.n
-- multiplex/want.yaml --
- 1
- 2
-- capture/doc.yaml --
$x: $(x)
-- capture/path --
anything
-- capture/want.yaml --
anything
-- capture-literal-wins/doc.yaml --
m:
  foo: 1
  $x: 9
-- capture-literal-wins/path --
m.foo
-- capture-literal-wins/want.yaml --
1
-- capture-reference/doc.yaml --
pick: target
m:
  $key: $(key)
-- capture-reference/path --
m.$(:.pick)
-- capture-reference/want.yaml --
target
-- self-name/doc.yaml --
greet: $(:.greet.)
-- self-name/path --
greet
-- self-name/want.yaml --
greet
-- wildcard-self-name/doc.yaml --
m:
  a: 1
  b: 2
-- wildcard-self-name/path --
m.*.
-- wildcard-self-name/want.yaml --
- a
- b
-- parent-reference/doc.yaml --
a:
  x: 1
  b: $(.x)
-- parent-reference/path --
a.b
-- parent-reference/want.yaml --
1
-- regex-key/doc.yaml --
foo1: 1
foo2: 2
bar: 3
-- regex-key/path --
foo\d
-- regex-key/want.yaml --
- 1
- 2
-- regex-key-named-scope/doc.yaml --
m:
  alpha: $(rest)
  beta: x
-- regex-key-named-scope/path --
m.'al(?P<rest>\w+)'
-- regex-key-named-scope/want.yaml --
- pha
-- string-search/doc.yaml --
s: ab12cd34
-- string-search/path --
s.'\d+'
-- string-search/want.yaml --
- "12"
- "34"
-- index-scope/doc.yaml --
xs:
  - $(__index)
  - $(__index)
-- index-scope/path --
xs.*
-- index-scope/want.yaml --
- 0
- 1
-- string-mode-number/doc.yaml --
port: 8080
url: "host:$(:.port)"
-- string-mode-number/path --
url
-- string-mode-number/want.yaml --
host:8080
-- bare-type-preserved/doc.yaml --
port: 8080
p: $(:.port)
-- bare-type-preserved/path --
p
-- bare-type-preserved/want.yaml --
8080
-- bare-container/doc.yaml --
xs:
  - 1
  - 2
ys: $(:.xs)
-- bare-container/path --
ys
-- bare-container/want.yaml --
- 1
- 2
-- composed/doc.yaml --
a: 2
b: 3
c: $(:.a) * $(:.b)
-- composed/path --
c
-- composed/want.yaml --
6
-- args-expression/doc.yaml --
msg: $(greeting + ", " + name)
-- args-expression/args.yaml --
greeting: Hello
name: World
-- args-expression/path --
msg
-- args-expression/want.yaml --
Hello, World
-- deep-eval/doc.yaml --
n: 5
cfg:
  x: $(:.n)
  ys:
    - $(:.n + 1)
-- deep-eval/path --
cfg
-- deep-eval/want.yaml --
x: 5
ys:
  - 6
`

type resolveCase struct {
	name string
	doc  string
	args string
	path string
	want string
}

func archiveCases(t *testing.T, archive string) []resolveCase {
	t.Helper()
	byName := map[string]*resolveCase{}
	for _, f := range txtar.Parse([]byte(archive)).Files {
		name, file, ok := strings.Cut(f.Name, "/")
		qt.Assert(t, qt.IsTrue(ok), qt.Commentf("malformed file name %q", f.Name))
		c := byName[name]
		if c == nil {
			c = &resolveCase{name: name}
			byName[name] = c
		}
		data := string(f.Data)
		switch file {
		case "doc.yaml":
			c.doc = data
		case "args.yaml":
			c.args = data
		case "path":
			c.path = strings.TrimSpace(data)
		case "want.yaml":
			c.want = data
		default:
			t.Fatalf("unknown file %q", f.Name)
		}
	}
	var cases []resolveCase
	for _, c := range byName {
		cases = append(cases, *c)
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].name < cases[j].name })
	return cases
}

func mustExtract(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := tcyyaml.Extract("test.yaml", src)
	qt.Assert(t, qt.IsNil(err))
	return v
}

func TestResolve(t *testing.T) {
	for _, tc := range archiveCases(t, resolveArchive) {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustExtract(t, tc.doc)
			args := value.NewMap()
			if tc.args != "" {
				am := mustExtract(t, tc.args).(*value.Map)
				for _, p := range am.Pairs() {
					args.Set(p.Key, p.Value)
				}
			}
			res, err := engine.New(doc, "dictionary", args).Resolve(":"+tc.path, true)
			qt.Assert(t, qt.IsNil(err))
			got := value.ToGo(res.Value())
			want := value.ToGo(mustExtract(t, tc.want))
			if !qt.Check(t, qt.DeepEquals(got, want)) {
				t.Logf("resolved value:\n%s", pretty.Sprint(got))
			}
		})
	}
}

func resolveErr(t *testing.T, docSrc, path string) error {
	t.Helper()
	doc := mustExtract(t, docSrc)
	_, err := engine.New(doc, "dictionary", value.NewMap()).Resolve(":"+path, true)
	qt.Assert(t, qt.IsNotNil(err))
	return err
}

func TestResolveErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		path string
		kind errors.Kind
	}{
		{"missing key", "a: 1", "b", errors.NoSuchAttribute},
		{"null cursor", "a: null", "a.b", errors.NoSuchAttribute},
		{"index out of range", "xs: [1, 2]", "xs.5", errors.IndexOutOfRange},
		{"scalar cursor", "a: 5", "a.b", errors.CannotAccess},
		{"ambiguous capture", "m: {$a: 1, $b: 2}", "m.z", errors.AmbiguousCapture},
		{"upward from root", "a: $(...missing)", "a", errors.UpwardFromRoot},
		{"bad regex on string", "s: abc", `s.'a('`, errors.BadRegex},
		{"division by zero", "a: $(1 / 0)", "a", errors.EvalError},
		{"type mismatch", "a: $(1 + 'x')", "a", errors.EvalError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := resolveErr(t, tc.doc, tc.path)
			qt.Assert(t, qt.Equals(errors.KindOf(err), tc.kind), qt.Commentf("got error: %v", err))
		})
	}
}

func TestFullEvaluationIdempotent(t *testing.T) {
	doc := mustExtract(t, `
cfg:
  n: 5
  x: $(:.cfg.n)
  xs:
    - $(:.cfg.n + 1)
`)
	res, err := engine.New(doc, "dictionary", value.NewMap()).Resolve(":cfg", true)
	qt.Assert(t, qt.IsNil(err))
	once := res.Value()

	again, err := engine.New(once, "dictionary", value.NewMap()).Resolve(":", true)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(value.ToGo(again.Value()), value.ToGo(once)))
}

func TestRawResolveKeepsTemplates(t *testing.T) {
	doc := mustExtract(t, "t: $(missing)")
	res, err := engine.New(doc, "dictionary", value.NewMap()).Resolve(":t", false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(value.ToGo(res.Value()).(string), "$(missing)"))
}

func TestMultiplexPreservesOrder(t *testing.T) {
	doc := mustExtract(t, `
items:
  - {k: 3}
  - {k: 1}
  - 9
  - {k: 2}
`)
	res, err := engine.New(doc, "dictionary", value.NewMap()).Resolve(":items.k", true)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals[any](value.ToGo(res.Value()), []any{int64(3), int64(1), int64(2)}))
}
