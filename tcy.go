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

// Package tcy queries tree-structured configuration documents with
// templated paths.
//
// Given a document loaded from YAML, a path expression, and an optional
// argument environment, Access navigates the document, binds arguments
// to parameterized entries, and expands embedded $(...) expressions,
// producing a final value:
//
//	doc, _ := yaml.Extract("config.yaml", nil)
//	v, err := tcy.Access(doc, "server.listen", tcy.Arg("port", 8080))
package tcy

import (
	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/internal/engine"
	"github.com/tcy-lang/tcy/value"
)

// An Option configures a single Access call.
type Option func(*config)

type config struct {
	positional  []map[string]interface{}
	keyword     map[string]interface{}
	fallback    value.Value
	hasFallback bool
	check       func(value.Value) bool
	checkDesc   string
	full        bool
	name        string
	report      func(error)
}

// Args supplies a map of named argument values visible to $(...)
// expressions. The option may repeat; across repeats the first
// occurrence of a name wins.
func Args(args map[string]interface{}) Option {
	return func(c *config) { c.positional = append(c.positional, args) }
}

// Arg supplies a single named argument value. It overrides any Args map
// carrying the same name.
func Arg(name string, v interface{}) Option {
	return func(c *config) {
		if c.keyword == nil {
			c.keyword = make(map[string]interface{})
		}
		c.keyword[name] = v
	}
}

// Fallback makes Access return v instead of reporting any failure.
func Fallback(v interface{}) Option {
	return func(c *config) {
		fv, err := value.From(v)
		if err != nil {
			fv = value.Null{}
		}
		c.fallback = fv
		c.hasFallback = true
	}
}

// Check validates the final value with a predicate.
func Check(f func(value.Value) bool) Option {
	return func(c *config) {
		c.check = f
		c.checkDesc = "validation predicate returned false"
	}
}

// CheckTruthy requires the final value to be truthy.
func CheckTruthy() Option {
	return func(c *config) {
		c.check = value.Truth
		c.checkDesc = "only non-empty values allowed"
	}
}

// CheckList requires the final value to be a non-empty sequence.
func CheckList() Option {
	return func(c *config) {
		c.check = func(v value.Value) bool {
			l, ok := v.(value.List)
			return ok && len(l) > 0
		}
		c.checkDesc = "expected at least one list entry"
	}
}

// CheckMap requires the final value to be a non-empty mapping.
func CheckMap() Option {
	return func(c *config) {
		c.check = func(v value.Value) bool {
			m, ok := v.(*value.Map)
			return ok && m.Len() > 0
		}
		c.checkDesc = "expected at least one subsection entry"
	}
}

// RawResult disables the deep expansion of the final value: nested
// strings keep their splices and batches stay unflattened inside
// containers.
func RawResult() Option {
	return func(c *config) { c.full = false }
}

// Name sets the document name used in error messages. The default is
// "dictionary".
func Name(s string) Option {
	return func(c *config) { c.name = s }
}

// Report installs an error callback. With a callback installed, Access
// invokes it with any failure and returns a null value and a nil error.
func Report(f func(error)) Option {
	return func(c *config) { c.report = f }
}

// Access resolves path against doc and returns the final value.
//
// The path is always resolved from the document root. Unqualified
// references inside $(...) expressions resolve against the argument
// environment instead; ':' anchors a reference back at the root.
//
// On failure, a Fallback short-circuits everything else; otherwise the
// failure goes to the Report callback if one is installed, or comes
// back as the returned error.
func Access(doc value.Value, path string, opts ...Option) (value.Value, error) {
	cfg := &config{full: true, name: "dictionary"}
	for _, o := range opts {
		o(cfg)
	}

	args, err := cfg.argumentMap()
	if err != nil {
		return cfg.fail(err)
	}

	res, err := engine.New(doc, cfg.name, args).Resolve(":"+path, cfg.full)
	if err != nil {
		return cfg.fail(errors.Wrapf(err, errors.KindOf(err), errors.Path(err),
			"could not resolve attribute %q in %s", path, cfg.name))
	}
	v := res.Value()
	if v == nil {
		v = value.Null{}
	}

	if cfg.check != nil && !cfg.check(v) {
		return cfg.fail(errors.Newf(errors.ValidationFailed, nil,
			"key value %q.%s = %q is not valid: %s",
			cfg.name, path, value.Text(v), cfg.checkDesc))
	}
	return v, nil
}

// argumentMap combines the positional argument maps and keyword
// arguments into one environment: first occurrence wins across
// positional maps, keyword arguments override when named.
func (c *config) argumentMap() (*value.Map, error) {
	m := value.NewMap()
	for i := len(c.positional) - 1; i >= 0; i-- {
		for k, v := range c.positional[i] {
			fv, err := value.From(v)
			if err != nil {
				return nil, errors.Promote(err, "invalid argument value")
			}
			m.Set(value.Str(k), fv)
		}
	}
	for k, v := range c.keyword {
		fv, err := value.From(v)
		if err != nil {
			return nil, errors.Promote(err, "invalid argument value")
		}
		m.Set(value.Str(k), fv)
	}
	return m, nil
}

func (c *config) fail(err error) (value.Value, error) {
	if c.hasFallback {
		return c.fallback, nil
	}
	if c.report != nil {
		c.report(err)
		return value.Null{}, nil
	}
	return value.Null{}, err
}
