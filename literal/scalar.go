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

// Package literal implements conversions of source text to document
// values: the coercion a scalar written in a path undergoes, and the
// unquoting of string literals.
package literal

import (
	"strings"

	"github.com/tcy-lang/tcy/value"
)

// ParseScalar interprets raw path text the way a YAML scalar is
// interpreted: numbers become Int or Float, the boolean and null words
// become their values, quoted text becomes its unquoted string, and
// everything else stays a string. The wildcard "*" stays the literal
// string; its special meaning is decided on the raw source text by the
// navigation engine, never on a coerced value.
func ParseScalar(s string) value.Value {
	switch s {
	case "":
		return value.Null{}
	case "*":
		return value.Str("*")
	case "true", "True", "TRUE", "yes", "Yes", "YES":
		return value.Bool(true)
	case "false", "False", "FALSE", "no", "No", "NO":
		return value.Bool(false)
	case "null", "Null", "NULL", "~":
		return value.Null{}
	}
	if n, ok := ParseNum(s); ok {
		return n
	}
	if text, ok := Unquote(s); ok {
		return value.Str(text)
	}
	return value.Str(s)
}

// Unquote strips a matching pair of single or double quotes from s and
// resolves backslash escapes. It reports false if s is not a quoted
// string.
func Unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		// Reject strings with a stray closing quote inside, such as "a"b".
		if strings.ContainsRune(body, rune(q)) {
			return "", false
		}
		return body, true
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == q {
			return "", false
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(body[i])
		default:
			// Unknown escapes keep their backslash, the way regex
			// patterns are usually spelled.
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String(), true
}
