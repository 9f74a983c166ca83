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
	"strconv"
	"strings"
)

// Equal reports deep equality of two values. Numbers compare across the
// Int/Float divide; strings compare by text, ignoring the quoted marker;
// maps compare order-insensitively. Batches and handles never compare
// equal unless they are the same object.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return float64(x) == float64(y)
		case Float:
			return x == y
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x.Text == y.Text
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, p := range x.Pairs() {
			v, ok := y.Get(p.Key)
			if !ok || !Equal(p.Value, v) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Compare orders two values, returning -1, 0, or +1 and whether the pair
// is orderable. Numbers order numerically across kinds; strings order
// lexically.
func Compare(a, b Value) (int, bool) {
	if a.Kind()&NumKind != 0 && b.Kind()&NumKind != 0 {
		x, y := AsFloat(a), AsFloat(b)
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	if x, ok := a.(String); ok {
		if y, ok := b.(String); ok {
			return strings.Compare(x.Text, y.Text), true
		}
	}
	return 0, false
}

// Truth reports the truthiness of v: null, false, zero, the empty string,
// and empty containers are false; everything else is true.
func Truth(v Value) bool {
	switch x := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case String:
		return x.Text != ""
	case List:
		return len(x) > 0
	case *Map:
		return x.Len() > 0
	}
	return true
}

// AsFloat returns the numeric value of an Int or Float.
func AsFloat(v Value) float64 {
	switch x := v.(type) {
	case Int:
		return float64(x)
	case Float:
		return float64(x)
	}
	return 0
}

// Text renders v the way it is spelled in a configuration: scalars in
// their source form, containers in expression-literal form. It is the
// rendering used when a splice result is spliced into a string.
func Text(v Value) string {
	switch x := v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return formatFloat(float64(x))
	case String:
		return x.Text
	}
	return string(AppendExpr(nil, v))
}

// formatFloat renders f with a floating-point marker so that the float
// kind survives a round trip through scalar coercion.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}

// AppendExpr appends the rendering of v as an expression-language literal
// to dst. The result parses back to an equal value and is how resolved
// splice values are injected into composed expressions.
func AppendExpr(dst []byte, v Value) []byte {
	switch x := v.(type) {
	case nil, Null:
		return append(dst, "null"...)
	case Bool:
		if x {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case Int:
		return strconv.AppendInt(dst, int64(x), 10)
	case Float:
		return append(dst, formatFloat(float64(x))...)
	case String:
		return strconv.AppendQuote(dst, x.Text)
	case List:
		dst = append(dst, '[')
		for i, e := range x {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = AppendExpr(dst, e)
		}
		return append(dst, ']')
	case *Map:
		dst = append(dst, '{')
		for i, p := range x.Pairs() {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = AppendExpr(dst, p.Key)
			dst = append(dst, ": "...)
			dst = AppendExpr(dst, p.Value)
		}
		return append(dst, '}')
	}
	return append(dst, "null"...)
}
