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
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/apd/v3"

	"github.com/tcy-lang/tcy/value"
)

var (
	rxInt = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`^[-+]?([0-9]+|0o[0-7]+|0x[0-9a-fA-F]+)$`)
	})
	rxFloat = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)
	})
)

// ParseNum interprets s as a numeric scalar. The int/float decision
// follows the source spelling: a decimal point or exponent makes a Float.
// Integers too large for their machine representation degrade to Float.
func ParseNum(s string) (value.Value, bool) {
	if s == "" {
		return nil, false
	}
	if rxInt().MatchString(s) {
		text := s
		base := 10
		neg := false
		if text[0] == '+' || text[0] == '-' {
			neg = text[0] == '-'
			text = text[1:]
		}
		switch {
		case strings.HasPrefix(text, "0x"):
			base, text = 16, text[2:]
		case strings.HasPrefix(text, "0o"):
			base, text = 8, text[2:]
		}
		n, err := strconv.ParseInt(text, base, 64)
		if err == nil {
			if neg {
				n = -n
			}
			return value.Int(n), true
		}
		// Out of int64 range. Fall through to decimal parsing.
		return parseDecimal(s)
	}
	if rxFloat().MatchString(s) {
		return parseDecimal(s)
	}
	switch s {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return value.Float(math.Inf(1)), true
	case "-.inf", "-.Inf", "-.INF":
		return value.Float(math.Inf(-1)), true
	case ".nan", ".NaN", ".NAN":
		return value.Float(math.NaN()), true
	}
	return nil, false
}

// parseDecimal anchors the number syntax on apd the way the decimal
// parser of a configuration evaluator does, then projects the result to
// the machine float representation.
func parseDecimal(s string) (value.Value, bool) {
	d, _, err := apd.NewFromString(s)
	if err == nil {
		if f, err := d.Float64(); err == nil {
			return value.Float(f), true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return value.Float(f), true
}
