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
	"github.com/tcy-lang/tcy/token"
)

// A Segment is one piece of a string value undergoing expansion: either
// verbatim text or the body of a splice.
type Segment struct {
	Pos    token.Pos
	Text   string
	Splice bool
}

// Splices cuts a string into verbatim text and splice bodies. In
// string-mode only the form $(...) splices; in bare mode the short form
// $dotted.path splices as well. A dollar that opens no well-formed
// splice stays verbatim.
func Splices(s string, stringMode bool) []Segment {
	var segs []Segment
	verbatimStart := 0
	i := 0
	flush := func(end int) {
		if end > verbatimStart {
			segs = append(segs, Segment{
				Pos:  token.Pos(verbatimStart),
				Text: s[verbatimStart:end],
			})
		}
	}
	for i < len(s) {
		if s[i] != '$' {
			i++
			continue
		}
		dollar := i
		if i+1 < len(s) && s[i+1] == '(' {
			body, end, ok := scanSpliceGroup(s, i+1)
			if ok {
				flush(dollar)
				segs = append(segs, Segment{Pos: token.Pos(dollar + 2), Text: body, Splice: true})
				i = end
				verbatimStart = i
				continue
			}
		}
		if !stringMode && i+1 < len(s) && isPathStart(s[i+1]) {
			body, end := scanShortSplice(s, i+1)
			flush(dollar)
			segs = append(segs, Segment{Pos: token.Pos(dollar + 1), Text: body, Splice: true})
			i = end
			verbatimStart = i
			continue
		}
		i++
	}
	flush(len(s))
	return segs
}

// scanSpliceGroup consumes the balanced group starting at the '(' at
// offset i and returns its contents.
func scanSpliceGroup(s string, i int) (body string, end int, ok bool) {
	depth := 0
	start := i + 1
	for i < len(s) {
		switch c := s[i]; c {
		case '(':
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return s[start : i-1], i, true
			}
		case '"', '\'':
			q := c
			i++
			for i < len(s) {
				if s[i] == '\\' {
					i += 2
					continue
				}
				i++
				if s[i-1] == q {
					break
				}
			}
		default:
			i++
		}
	}
	return "", i, false
}

func isPathStart(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '.' || c == ':'
}

func isPathChar(c byte) bool {
	return isPathStart(c) || c == '*'
}

// scanShortSplice consumes the body of a bare-mode $path splice: a run
// of path characters and balanced parenthesized groups.
func scanShortSplice(s string, i int) (body string, end int) {
	start := i
	for i < len(s) {
		c := s[i]
		switch {
		case isPathChar(c):
			i++
		case c == '(':
			_, j, ok := scanSpliceGroup(s, i)
			if !ok {
				return s[start:i], i
			}
			i = j
		default:
			return s[start:i], i
		}
	}
	return s[start:i], i
}
