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

package token

// Pos is a byte offset into the path or expression source that a token or
// node was parsed from. Paths are short single-line strings, so an offset
// is all the position information there is.
type Pos int

// NoPos is the zero value for positions without a source location.
const NoPos Pos = -1

// IsValid reports whether p refers to a source offset.
func (p Pos) IsValid() bool { return p >= 0 }
