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

import "strings"

// Kind reports the runtime shape of a Value as a bitmask so that dispatch
// sites can test against classes of kinds, such as NumKind.
type Kind uint16

const (
	NullKind Kind = 1 << iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	ListKind
	MapKind

	// BatchKind and HandleKind are engine-internal shapes: a multiplexed
	// bundle of navigation states and a reference to a single navigation
	// state. They never appear in loaded documents.
	BatchKind
	HandleKind

	NumKind    = IntKind | FloatKind
	ScalarKind = NullKind | BoolKind | NumKind | StringKind
	TopKind    = ScalarKind | ListKind | MapKind | BatchKind | HandleKind
)

var kindStrs = []struct {
	kind Kind
	name string
}{
	{NullKind, "null"},
	{BoolKind, "bool"},
	{IntKind, "int"},
	{FloatKind, "float"},
	{StringKind, "string"},
	{ListKind, "list"},
	{MapKind, "map"},
	{BatchKind, "batch"},
	{HandleKind, "handle"},
}

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	var parts []string
	for _, s := range kindStrs {
		if k&s.kind != 0 {
			parts = append(parts, s.name)
		}
	}
	return strings.Join(parts, "|")
}
