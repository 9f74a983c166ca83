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
	"fmt"
	"sort"
)

// From converts a native Go value to a Value. It accepts nil, booleans,
// the integer and float kinds, strings, []any, map[string]any, and Value
// itself. Map keys are inserted in sorted order to keep conversion
// deterministic.
func From(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint:
		return Int(v), nil
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint64:
		return Int(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case string:
		return String{Text: v}, nil
	case []any:
		list := make(List, len(v))
		for i, e := range v {
			elem, err := From(e)
			if err != nil {
				return nil, err
			}
			list[i] = elem
		}
		return list, nil
	case []string:
		list := make(List, len(v))
		for i, e := range v {
			list[i] = String{Text: e}
		}
		return list, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			elem, err := From(v[k])
			if err != nil {
				return nil, err
			}
			m.Set(String{Text: k}, elem)
		}
		return m, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a document value", x)
}

// ToGo converts a Value back to plain Go data: nil, bool, int64, float64,
// string, []any, and map[string]any. Non-string mapping keys render
// through Text.
func ToGo(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return x.Text
	case List:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = ToGo(e)
		}
		return out
	case *Map:
		out := make(map[string]any, x.Len())
		for _, p := range x.Pairs() {
			out[Text(p.Key)] = ToGo(p.Value)
		}
		return out
	}
	return nil
}
