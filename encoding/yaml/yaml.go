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

// Package yaml loads YAML documents into the document value model and
// encodes values back. Decoding works on the YAML node tree so that the
// double-quoted style of scalars survives as the quoted marker that
// drives string-mode expansion, and mapping order is preserved.
package yaml

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tcy-lang/tcy/literal"
	"github.com/tcy-lang/tcy/value"
)

// Extract parses YAML into a document value. src may be a []byte,
// string, or io.Reader; a nil src reads the named file. A stream of
// several documents becomes a list of the streamed values.
func Extract(filename string, src interface{}) (value.Value, error) {
	b, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	var docs []value.Value
	dec := yaml.NewDecoder(bytes.NewReader(b))
	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%s: %v", filename, err)
		}
		d := &decoder{filename: filename}
		v, err := d.extract(&n)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
	switch len(docs) {
	case 0:
		return value.Null{}, nil
	case 1:
		return docs[0], nil
	default:
		return value.List(docs), nil
	}
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch s := src.(type) {
	case nil:
		return os.ReadFile(filename)
	case []byte:
		return s, nil
	case string:
		return []byte(s), nil
	case io.Reader:
		return io.ReadAll(s)
	}
	return nil, fmt.Errorf("invalid source type %T", src)
}

type decoder struct {
	filename string

	// expandingAliases guards against anchors containing themselves.
	expandingAliases map[*yaml.Node]bool
}

func (d *decoder) posErrorf(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %s", d.filename, n.Line, n.Column, fmt.Sprintf(format, args...))
}

func (d *decoder) extract(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return d.extract(n.Content[0])

	case yaml.SequenceNode:
		out := make(value.List, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.extract(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.MappingNode:
		m := value.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Tag == "!!merge" {
				if err := d.mergeInto(m, vn); err != nil {
					return nil, err
				}
				continue
			}
			k, err := d.extract(kn)
			if err != nil {
				return nil, err
			}
			v, err := d.extract(vn)
			if err != nil {
				return nil, err
			}
			if !m.Set(k, v) {
				return nil, d.posErrorf(kn, "unusable mapping key of kind %s", k.Kind())
			}
		}
		return m, nil

	case yaml.AliasNode:
		if d.expandingAliases[n] {
			return nil, d.posErrorf(n, "anchor %q value contains itself", n.Value)
		}
		if d.expandingAliases == nil {
			d.expandingAliases = make(map[*yaml.Node]bool)
		}
		d.expandingAliases[n] = true
		v, err := d.extract(n.Alias)
		delete(d.expandingAliases, n)
		return v, err

	case yaml.ScalarNode:
		return d.scalar(n)
	}
	return nil, d.posErrorf(n, "cannot decode node kind %d", n.Kind)
}

// mergeInto applies a "<<" merge key: entries of the merged mapping, or
// sequence of mappings, are added unless already present.
func (d *decoder) mergeInto(m *value.Map, vn *yaml.Node) error {
	v, err := d.extract(vn)
	if err != nil {
		return err
	}
	var sources []value.Value
	switch x := v.(type) {
	case value.List:
		sources = x
	default:
		sources = []value.Value{v}
	}
	for _, src := range sources {
		mm, ok := src.(*value.Map)
		if !ok {
			return d.posErrorf(vn, "cannot merge %s into a mapping", src.Kind())
		}
		for _, p := range mm.Pairs() {
			if !m.Has(p.Key) {
				m.Set(p.Key, p.Value)
			}
		}
	}
	return nil
}

func (d *decoder) scalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!str":
		return value.String{
			Text:   n.Value,
			Quoted: n.Style&yaml.DoubleQuotedStyle != 0,
		}, nil
	case "!!int":
		v, ok := literal.ParseNum(n.Value)
		if !ok {
			return nil, d.posErrorf(n, "cannot decode %q as an integer", n.Value)
		}
		return v, nil
	case "!!float":
		v, ok := literal.ParseNum(n.Value)
		if !ok {
			return nil, d.posErrorf(n, "cannot decode %q as a float", n.Value)
		}
		if i, isInt := v.(value.Int); isInt {
			return value.Float(i), nil
		}
		return v, nil
	case "!!bool":
		switch n.Value {
		case "true", "True", "TRUE":
			return value.Bool(true), nil
		}
		return value.Bool(false), nil
	case "!!null":
		return value.Null{}, nil
	default:
		// Timestamps, binary data, and unknown tags keep their text.
		return value.Str(n.Value), nil
	}
}

// Encode renders a document value as YAML. Quoted strings keep their
// double-quoted style.
func Encode(v value.Value) ([]byte, error) {
	n, err := encodeNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

func encodeNode(v value.Value) (*yaml.Node, error) {
	scalar := func(tag, text string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	}
	switch x := v.(type) {
	case nil, value.Null:
		return scalar("!!null", "null"), nil
	case value.Bool:
		if x {
			return scalar("!!bool", "true"), nil
		}
		return scalar("!!bool", "false"), nil
	case value.Int:
		return scalar("!!int", strconv.FormatInt(int64(x), 10)), nil
	case value.Float:
		f := float64(x)
		switch {
		case math.IsInf(f, 1):
			return scalar("!!float", ".inf"), nil
		case math.IsInf(f, -1):
			return scalar("!!float", "-.inf"), nil
		case math.IsNaN(f):
			return scalar("!!float", ".nan"), nil
		}
		return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64)), nil
	case value.String:
		n := scalar("!!str", x.Text)
		if x.Quoted {
			n.Style = yaml.DoubleQuotedStyle
		}
		return n, nil
	case value.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			c, err := encodeNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *value.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range x.Pairs() {
			k, err := encodeNode(p.Key)
			if err != nil {
				return nil, err
			}
			c, err := encodeNode(p.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, k, c)
		}
		return n, nil
	}
	return nil, fmt.Errorf("cannot encode value of kind %s", v.Kind())
}
