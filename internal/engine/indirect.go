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

package engine

import (
	"regexp"
	"strings"

	"github.com/tcy-lang/tcy/errors"
	"github.com/tcy-lang/tcy/value"
)

var captureKeyRx = regexp.MustCompile(`^\$\w*$`)

// isRegexKey reports whether a key looks like a regular expression:
// anything containing a regex metacharacter, excluding the bare
// wildcard.
func isRegexKey(s string) bool {
	return s != "*" && strings.ContainsAny(s, `\+*.()[]{}`)
}

// keyFunc lazily evaluates a key. The result may be a *Resolution when
// the key came from an expression, which matters for capture bindings.
type keyFunc func() (value.Value, error)

// keyOf unwraps a possibly handle-valued key to the value compared
// against container entries.
func keyOf(key value.Value) value.Value {
	if h, ok := key.(*Resolution); ok {
		return h.finalize(false).Value()
	}
	return key
}

// indirect performs one step of navigation: it interprets key against
// the cursor, dispatching on the cursor's runtime shape. rawWildcard is
// set only when the key was spelled as a literal asterisk in the path,
// never for an evaluated expression that happens to equal "*".
//
// eval, if non-nil, evaluates the key on demand. On a mapping cursor it
// is consulted only after literal lookup fails; sequence, batch, and
// string cursors evaluate it before the access.
func (r *Resolution) indirect(key value.Value, rawWildcard bool, eval keyFunc) (*Resolution, error) {
	keyValue := keyOf(key)

	switch cursor := r.Value().(type) {
	case nil, value.Null:
		return nil, errors.Newf(errors.NoSuchAttribute, r.locationPath(),
			"cannot access key %q in '%s' = null", value.Text(keyValue), r.Location())

	case *Resolution:
		// Continue inside the referenced resolution.
		return r.call(cursor).indirect(key, rawWildcard, eval)

	case *value.Map:
		return r.indirectMap(cursor, key, keyValue, rawWildcard, eval)

	case value.List:
		keyValue, key = r.forceKey(key, keyValue, &eval)
		if b, ok := keyValue.(*Batch); ok {
			return r.fanOutKey(b, keyValue)
		}
		return r.indirectList(cursor, keyValue, rawWildcard)

	case *Batch:
		keyValue, _ = r.forceKey(key, keyValue, &eval)
		branches := make([]*Resolution, 0, len(cursor.elems))
		for _, e := range cursor.elems {
			if res, err := e.indirect(keyValue, rawWildcard, nil); err == nil {
				branches = append(branches, res)
			}
		}
		return r.push(&Batch{elems: branches}, keyValue, nil), nil

	case value.String:
		keyValue, _ = r.forceKey(key, keyValue, &eval)
		return r.indirectString(cursor, keyValue)

	default:
		return nil, errors.Newf(errors.CannotAccess, r.locationPath(),
			"cannot access key %q in '%s' of kind %s",
			value.Text(keyValue), r.Location(), cursor.Kind())
	}
}

// forceKey evaluates a deferred key, clearing the callback.
func (r *Resolution) forceKey(key, keyValue value.Value, eval *keyFunc) (value.Value, value.Value) {
	if *eval == nil {
		return keyValue, key
	}
	f := *eval
	*eval = nil
	k, err := f()
	if err != nil {
		// A key that fails to evaluate keeps its literal reading.
		return keyValue, key
	}
	return keyOf(k), k
}

// fanOutKey multiplexes an access whose key is itself a batch.
func (r *Resolution) fanOutKey(b *Batch, label value.Value) (*Resolution, error) {
	branches := make([]*Resolution, 0, len(b.elems))
	for _, e := range b.elems {
		if res, err := r.indirect(e.Value(), false, nil); err == nil {
			branches = append(branches, res)
		}
	}
	return r.push(&Batch{elems: branches}, label, nil), nil
}

func (r *Resolution) indirectMap(m *value.Map, key, keyValue value.Value, rawWildcard bool, eval keyFunc) (*Resolution, error) {
	// A literal asterisk gives every value regardless of key.
	if rawWildcard {
		branches := make([]*Resolution, 0, m.Len())
		for _, p := range r.effectivePairs(m) {
			branches = append(branches, r.push(p.Value, p.Key, nil))
		}
		return r.push(&Batch{elems: branches}, keyValue, nil), nil
	}

	if res, ok := r.lookup(m, keyValue, key); ok {
		return res, nil
	}

	captures := captureKeys(m)

	// A single unnamed capture discards the key entirely.
	if len(captures) == 1 && captures[0] == "$" {
		v, _ := m.Get(value.Str("$"))
		return r.push(v, value.Str("$"), nil), nil
	}

	if eval != nil {
		keyValue, key = r.forceKey(key, keyValue, &eval)

		if b, ok := keyValue.(*Batch); ok {
			return r.fanOutKey(b, keyValue)
		}
		if res, ok := r.lookup(m, keyValue, key); ok {
			return res, nil
		}
	}

	// A key containing regex metacharacters multiplexes over the
	// matching entries. The match's groups become an argument scope for
	// each branch.
	if s, ok := keyValue.(value.String); ok && isRegexKey(s.Text) {
		return r.indirectMapRegex(m, s.Text)
	}

	switch len(captures) {
	case 0:
		return nil, errors.Newf(errors.NoSuchAttribute, r.locationPath(),
			"no key %q found in dictionary '%s'", value.Text(keyValue), r.Location())
	case 1:
	default:
		return nil, errors.Newf(errors.AmbiguousCapture, r.locationPath(),
			"more than one capture key in '%s' ('%s')",
			r.Location(), strings.Join(captures, "', '"))
	}

	capture := captures[0]
	captureVal, _ := m.Get(value.Str(capture))
	scope := value.NewMap()
	var bound *Resolution
	if h, ok := key.(*Resolution); ok {
		// An evaluated key binds as a reference, keeping its context.
		bound = h.referenceAt(r, value.Str(capture))
	} else {
		bound = r.push(key, value.Str(capture), nil)
	}
	scope.Set(value.Str(capture[1:]), bound)
	return r.push(captureVal, value.Str(capture), scope), nil
}

// lookup tries a literal key match, including merged entries.
func (r *Resolution) lookup(m *value.Map, keyValue, key value.Value) (*Resolution, bool) {
	if k, ok := value.KeyOf(keyValue); ok {
		if v, found := m.GetKey(k); found {
			return r.push(v, keyValue, nil), true
		}
	}
	// A "**" entry merges another mapping into this one; explicit keys
	// win, so it is consulted only after direct lookup fails.
	if mergeVal, ok := m.Get(value.Str("**")); ok {
		merged, err := r.push(mergeVal, value.Str("**"), nil).deepValue()
		if err == nil {
			if mm, ok := merged.(*value.Map); ok {
				if v, found := mm.Get(keyValue); found {
					return r.push(v, keyValue, nil), true
				}
			}
		}
	}
	return nil, false
}

// effectivePairs lists a mapping's entries with "**" merges expanded:
// merged entries first, explicit entries after and winning on
// collision.
func (r *Resolution) effectivePairs(m *value.Map) []value.Pair {
	mergeVal, ok := m.Get(value.Str("**"))
	if !ok {
		return m.Pairs()
	}
	out := value.NewMap()
	if merged, err := r.push(mergeVal, value.Str("**"), nil).deepValue(); err == nil {
		if mm, ok := merged.(*value.Map); ok {
			for _, p := range mm.Pairs() {
				out.Set(p.Key, p.Value)
			}
		}
	}
	for _, p := range m.Pairs() {
		if s, ok := p.Key.(value.String); ok && s.Text == "**" {
			continue
		}
		out.Set(p.Key, p.Value)
	}
	return out.Pairs()
}

func captureKeys(m *value.Map) []string {
	var keys []string
	for _, p := range m.Pairs() {
		if s, ok := p.Key.(value.String); ok && captureKeyRx.MatchString(s.Text) {
			keys = append(keys, s.Text)
		}
	}
	return keys
}

func (r *Resolution) indirectMapRegex(m *value.Map, pattern string) (*Resolution, error) {
	// Anchor at the start only, matching the source semantics of
	// matching rather than full-matching keys.
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, errors.Newf(errors.BadRegex, r.locationPath(),
			"key %q is not a valid regular expression: %v", pattern, err)
	}
	names := re.SubexpNames()
	named := false
	for _, n := range names[1:] {
		if n != "" {
			named = true
			break
		}
	}
	var branches []*Resolution
	for _, p := range m.Pairs() {
		s, ok := p.Key.(value.String)
		if !ok {
			continue
		}
		groups := re.FindStringSubmatch(s.Text)
		if groups == nil {
			continue
		}
		scope := value.NewMap()
		for i, g := range groups[1:] {
			if named {
				if names[i+1] != "" {
					scope.Set(value.Str(names[i+1]), value.Str(g))
				}
			} else {
				scope.Set(value.Int(i), value.Str(g))
			}
		}
		branches = append(branches, r.push(p.Value, p.Key, scope))
	}
	return r.push(&Batch{elems: branches}, value.Str(pattern), nil), nil
}

func (r *Resolution) indirectList(list value.List, keyValue value.Value, rawWildcard bool) (*Resolution, error) {
	switch k := keyValue.(type) {
	case value.Int:
		idx := int(k)
		if idx < -len(list) || idx >= len(list) {
			return nil, errors.Newf(errors.IndexOutOfRange, r.locationPath(),
				"index %d is out of range for list '%s'", idx, r.Location())
		}
		if idx < 0 {
			idx += len(list)
		}
		if h, ok := list[idx].(*Resolution); ok {
			return h, nil
		}
		return r.push(list[idx], keyValue, nil), nil
	}

	if s, ok := keyValue.(value.String); rawWildcard || ok && s.Text == "*" {
		branches := make([]*Resolution, 0, len(list))
		for i, v := range list {
			branches = append(branches, r.push(v, value.Int(i), indexScope(i)))
		}
		return r.push(&Batch{elems: branches}, keyValue, nil), nil
	}

	// Any other key multiplexes: the access is applied to every element
	// and the failing branches are dropped.
	branches := make([]*Resolution, 0, len(list))
	for i, v := range list {
		sub := r.push(v, value.Int(i), indexScope(i))
		if res, err := sub.indirect(keyValue, false, nil); err == nil {
			branches = append(branches, res)
		}
	}
	return r.push(&Batch{elems: branches}, keyValue, nil), nil
}

func indexScope(i int) *value.Map {
	scope := value.NewMap()
	scope.Set(value.Str("__index"), value.Int(i))
	return scope
}

func (r *Resolution) indirectString(cursor value.String, keyValue value.Value) (*Resolution, error) {
	s, ok := keyValue.(value.String)
	if !ok {
		return nil, errors.Newf(errors.CannotAccess, r.locationPath(),
			"cannot access string '%s' with key of kind %s, expected search pattern",
			r.Location(), keyValue.Kind())
	}
	re, err := regexp.Compile(s.Text)
	if err != nil {
		return nil, errors.Newf(errors.BadRegex, r.locationPath(),
			"key %q is not a valid regular expression: %v", s.Text, err)
	}
	names := re.SubexpNames()
	named := false
	for _, n := range names[1:] {
		if n != "" {
			named = true
			break
		}
	}
	var branches []*Resolution
	for i, groups := range re.FindAllStringSubmatch(cursor.Text, -1) {
		var v value.Value
		switch {
		case named:
			m := value.NewMap()
			for gi, g := range groups[1:] {
				if names[gi+1] != "" {
					m.Set(value.Str(names[gi+1]), value.Str(g))
				}
			}
			v = m
		case len(groups) > 1:
			list := make(value.List, 0, len(groups)-1)
			for _, g := range groups[1:] {
				list = append(list, value.Str(g))
			}
			v = list
		default:
			v = value.Str(groups[0])
		}
		branches = append(branches, r.push(v, value.Int(i), nil))
	}
	return r.push(&Batch{elems: branches}, keyValue, nil), nil
}
