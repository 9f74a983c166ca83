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

// Package errors defines shared types for handling errors raised while
// navigating and evaluating a document.
//
// The pivotal type is the interface Error, which carries the failure
// kind and the document location the failure occurred at.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tcy-lang/tcy/token"
)

// Kind classifies a failure.
type Kind uint8

const (
	Unknown Kind = iota

	// NoSuchAttribute reports a key that is missing with no capture key
	// applicable.
	NoSuchAttribute

	// IndexOutOfRange reports an integer key outside sequence bounds.
	IndexOutOfRange

	// CannotAccess reports a cursor shape with no indirection rule for
	// the key shape.
	CannotAccess

	// AmbiguousCapture reports more than one capture key in a mapping.
	AmbiguousCapture

	// UpwardFromRoot reports an upward move requested at the root.
	UpwardFromRoot

	// BadRegex reports a regex key that failed to compile.
	BadRegex

	// ParseError reports a malformed path or expression.
	ParseError

	// EvalError reports a failure inside an expression body.
	EvalError

	// ValidationFailed reports a value that did not pass its check.
	ValidationFailed
)

var kindNames = [...]string{
	Unknown:          "unknown",
	NoSuchAttribute:  "no such attribute",
	IndexOutOfRange:  "index out of range",
	CannotAccess:     "cannot access",
	AmbiguousCapture: "ambiguous capture",
	UpwardFromRoot:   "upward from root",
	BadRegex:         "bad regex",
	ParseError:       "parse error",
	EvalError:        "eval error",
	ValidationFailed: "validation failed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// New is a convenience wrapper for [errors.New] in the core library.
// It does not return an engine Error.
func New(msg string) error {
	return errors.New(msg)
}

// Unwrap returns the result of calling the Unwrap method on err, if err
// implements Unwrap. Otherwise, Unwrap returns nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches the type to which
// target points, and if so, sets the target to its value and returns true.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// A Message implements the error interface holding a deferred format
// string and its arguments.
type Message struct {
	format string
	args   []interface{}
}

// NewMessagef creates an error message for human consumption.
func NewMessagef(format string, args ...interface{}) Message {
	if false {
		// Let go vet know that we're expecting printf-like arguments.
		_ = fmt.Sprintf(format, args...)
	}
	return Message{format: format, args: args}
}

// Msg returns a printf-style format string and its arguments.
func (m *Message) Msg() (format string, args []interface{}) {
	return m.format, m.args
}

func (m *Message) Error() string {
	return fmt.Sprintf(m.format, m.args...)
}

// Error is the common error interface of the engine.
type Error interface {
	// Error reports the error message without location information.
	Error() string

	// Kind reports the failure class.
	Kind() Kind

	// Path returns the location labels of the cursor the error occurred
	// at. It may be nil for errors without a document location.
	Path() []string

	// Position returns the offset into the path or expression source the
	// error was detected at, or token.NoPos.
	Position() token.Pos

	// Msg returns the unformatted error message and its arguments.
	Msg() (format string, args []interface{})
}

var _ Error = &baseError{}

type baseError struct {
	kind Kind
	path []string
	pos  token.Pos
	Message
}

func (e *baseError) Kind() Kind          { return e.kind }
func (e *baseError) Path() []string      { return e.path }
func (e *baseError) Position() token.Pos { return e.pos }

// Newf creates an Error of kind k at the given document location.
func Newf(k Kind, path []string, format string, args ...interface{}) Error {
	return &baseError{
		kind:    k,
		path:    path,
		pos:     token.NoPos,
		Message: NewMessagef(format, args...),
	}
}

// Parsef creates a ParseError at the given source offset.
func Parsef(pos token.Pos, format string, args ...interface{}) Error {
	return &baseError{
		kind:    ParseError,
		pos:     pos,
		Message: NewMessagef(format, args...),
	}
}

// Wrapf creates an Error with the given kind and message. The provided
// error is retained for inspection.
func Wrapf(err error, k Kind, path []string, format string, args ...interface{}) Error {
	return &wrapped{
		main: &baseError{
			kind:    k,
			path:    path,
			pos:     token.NoPos,
			Message: NewMessagef(format, args...),
		},
		wrap: err,
	}
}

// Promote converts a regular Go error to an Error if it isn't already one.
func Promote(err error, msg string) Error {
	switch x := err.(type) {
	case nil:
		return nil
	case Error:
		return x
	default:
		return Wrapf(err, Unknown, nil, "%s", msg)
	}
}

// KindOf reports the kind of the first Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	if e := Error(nil); errors.As(err, &e) {
		return e.Kind()
	}
	return Unknown
}

// Path returns the path of an Error if err is of that type.
func Path(err error) []string {
	if e := Error(nil); errors.As(err, &e) {
		return e.Path()
	}
	return nil
}

type wrapped struct {
	main Error
	wrap error
}

func (e *wrapped) Error() string {
	switch msg := e.main.Error(); {
	case e.wrap == nil:
		return msg
	case msg == "":
		return e.wrap.Error()
	default:
		return fmt.Sprintf("%s: %s", msg, e.wrap)
	}
}

func (e *wrapped) Is(target error) bool         { return Is(e.main, target) }
func (e *wrapped) As(target interface{}) bool   { return As(e.main, target) }
func (e *wrapped) Msg() (string, []interface{}) { return e.main.Msg() }
func (e *wrapped) Kind() Kind                   { return e.main.Kind() }
func (e *wrapped) Position() token.Pos          { return e.main.Position() }
func (e *wrapped) Unwrap() error                { return e.wrap }

func (e *wrapped) Path() []string {
	if p := e.main.Path(); p != nil {
		return p
	}
	return Path(e.wrap)
}

// Details renders err for human consumption, prefixing the document
// location when there is one.
func Details(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	e := Error(nil)
	if !errors.As(err, &e) {
		b.WriteString(err.Error())
		return b.String()
	}
	if path := strings.Join(e.Path(), "."); path != "" {
		b.WriteString(path)
		b.WriteString(": ")
	}
	b.WriteString(err.Error())
	if pos := e.Position(); pos.IsValid() {
		fmt.Fprintf(&b, " (at offset %d)", pos)
	}
	return b.String()
}
