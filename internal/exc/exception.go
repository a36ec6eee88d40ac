// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"github.com/pkg/errors"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location identifies where in the input an exception was raised. Position
// counts code points consumed from the start of the source.
type Location struct {
	URI      string
	Position int64
}

func (l Location) String() string {
	if l.URI == "" {
		return fmt.Sprintf("%d", l.Position)
	}
	return fmt.Sprintf("%s:%d", l.URI, l.Position)
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s -- %s: %s", e.location, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

// Is reports whether target is an Exception with the same code. This lets
// callers compare against sentinel values with errors.Is regardless of the
// location or message attached to a particular instance.
func (e *exc) Is(target error) bool {
	return sameCode(e, target)
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func (e *excUnwrap) Is(target error) bool {
	return sameCode(e, target)
}

func sameCode(e Exception, target error) bool {
	t, ok := target.(Exception)
	if !ok {
		return false
	}
	return e.Code() == t.Code()
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Newf(location Location, code string, format string, args ...interface{}) Exception {
	return New(location, code, fmt.Sprintf(format, args...))
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// CodeOf returns the code of the first Exception in the error chain or def
// when there is none.
func CodeOf(err error, def string) string {
	var e Exception
	if errors.As(err, &e) {
		return e.Code()
	}
	return def
}
