// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"gopkg.microglot.org/scanner.go/internal/exc"
)

// Sentinel errors for use with errors.Is. Errors returned by a Scanner carry
// the position at which they were raised but compare equal to these by kind.
var (
	// ErrNoSuchElement is returned by Next and the typed Next methods when
	// the input holds no further token.
	ErrNoSuchElement error = exc.New(exc.Location{}, exc.CodeNoSuchElement, "no such element")
	// ErrInputMismatch is returned when the next token does not have the
	// form of the requested type. The token is not consumed.
	ErrInputMismatch error = exc.New(exc.Location{}, exc.CodeInputMismatch, "input mismatch")
	// ErrOverflow is returned when the next token is a well formed number
	// that does not fit the requested type. The token is not consumed.
	ErrOverflow error = exc.New(exc.Location{}, exc.CodeOverflow, "value out of range")
	// ErrIllegalState is returned for operations that cannot be performed in
	// the current state, such as NextLine with no line terminator ahead or
	// Match before any successful match.
	ErrIllegalState error = exc.New(exc.Location{}, exc.CodeIllegalState, "illegal state")
	// ErrClosed is returned by every operation on a closed Scanner.
	ErrClosed error = exc.New(exc.Location{}, exc.CodeClosed, "scanner closed")
	// ErrInvalidArgument is returned, or raised as a panic by the fluent
	// setters, when a required argument is nil.
	ErrInvalidArgument error = exc.New(exc.Location{}, exc.CodeInvalidArgument, "invalid argument")
	// ErrInvalidPattern is returned when a regular expression does not
	// compile.
	ErrInvalidPattern error = exc.New(exc.Location{}, exc.CodeInvalidPattern, "invalid pattern")
)
