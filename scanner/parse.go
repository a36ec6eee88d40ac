// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/locale"
)

// Parser converts a token into a value of type T under a locale. Parse
// returns an error matching ErrInputMismatch when the token has the wrong
// form and ErrOverflow when it is out of range for T.
type Parser[T any] interface {
	TryParse(token string, l *locale.Locale) (T, bool)
	Parse(token string, l *locale.Locale) (T, error)
}

// ParseFunc is an adaptor that lets a plain function serve as a Parser. Use
// like:
//
//	ParseFunc[T](func(token string, l *locale.Locale) (T, error) { ... })
type ParseFunc[T any] func(token string, l *locale.Locale) (T, error)

func (f ParseFunc[T]) Parse(token string, l *locale.Locale) (T, error) {
	return f(token, l)
}

func (f ParseFunc[T]) TryParse(token string, l *locale.Locale) (T, bool) {
	v, err := f(token, l)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

var (
	ParserInt     Parser[int]             = intParser[int](strconv.IntSize)
	ParserInt8    Parser[int8]            = intParser[int8](8)
	ParserInt16   Parser[int16]           = intParser[int16](16)
	ParserInt32   Parser[int32]           = intParser[int32](32)
	ParserInt64   Parser[int64]           = intParser[int64](64)
	ParserUint    Parser[uint]            = uintParser[uint](strconv.IntSize)
	ParserUint8   Parser[uint8]           = uintParser[uint8](8)
	ParserUint16  Parser[uint16]          = uintParser[uint16](16)
	ParserUint32  Parser[uint32]          = uintParser[uint32](32)
	ParserUint64  Parser[uint64]          = uintParser[uint64](64)
	ParserFloat32 Parser[float32]         = floatParser[float32](32)
	ParserFloat64 Parser[float64]         = floatParser[float64](64)
	ParserDecimal Parser[decimal.Decimal] = ParseFunc[decimal.Decimal](parseDecimal)
	ParserBool    Parser[bool]            = ParseFunc[bool](parseBool)
	ParserTime    Parser[time.Time]       = ParseFunc[time.Time](parseTime)
)

func intParser[T signed](bits int) Parser[T] {
	return ParseFunc[T](func(token string, l *locale.Locale) (T, error) {
		plain, err := l.NormalizeInteger(token)
		if err != nil {
			return 0, mismatch(err)
		}
		v, err := strconv.ParseInt(plain, 10, bits)
		if err != nil {
			return 0, numberErr(token, err)
		}
		return T(v), nil
	})
}

func uintParser[T unsigned](bits int) Parser[T] {
	return ParseFunc[T](func(token string, l *locale.Locale) (T, error) {
		plain, err := l.NormalizeInteger(token)
		if err != nil {
			return 0, mismatch(err)
		}
		v, err := strconv.ParseUint(plain, 10, bits)
		if err != nil {
			return 0, numberErr(token, err)
		}
		return T(v), nil
	})
}

func floatParser[T float](bits int) Parser[T] {
	return ParseFunc[T](func(token string, l *locale.Locale) (T, error) {
		plain, err := l.NormalizeFloat(token)
		if err != nil {
			return 0, mismatch(err)
		}
		v, err := strconv.ParseFloat(plain, bits)
		if err != nil {
			return 0, numberErr(token, err)
		}
		return T(v), nil
	})
}

func parseDecimal(token string, l *locale.Locale) (decimal.Decimal, error) {
	plain, err := l.NormalizeFloat(token)
	if err != nil {
		return decimal.Zero, mismatch(err)
	}
	switch plain {
	case "NaN", "+Inf", "-Inf":
		return decimal.Zero, mismatch(errors.Errorf("%q has no decimal value", token))
	}
	v, err := decimal.NewFromString(plain)
	if err != nil {
		return decimal.Zero, mismatch(errors.Wrapf(err, "%q is not a decimal", token))
	}
	return v, nil
}

func parseBool(token string, l *locale.Locale) (bool, error) {
	v, err := l.ParseBool(token)
	if err != nil {
		return false, mismatch(err)
	}
	return v, nil
}

func parseTime(token string, l *locale.Locale) (time.Time, error) {
	v, err := l.ParseTime(token)
	if err != nil {
		return time.Time{}, mismatch(err)
	}
	return v, nil
}

func mismatch(err error) error {
	return exc.Wrap(exc.Location{}, exc.CodeInputMismatch, err)
}

func numberErr(token string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return exc.Wrap(exc.Location{}, exc.CodeOverflow, errors.Wrapf(err, "%q is out of range", token))
	}
	return mismatch(errors.Wrapf(err, "%q is not a number", token))
}
