// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"time"

	"github.com/shopspring/decimal"

	"gopkg.microglot.org/scanner.go/internal/exc"
)

// HasNextOf reports whether the next token can be read as a T using the
// active locale. It never advances the scanner.
func HasNextOf[T any](s *Scanner, p Parser[T]) bool {
	if !s.probeOpen() {
		return false
	}
	t, ok := s.peekToken()
	if !ok {
		return false
	}
	_, ok = p.TryParse(t.value, s.locale)
	return ok
}

// NextOf reads the next token as a T. The token is consumed only when it
// converts. A failed conversion returns an error matching ErrInputMismatch or
// ErrOverflow and the same token is still next.
func NextOf[T any](s *Scanner, p Parser[T]) (T, error) {
	var zero T
	if err := s.ensureOpen(); err != nil {
		return zero, err
	}
	t, ok := s.peekToken()
	if !ok {
		return zero, s.noSuchElement()
	}
	v, err := p.Parse(t.value, s.locale)
	if err != nil {
		return zero, exc.Wrap(exc.Location{URI: s.name, Position: t.start}, exc.CodeOf(err, exc.CodeInputMismatch), err)
	}
	if err := s.commit(t); err != nil {
		return zero, err
	}
	return v, nil
}

func (self *Scanner) HasNextInt() bool {
	return HasNextOf(self, ParserInt)
}

func (self *Scanner) NextInt() (int, error) {
	return NextOf(self, ParserInt)
}

func (self *Scanner) HasNextInt8() bool {
	return HasNextOf(self, ParserInt8)
}

func (self *Scanner) NextInt8() (int8, error) {
	return NextOf(self, ParserInt8)
}

func (self *Scanner) HasNextInt16() bool {
	return HasNextOf(self, ParserInt16)
}

func (self *Scanner) NextInt16() (int16, error) {
	return NextOf(self, ParserInt16)
}

func (self *Scanner) HasNextInt32() bool {
	return HasNextOf(self, ParserInt32)
}

func (self *Scanner) NextInt32() (int32, error) {
	return NextOf(self, ParserInt32)
}

func (self *Scanner) HasNextInt64() bool {
	return HasNextOf(self, ParserInt64)
}

func (self *Scanner) NextInt64() (int64, error) {
	return NextOf(self, ParserInt64)
}

func (self *Scanner) HasNextUint() bool {
	return HasNextOf(self, ParserUint)
}

func (self *Scanner) NextUint() (uint, error) {
	return NextOf(self, ParserUint)
}

func (self *Scanner) HasNextUint8() bool {
	return HasNextOf(self, ParserUint8)
}

func (self *Scanner) NextUint8() (uint8, error) {
	return NextOf(self, ParserUint8)
}

func (self *Scanner) HasNextUint16() bool {
	return HasNextOf(self, ParserUint16)
}

func (self *Scanner) NextUint16() (uint16, error) {
	return NextOf(self, ParserUint16)
}

func (self *Scanner) HasNextUint32() bool {
	return HasNextOf(self, ParserUint32)
}

func (self *Scanner) NextUint32() (uint32, error) {
	return NextOf(self, ParserUint32)
}

func (self *Scanner) HasNextUint64() bool {
	return HasNextOf(self, ParserUint64)
}

func (self *Scanner) NextUint64() (uint64, error) {
	return NextOf(self, ParserUint64)
}

func (self *Scanner) HasNextFloat32() bool {
	return HasNextOf(self, ParserFloat32)
}

func (self *Scanner) NextFloat32() (float32, error) {
	return NextOf(self, ParserFloat32)
}

func (self *Scanner) HasNextFloat64() bool {
	return HasNextOf(self, ParserFloat64)
}

// NextFloat64 accepts the locale spellings of NaN and infinity as well as
// the ASCII forms.
func (self *Scanner) NextFloat64() (float64, error) {
	return NextOf(self, ParserFloat64)
}

func (self *Scanner) HasNextDecimal() bool {
	return HasNextOf(self, ParserDecimal)
}

// NextDecimal reads an arbitrary precision decimal. NaN and infinity have no
// decimal value and are reported as a mismatch.
func (self *Scanner) NextDecimal() (decimal.Decimal, error) {
	return NextOf(self, ParserDecimal)
}

func (self *Scanner) HasNextBool() bool {
	return HasNextOf(self, ParserBool)
}

func (self *Scanner) NextBool() (bool, error) {
	return NextOf(self, ParserBool)
}

func (self *Scanner) HasNextTime() bool {
	return HasNextOf(self, ParserTime)
}

// NextTime tries the locale date layouts in order. Layouts without a zone
// are read in the locale time zone.
func (self *Scanner) NextTime() (time.Time, error) {
	return NextOf(self, ParserTime)
}
