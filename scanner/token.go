// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/internal/iter"
	"gopkg.microglot.org/scanner.go/internal/optional"
)

// token is a peeked token that has not been committed. skip and length count
// code points.
type token struct {
	value  string
	skip   int
	length int
	start  int64
}

// tokenWindow is the number of runes read before the first attempt to find a
// token boundary. Each undecided attempt doubles the window.
const tokenWindow = 64

// peek is the outcome of peekToken for one position and delimiter.
type peek struct {
	position int64
	delim    *delimiter
	token    token
	ok       bool
}

// peekToken finds the next token without consuming anything. Runes are read
// into a candidate that grows geometrically and the delimiter is tested once
// per growth step, or earlier when the source has nothing more to give
// without blocking and the candidate grew by a quarter since the last test.
// The leading delimiter run is skipped and the token ends at the first
// delimiter match after it.
func (self *Scanner) peekToken() (token, bool) {
	if p := self.peeked; p != nil && p.position == self.buffer.Position() && p.delim == self.delim {
		return p.token, p.ok
	}
	t, ok := self.readToken()
	self.peeked = &peek{
		position: self.buffer.Position(),
		delim:    self.delim,
		token:    t,
		ok:       ok,
	}
	return t, ok
}

func (self *Scanner) readToken() (token, bool) {
	var b strings.Builder
	count := 0
	tested := 0
	window := tokenWindow
	for {
		r, ok := self.buffer.Lookahead(self.ctx, count).Get()
		if ok {
			b.WriteRune(r)
			count = count + 1
			if count < window && (self.buffer.Ready(count) || count < tested+tested/4) {
				continue
			}
		}
		candidate := b.String()
		from, to, found, decided := self.delim.split(candidate, !ok)
		if decided || !ok {
			if !found {
				return token{}, false
			}
			return self.newToken(candidate, from, to), true
		}
		tested = count
		for window <= count {
			window = window * 2
		}
	}
}

func (self *Scanner) newToken(candidate string, from int, to int) token {
	skip := utf8.RuneCountInString(candidate[:from])
	return token{
		value:  candidate[from:to],
		skip:   skip,
		length: utf8.RuneCountInString(candidate[from:to]),
		start:  self.buffer.Position() + int64(skip),
	}
}

// commit consumes the leading delimiter and the token and records the match.
func (self *Scanner) commit(t token) error {
	if err := self.buffer.Consume(self.ctx, t.skip+t.length); err != nil {
		return err
	}
	end := t.start + int64(t.length)
	self.match = newMatchResult([]group{{value: t.value, start: t.start, end: end, matched: true}})
	glog.V(4).Infof("scanner %s: token %q at [%d, %d) after %d delimiter runes", self.displayName(), t.value, t.start, end, t.skip)
	return nil
}

func (self *Scanner) noSuchElement() error {
	if err := self.runes.Err(); err != nil {
		return exc.Wrap(self.location(), exc.CodeNoSuchElement, errors.Wrap(err, "read source"))
	}
	return exc.New(self.location(), exc.CodeNoSuchElement, "no more tokens")
}

// HasNext reports whether another token is available. It never advances the
// scanner.
func (self *Scanner) HasNext() bool {
	if !self.probeOpen() {
		return false
	}
	_, ok := self.peekToken()
	return ok
}

// Next returns the next token. At the end of input it returns an error
// matching ErrNoSuchElement.
func (self *Scanner) Next() (string, error) {
	if err := self.ensureOpen(); err != nil {
		return "", err
	}
	t, ok := self.peekToken()
	if !ok {
		return "", self.noSuchElement()
	}
	if err := self.commit(t); err != nil {
		return "", err
	}
	return t.value, nil
}

// Tokens returns the remaining tokens as an iterator. Closing the iterator
// closes the Scanner.
func (self *Scanner) Tokens() iter.Iterator[string] {
	return &tokenIterator{scanner: self}
}

// All returns the remaining tokens as a sequence for use with range. The
// sequence ends early if the Scanner fails; check Err afterwards.
func (self *Scanner) All() func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for self.HasNext() {
			v, err := self.Next()
			if err != nil {
				self.err = err
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

type tokenIterator struct {
	scanner *Scanner
}

func (self *tokenIterator) Next(ctx context.Context) optional.Optional[string] {
	if ctx.Err() != nil || !self.scanner.HasNext() {
		return optional.None[string]()
	}
	v, err := self.scanner.Next()
	if err != nil {
		self.scanner.err = err
		return optional.None[string]()
	}
	return optional.Some(v)
}

func (self *tokenIterator) Close(ctx context.Context) error {
	return self.scanner.Close()
}
