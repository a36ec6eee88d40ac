// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"io"

	"gopkg.microglot.org/scanner.go/internal/optional"
)

// NewRunes converts a reader into an iterator of code points. Invalid UTF-8
// sequences are produced as utf8.RuneError. When r is also an io.Closer it is
// closed along with the iterator.
func NewRunes(r io.Reader) *Runes {
	return NewRunesCtx(context.Background(), r)
}

// NewRunesCtx is the same as NewRunes but checks the given context before
// each read from the underlying reader. A cancelled context ends the sequence
// and is reported by Err.
func NewRunesCtx(ctx context.Context, r io.Reader) *Runes {
	rc := &readerCtx{
		ctx:    ctx,
		reader: r,
	}
	return &Runes{
		source: rc,
		reader: bufio.NewReader(rc),
	}
}

// Runes is the character source for a scanner. End of input is an empty
// Optional and is never confused with a valid code point.
type Runes struct {
	source *readerCtx
	reader *bufio.Reader
	err    error
	done   bool
	closed bool
}

func (f *Runes) Next(ctx context.Context) optional.Optional[rune] {
	if f.done {
		return optional.None[rune]()
	}
	r, _, err := f.reader.ReadRune()
	if err != nil {
		f.done = true
		if err != io.EOF {
			f.err = err
		}
		return optional.None[rune]()
	}
	return optional.Some(r)
}

// Ready reports whether the next code point can be produced without waiting
// on the underlying reader. Once a read comes back short the reader is
// treated as interactive and only data already buffered counts as ready.
func (f *Runes) Ready() bool {
	if f.done || f.reader.Buffered() > 0 {
		return true
	}
	return !f.source.short
}

// Err returns the first non-EOF error encountered while reading.
func (f *Runes) Err() error {
	return f.err
}

func (f *Runes) Close(context.Context) error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.done = true
	if c, ok := f.source.reader.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return f.err
}

type readerCtx struct {
	ctx    context.Context
	reader io.Reader
	short  bool
}

func (self *readerCtx) Read(p []byte) (int, error) {
	if err := self.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := self.reader.Read(p)
	self.short = err == nil && n < len(p)
	return n, err
}
