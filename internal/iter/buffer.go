// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/internal/optional"
)

// NewBuffer wraps an iterator in an unbounded lookahead buffer. Values pulled
// from the source by Lookahead stay in the buffer until they are consumed so
// that replaying the buffer followed by the source always yields the
// remaining input exactly once.
func NewBuffer[T any](it Iterator[T]) *Buffer[T] {
	return &Buffer[T]{iter: it}
}

// Buffer is a single arena of pulled but unconsumed values with a committed
// position. Peeking only grows the arena and consuming only shrinks it.
type Buffer[T any] struct {
	iter     Iterator[T]
	arena    []T
	eof      bool
	position int64
}

// Lookahead returns the value n places past the committed position without
// consuming anything. Lookahead(ctx, 0) is the next value.
func (b *Buffer[T]) Lookahead(ctx context.Context, n int) optional.Optional[T] {
	if n < 0 {
		return optional.None[T]()
	}
	for len(b.arena) <= n {
		if !b.fill(ctx) {
			return optional.None[T]()
		}
	}
	return optional.Some(b.arena[n])
}

// Next consumes and returns one value. Values already in the arena are used
// first; otherwise the source is read directly without growing the arena.
func (b *Buffer[T]) Next(ctx context.Context) optional.Optional[T] {
	if len(b.arena) > 0 {
		v := b.arena[0]
		b.drop(1)
		return optional.Some(v)
	}
	if b.eof {
		return optional.None[T]()
	}
	v := b.iter.Next(ctx)
	if !v.IsPresent() {
		b.eof = true
		return v
	}
	b.position = b.position + 1
	return v
}

// Consume discards exactly n values and advances the position by n. Asking
// for more values than the input holds is a caller error and nothing is
// consumed in that case.
func (b *Buffer[T]) Consume(ctx context.Context, n int) error {
	if n < 0 {
		return exc.Newf(exc.Location{Position: b.position}, exc.CodeInvalidArgument, "cannot consume %d values", n)
	}
	if n == 0 {
		return nil
	}
	if !b.Lookahead(ctx, n-1).IsPresent() {
		return exc.Newf(exc.Location{Position: b.position}, exc.CodeIllegalState, "cannot consume %d values, only %d remain", n, len(b.arena))
	}
	b.drop(n)
	return nil
}

// Ready reports whether Lookahead(ctx, n) can be answered without waiting on
// the source. Sources that cannot tell are always ready.
func (b *Buffer[T]) Ready(n int) bool {
	if n < len(b.arena) || b.eof {
		return true
	}
	if r, ok := b.iter.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return true
}

// Position is the number of values consumed so far.
func (b *Buffer[T]) Position() int64 {
	return b.position
}

// Buffered is the number of values pulled from the source but not consumed.
func (b *Buffer[T]) Buffered() int {
	return len(b.arena)
}

func (b *Buffer[T]) Close(ctx context.Context) error {
	b.arena = nil
	b.eof = true
	return b.iter.Close(ctx)
}

func (b *Buffer[T]) fill(ctx context.Context) bool {
	if b.eof {
		return false
	}
	v := b.iter.Next(ctx)
	if !v.IsPresent() {
		b.eof = true
		return false
	}
	b.arena = append(b.arena, v.Value())
	return true
}

func (b *Buffer[T]) drop(n int) {
	remaining := copy(b.arena, b.arena[n:])
	var zero T
	for x := remaining; x < len(b.arena); x = x + 1 {
		b.arena[x] = zero
	}
	b.arena = b.arena[:remaining]
	b.position = b.position + int64(n)
}
