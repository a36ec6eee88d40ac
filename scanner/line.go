// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/internal/iter"
	"gopkg.microglot.org/scanner.go/internal/optional"
)

// line is the unconsumed text up to the next line terminator. length and
// terminatorLength count code points.
type line struct {
	text             string
	length           int
	terminator       string
	terminatorLength int
	terminated       bool
}

func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// currentLine reads ahead to the end of the current line without consuming
// anything. A carriage return followed by a line feed is one terminator.
func (self *Scanner) currentLine() line {
	var b strings.Builder
	for x := 0; ; x = x + 1 {
		r, ok := self.buffer.Lookahead(self.ctx, x).Get()
		if !ok {
			return line{text: b.String(), length: x}
		}
		if !isLineTerminator(r) {
			b.WriteRune(r)
			continue
		}
		result := line{
			text:             b.String(),
			length:           x,
			terminator:       string(r),
			terminatorLength: 1,
			terminated:       true,
		}
		if r == '\r' {
			if next, ok := self.buffer.Lookahead(self.ctx, x+1).Get(); ok && next == '\n' {
				result.terminator = "\r\n"
				result.terminatorLength = 2
			}
		}
		return result
	}
}

// HasNextLine reports whether a line terminator appears before the end of
// input. The delimiter plays no part.
func (self *Scanner) HasNextLine() bool {
	if !self.probeOpen() {
		return false
	}
	return self.currentLine().terminated
}

// NextLine returns the rest of the current line and consumes it along with
// its terminator. Text on the last line of input that has no terminator is
// not a line: NextLine fails with ErrIllegalState and the scanner does not
// move, so the text can still be read with Next.
func (self *Scanner) NextLine() (string, error) {
	if err := self.ensureOpen(); err != nil {
		return "", err
	}
	l := self.currentLine()
	if !l.terminated {
		if err := self.runes.Err(); err != nil {
			return "", exc.WrapUnknown(self.location(), err)
		}
		return "", exc.New(self.location(), exc.CodeIllegalState, "no line terminator before end of input")
	}
	if err := self.takeLine(l); err != nil {
		return "", err
	}
	return l.text, nil
}

// takeLine consumes a line and its terminator, if any, and records the match.
func (self *Scanner) takeLine(l line) error {
	start := self.buffer.Position()
	if err := self.buffer.Consume(self.ctx, l.length+l.terminatorLength); err != nil {
		return err
	}
	end := start + int64(l.length)
	terminator := group{start: -1, end: -1}
	if l.terminated {
		terminator = group{value: l.terminator, start: end, end: end + int64(l.terminatorLength), matched: true}
	}
	self.match = newMatchResult([]group{
		{value: l.text, start: start, end: end, matched: true},
		terminator,
	})
	glog.V(4).Infof("scanner %s: line %q at [%d, %d)", self.displayName(), l.text, start, end)
	return nil
}

// Lines returns the remaining lines as an iterator. Unlike NextLine the
// iterator also produces a last line that has no terminator. Closing the
// iterator closes the Scanner.
func (self *Scanner) Lines() iter.Iterator[string] {
	return &lineIterator{scanner: self}
}

type lineIterator struct {
	scanner *Scanner
}

func (self *lineIterator) Next(ctx context.Context) optional.Optional[string] {
	s := self.scanner
	if ctx.Err() != nil || !s.probeOpen() {
		return optional.None[string]()
	}
	l := s.currentLine()
	if !l.terminated && l.length == 0 {
		return optional.None[string]()
	}
	if err := s.takeLine(l); err != nil {
		s.err = err
		return optional.None[string]()
	}
	return optional.Some(l.text)
}

func (self *lineIterator) Close(ctx context.Context) error {
	return self.scanner.Close()
}

// FindInLine compiles expr and calls FindInLinePattern.
func (self *Scanner) FindInLine(expr string) (string, bool, error) {
	re, err := compilePattern(self.patterns, expr)
	if err != nil {
		return "", false, err
	}
	return self.FindInLinePattern(re)
}

// FindInLinePattern searches the current line for the first match of re
// while ignoring the delimiter. On a match the input is consumed through the
// end of the match, plus the line terminator if the match reaches the end of
// the line, and the groups are available from Match. Without a match nothing
// changes and the boolean is false. An empty current line never matches.
func (self *Scanner) FindInLinePattern(re *regexp.Regexp) (string, bool, error) {
	if re == nil {
		return "", false, exc.New(self.location(), exc.CodeInvalidArgument, "nil pattern")
	}
	if err := self.ensureOpen(); err != nil {
		return "", false, err
	}
	l := self.currentLine()
	if l.text == "" {
		return "", false, nil
	}
	loc := re.FindStringSubmatchIndex(l.text)
	if loc == nil {
		return "", false, nil
	}
	base := self.buffer.Position()
	groups := make([]group, 0, len(loc)/2)
	for x := 0; x < len(loc); x = x + 2 {
		if loc[x] < 0 {
			groups = append(groups, group{start: -1, end: -1})
			continue
		}
		groups = append(groups, group{
			value:   l.text[loc[x]:loc[x+1]],
			start:   base + int64(utf8.RuneCountInString(l.text[:loc[x]])),
			end:     base + int64(utf8.RuneCountInString(l.text[:loc[x+1]])),
			matched: true,
		})
	}
	through := int(groups[0].end - base)
	if through == l.length && l.terminated {
		through = through + l.terminatorLength
	}
	if err := self.buffer.Consume(self.ctx, through); err != nil {
		return "", false, err
	}
	self.match = newMatchResult(groups)
	glog.V(4).Infof("scanner %s: found %q at [%d, %d)", self.displayName(), groups[0].value, groups[0].start, groups[0].end)
	return groups[0].value, true, nil
}
