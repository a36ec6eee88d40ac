// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"regexp"
	"regexp/syntax"

	"github.com/patrickmn/go-cache"
)

// DefaultDelimiterPattern matches a run of Unicode white space including the
// no-break space.
const DefaultDelimiterPattern = `[\s\v\x{0085}\x{00A0}\p{Z}]+`

// DefaultDelimiter is the compiled form of DefaultDelimiterPattern. It is
// the delimiter of a new Scanner and the one restored by Reset.
var DefaultDelimiter = regexp.MustCompile(DefaultDelimiterPattern)

// delimiter pairs the active pattern with a copy anchored at the start of the
// input. The anchored copy finds the leading delimiter run and the plain one
// finds the delimiter that ends a token. A delimiter with assertions about
// the text that follows, such as \b or $, is endSensitive: a match of it at
// the end of a partial candidate can be undone by the next rune.
type delimiter struct {
	re           *regexp.Regexp
	prefix       *regexp.Regexp
	endSensitive bool
}

func newDelimiter(c *cache.Cache, re *regexp.Regexp) *delimiter {
	prefix, err := compilePattern(c, `^(?:`+re.String()+`)`)
	if err != nil {
		// Any valid expression remains valid inside a group.
		panic(err)
	}
	return &delimiter{
		re:           re,
		prefix:       prefix,
		endSensitive: endSensitive(re.String()),
	}
}

func endSensitive(expr string) bool {
	tree, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return true
	}
	return hasEndAssertion(tree)
}

func hasEndAssertion(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpEndLine, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	for _, sub := range re.Sub {
		if hasEndAssertion(sub) {
			return true
		}
	}
	return false
}

// split finds the token in candidate, which is a prefix of the remaining
// input and all of it when eof is set. It returns the byte offsets of the
// token. decided is false when more input could move either end of the
// token; found is false when no token remains.
func (self *delimiter) split(candidate string, eof bool) (from int, to int, found bool, decided bool) {
	if end, ok := self.leading(candidate); ok {
		if end == len(candidate) && !eof {
			return 0, 0, false, false
		}
		from = end
	}
	if start, end, ok := self.search(candidate, from); ok {
		if end == len(candidate) && !eof && self.endSensitive {
			return 0, 0, false, false
		}
		return from, start, true, true
	}
	if !eof {
		return 0, 0, false, false
	}
	if from >= len(candidate) {
		return 0, 0, false, true
	}
	return from, len(candidate), true, true
}

// leading reports the byte length of the delimiter run at the start of the
// candidate.
func (self *delimiter) leading(candidate string) (int, bool) {
	loc := self.prefix.FindStringIndex(candidate)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// search returns the byte offsets of the first delimiter match in candidate
// at or after from. An empty match located exactly at from is skipped so that
// a pattern able to match the empty string cannot end a token before it has
// begun.
func (self *delimiter) search(candidate string, from int) (int, int, bool) {
	for _, loc := range self.re.FindAllStringIndex(candidate[from:], 2) {
		if loc[0] == 0 && loc[1] == 0 {
			continue
		}
		return from + loc[0], from + loc[1], true
	}
	return 0, 0, false
}
