// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"fmt"
	"strings"
)

// MatchResult records the most recent successful match. Positions count code
// points from the start of the input. Group 0 is the whole match: the token
// for Next, the line for NextLine and the matched text for FindInLine.
// NextLine records the line terminator as group 1.
type MatchResult struct {
	groups []group
}

type group struct {
	value   string
	start   int64
	end     int64
	matched bool
}

func newMatchResult(groups []group) *MatchResult {
	return &MatchResult{groups: groups}
}

func (self *MatchResult) Start() int64 {
	return self.groups[0].start
}

func (self *MatchResult) End() int64 {
	return self.groups[0].end
}

// Group returns the text of group i. The boolean is false when the group did
// not participate in the match or does not exist.
func (self *MatchResult) Group(i int) (string, bool) {
	if i < 0 || i >= len(self.groups) || !self.groups[i].matched {
		return "", false
	}
	return self.groups[i].value, true
}

// GroupStart and GroupEnd return -1 for groups that did not participate.
func (self *MatchResult) GroupStart(i int) int64 {
	if i < 0 || i >= len(self.groups) || !self.groups[i].matched {
		return -1
	}
	return self.groups[i].start
}

func (self *MatchResult) GroupEnd(i int) int64 {
	if i < 0 || i >= len(self.groups) || !self.groups[i].matched {
		return -1
	}
	return self.groups[i].end
}

// GroupCount is the number of capturing groups, not counting group 0.
func (self *MatchResult) GroupCount() int {
	return len(self.groups) - 1
}

// Groups returns the text of every group starting with group 0. Groups that
// did not participate are empty strings.
func (self *MatchResult) Groups() []string {
	out := make([]string, 0, len(self.groups))
	for _, g := range self.groups {
		out = append(out, g.value)
	}
	return out
}

func (self *MatchResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MatchResult[start=%d][end=%d][groups=%d]", self.Start(), self.End(), self.GroupCount())
	for x := 0; x < len(self.groups); x = x + 1 {
		g := self.groups[x]
		if !g.matched {
			fmt.Fprintf(&b, "[%d=<nil>]", x)
			continue
		}
		fmt.Fprintf(&b, "[%d=%q]", x, g.value)
	}
	return b.String()
}
