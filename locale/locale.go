// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package locale describes how numbers, booleans and dates are written in a
// given language region. A scanner consults its active Locale for every typed
// conversion.
package locale

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Locale holds the symbols used when reading typed values. Locales are
// treated as immutable once they are handed to a scanner; use Clone to derive
// a modified copy.
type Locale struct {
	Tag language.Tag
	// GroupSeparator separates thousands groups in the integer part.
	GroupSeparator string
	// DecimalSeparator separates the integer and fraction parts.
	DecimalSeparator string
	MinusSign        string
	PlusSign         string
	NaN              string
	Infinity         string
	// True and False list the accepted boolean literals. Matching ignores
	// case.
	True  []string
	False []string
	// DateLayouts are tried in order when reading a time value.
	DateLayouts []string
	// TimeZone is applied to layouts that carry no zone. Nil means UTC.
	TimeZone *time.Location
}

// Clone returns a deep copy that may be modified without affecting l.
func (l *Locale) Clone() *Locale {
	c := *l
	c.True = append([]string(nil), l.True...)
	c.False = append([]string(nil), l.False...)
	c.DateLayouts = append([]string(nil), l.DateLayouts...)
	return &c
}

func (l *Locale) String() string {
	return l.Tag.String()
}

func (l *Locale) location() *time.Location {
	if l.TimeZone == nil {
		return time.UTC
	}
	return l.TimeZone
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

func layouts(local ...string) []string {
	return append(local, isoLayouts...)
}

var (
	// Root is the language neutral locale. It uses the same number symbols
	// as Go literals.
	Root = &Locale{
		Tag:              language.Und,
		GroupSeparator:   ",",
		DecimalSeparator: ".",
		MinusSign:        "-",
		PlusSign:         "+",
		NaN:              "NaN",
		Infinity:         "Infinity",
		True:             []string{"true"},
		False:            []string{"false"},
		DateLayouts:      layouts(),
	}
	AmericanEnglish = &Locale{
		Tag:              language.AmericanEnglish,
		GroupSeparator:   ",",
		DecimalSeparator: ".",
		MinusSign:        "-",
		PlusSign:         "+",
		NaN:              "NaN",
		Infinity:         "∞",
		True:             []string{"true", "yes"},
		False:            []string{"false", "no"},
		DateLayouts:      layouts("1/2/2006", "1/2/06", "Jan 2, 2006", "January 2, 2006"),
	}
	BritishEnglish = &Locale{
		Tag:              language.BritishEnglish,
		GroupSeparator:   ",",
		DecimalSeparator: ".",
		MinusSign:        "-",
		PlusSign:         "+",
		NaN:              "NaN",
		Infinity:         "∞",
		True:             []string{"true", "yes"},
		False:            []string{"false", "no"},
		DateLayouts:      layouts("02/01/2006", "2 Jan 2006", "2 January 2006"),
	}
	German = &Locale{
		Tag:              language.German,
		GroupSeparator:   ".",
		DecimalSeparator: ",",
		MinusSign:        "-",
		PlusSign:         "+",
		NaN:              "NaN",
		Infinity:         "∞",
		True:             []string{"true", "wahr", "ja"},
		False:            []string{"false", "falsch", "nein"},
		DateLayouts:      layouts("02.01.2006", "2.1.2006", "02.01.06"),
	}
	// French groups digits with U+202F, which DefaultDelimiterPattern in
	// the scanner package treats as white space. Grouped French numbers
	// are single tokens only under a delimiter that leaves U+202F alone,
	// such as `\s+`.
	French = &Locale{
		Tag:              language.French,
		GroupSeparator:   "\u202f",
		DecimalSeparator: ",",
		MinusSign:        "-",
		PlusSign:         "+",
		NaN:              "NaN",
		Infinity:         "∞",
		True:             []string{"true", "vrai", "oui"},
		False:            []string{"false", "faux", "non"},
		DateLayouts:      layouts("02/01/2006", "2/1/2006"),
	}
	Japanese = &Locale{
		Tag:              language.Japanese,
		GroupSeparator:   ",",
		DecimalSeparator: ".",
		MinusSign:        "-",
		PlusSign:         "+",
		NaN:              "NaN",
		Infinity:         "∞",
		True:             []string{"true"},
		False:            []string{"false"},
		DateLayouts:      layouts("2006/01/02", "2006年1月2日"),
	}
)

var supported = []*Locale{AmericanEnglish, BritishEnglish, German, French, Japanese}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		tags = append(tags, l.Tag)
	}
	return language.NewMatcher(tags)
}()

// ForTag returns the supported locale that best matches the tag. Tags with
// no reasonable match resolve to AmericanEnglish.
func ForTag(tag language.Tag) *Locale {
	if tag == language.Und {
		return Root
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return AmericanEnglish
	}
	return supported[index]
}

// Parse resolves a BCP 47 tag such as "de-DE" or a POSIX locale name such as
// "de_DE.UTF-8".
func Parse(name string) (*Locale, error) {
	name = posixName(name)
	switch name {
	case "", "C", "POSIX":
		return Root, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return nil, errors.Wrapf(err, "locale %q", name)
	}
	return ForTag(tag), nil
}

// FromEnv picks the locale used for formatting from the standard POSIX
// environment variables in priority order. It falls back to AmericanEnglish.
func FromEnv(lookup func(string) (string, bool)) *Locale {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		l, err := Parse(v)
		if err != nil {
			continue
		}
		return l
	}
	return AmericanEnglish
}

func posixName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, "_", "-")
}
