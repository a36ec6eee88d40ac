// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package scanner breaks a character stream into tokens separated by a
// regular expression delimiter and converts tokens into typed values using
// locale specific number, boolean and date formats.
//
// Every HasNext method is a pure probe: it may read ahead from the source
// but never advances the scanner. Only the Next methods, NextLine and
// FindInLine commit input, and a Next method that fails leaves the scanner
// exactly where it was so the caller can retry with a different type.
//
// A Scanner is not safe for concurrent use.
package scanner

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/internal/fs"
	"gopkg.microglot.org/scanner.go/internal/iter"
	"gopkg.microglot.org/scanner.go/locale"
)

type Option func(c *config) error

// OptionWithDelimiter sets the initial delimiter. Reset still restores
// DefaultDelimiter.
func OptionWithDelimiter(re *regexp.Regexp) Option {
	return func(c *config) error {
		if re == nil {
			return exc.New(exc.Location{}, exc.CodeInvalidArgument, "nil delimiter")
		}
		c.delimiter = re
		return nil
	}
}

// OptionWithDelimiterPattern is the same as OptionWithDelimiter but compiles
// the expression first.
func OptionWithDelimiterPattern(expr string) Option {
	return func(c *config) error {
		c.delimiterPattern = expr
		return nil
	}
}

// OptionWithLocale sets the initial locale. When absent the locale is picked
// from the environment.
func OptionWithLocale(l *locale.Locale) Option {
	return func(c *config) error {
		if l == nil {
			return exc.New(exc.Location{}, exc.CodeInvalidArgument, "nil locale")
		}
		c.locale = l
		return nil
	}
}

// OptionWithEncoding selects the character encoding of the input by its
// WHATWG or IANA name. The default is UTF-8. A byte order mark at the start
// of the input always takes precedence.
func OptionWithEncoding(name string) Option {
	return func(c *config) error {
		c.encoding = name
		return nil
	}
}

// OptionWithName sets the name reported in error locations.
func OptionWithName(name string) Option {
	return func(c *config) error {
		c.name = name
		return nil
	}
}

// OptionWithPatternCache replaces the process wide cache of compiled
// expressions used by UseDelimiterPattern and FindInLine.
func OptionWithPatternCache(patterns *cache.Cache) Option {
	return func(c *config) error {
		if patterns == nil {
			return exc.New(exc.Location{}, exc.CodeInvalidArgument, "nil pattern cache")
		}
		c.patterns = patterns
		return nil
	}
}

// OptionWithLookupEnv installs the environment lookup used to find the
// default locale. The default is os.LookupEnv.
func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *config) error {
		c.lookupEnv = lookupEnv
		return nil
	}
}

type config struct {
	name             string
	delimiter        *regexp.Regexp
	delimiterPattern string
	locale           *locale.Locale
	encoding         string
	patterns         *cache.Cache
	lookupEnv        func(string) (string, bool)
}

func newConfig(opts []Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.patterns == nil {
		c.patterns = sharedPatterns
	}
	if c.lookupEnv == nil {
		c.lookupEnv = os.LookupEnv
	}
	if c.delimiter == nil && c.delimiterPattern != "" {
		re, err := compilePattern(c.patterns, c.delimiterPattern)
		if err != nil {
			return nil, err
		}
		c.delimiter = re
	}
	if c.delimiter == nil {
		c.delimiter = DefaultDelimiter
	}
	return c, nil
}

// Scanner reads tokens from a single source that it owns. Close releases the
// source.
type Scanner struct {
	ctx           context.Context
	name          string
	runes         *iter.Runes
	buffer        *iter.Buffer[rune]
	delim         *delimiter
	locale        *locale.Locale
	defaultLocale *locale.Locale
	patterns      *cache.Cache
	match         *MatchResult
	peeked        *peek
	err           error
	closed        bool
}

// New creates a Scanner that reads from r. If r is also an io.Closer then it
// is closed with the Scanner.
func New(r io.Reader, opts ...Option) (*Scanner, error) {
	return NewCtx(context.Background(), r, opts...)
}

// NewCtx is the same as New but every read from r first checks ctx. Once ctx
// is done the input appears to end and Err reports the cause.
func NewCtx(ctx context.Context, r io.Reader, opts ...Option) (*Scanner, error) {
	if r == nil {
		return nil, exc.New(exc.Location{}, exc.CodeInvalidArgument, "nil reader")
	}
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	body, err := fs.DecodeSource(ctx, fs.NewSourceReader(c.name, r), c.encoding)
	if err != nil {
		return nil, err
	}
	return newScanner(ctx, c, body), nil
}

// NewString creates a Scanner over in-memory content. Encoding options are
// ignored because the content is already text.
func NewString(s string, opts ...Option) (*Scanner, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	body, err := fs.NewSourceString(c.name, s).Body(ctx)
	if err != nil {
		return nil, err
	}
	return newScanner(ctx, c, body), nil
}

// NewFile opens the file at path, which may also be a file:// URI. Use
// OptionWithEncoding for content that is not UTF-8.
func NewFile(path string, opts ...Option) (*Scanner, error) {
	c, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	src, err := fs.NewSourceFile(path, fs.WithOptionEncoding(c.encoding))
	if err != nil {
		return nil, err
	}
	if c.name == "" {
		c.name = src.Path(ctx)
	}
	body, err := src.Body(ctx)
	if err != nil {
		return nil, err
	}
	return newScanner(ctx, c, body), nil
}

func newScanner(ctx context.Context, c *config, body io.ReadCloser) *Scanner {
	runes := iter.NewRunesCtx(ctx, body)
	defaultLocale := locale.FromEnv(c.lookupEnv)
	active := c.locale
	if active == nil {
		active = defaultLocale
	}
	s := &Scanner{
		ctx:           ctx,
		name:          c.name,
		runes:         runes,
		buffer:        iter.NewBuffer[rune](runes),
		delim:         newDelimiter(c.patterns, c.delimiter),
		locale:        active,
		defaultLocale: defaultLocale,
		patterns:      c.patterns,
	}
	glog.V(2).Infof("scanner %s: opened with delimiter %q and locale %s", s.displayName(), c.delimiter, active)
	return s
}

// UseDelimiter replaces the delimiter for every later token boundary. Tokens
// already returned are not affected. A nil delimiter panics.
func (self *Scanner) UseDelimiter(re *regexp.Regexp) *Scanner {
	if re == nil {
		panic(exc.New(self.location(), exc.CodeInvalidArgument, "nil delimiter"))
	}
	if self.closed {
		self.err = self.closedErr()
		return self
	}
	self.delim = newDelimiter(self.patterns, re)
	glog.V(2).Infof("scanner %s: delimiter set to %q", self.displayName(), re)
	return self
}

// UseDelimiterPattern compiles expr and installs it with UseDelimiter.
func (self *Scanner) UseDelimiterPattern(expr string) (*Scanner, error) {
	re, err := compilePattern(self.patterns, expr)
	if err != nil {
		return self, err
	}
	return self.UseDelimiter(re), nil
}

// UseLocale replaces the locale used by typed conversions. A nil locale
// panics.
func (self *Scanner) UseLocale(l *locale.Locale) *Scanner {
	if l == nil {
		panic(exc.New(self.location(), exc.CodeInvalidArgument, "nil locale"))
	}
	if self.closed {
		self.err = self.closedErr()
		return self
	}
	self.locale = l
	glog.V(2).Infof("scanner %s: locale set to %s", self.displayName(), l)
	return self
}

// Reset restores DefaultDelimiter and the locale picked from the environment
// when the Scanner was created.
func (self *Scanner) Reset() *Scanner {
	return self.UseDelimiter(DefaultDelimiter).UseLocale(self.defaultLocale)
}

func (self *Scanner) Delimiter() *regexp.Regexp {
	return self.delim.re
}

func (self *Scanner) Locale() *locale.Locale {
	return self.locale
}

// Position is the number of code points consumed so far.
func (self *Scanner) Position() int64 {
	return self.buffer.Position()
}

// Err returns the error that made the most recent HasNext style probe report
// false, or the first error encountered while reading the source.
func (self *Scanner) Err() error {
	if self.err != nil {
		return self.err
	}
	if err := self.runes.Err(); err != nil {
		return exc.WrapUnknown(self.location(), errors.Wrap(err, "read source"))
	}
	return nil
}

// Close releases the source. Calling Close again has no effect. Every other
// operation on a closed Scanner fails with ErrClosed.
func (self *Scanner) Close() error {
	if self.closed {
		return nil
	}
	self.closed = true
	self.match = nil
	err := self.buffer.Close(self.ctx)
	glog.V(2).Infof("scanner %s: closed at position %d", self.displayName(), self.buffer.Position())
	if err != nil {
		return exc.WrapUnknown(self.location(), errors.Wrap(err, "close source"))
	}
	return nil
}

// String describes the scanner state for debugging.
func (self *Scanner) String() string {
	var b strings.Builder
	b.WriteString("Scanner")
	fmt.Fprintf(&b, "[delimiters=%s]", self.delim.re)
	fmt.Fprintf(&b, "[position=%d]", self.buffer.Position())
	fmt.Fprintf(&b, "[match valid=%t]", self.match != nil)
	fmt.Fprintf(&b, "[source closed=%t]", self.closed)
	fmt.Fprintf(&b, "[group separator=%s]", regexp.QuoteMeta(self.locale.GroupSeparator))
	fmt.Fprintf(&b, "[decimal separator=%s]", regexp.QuoteMeta(self.locale.DecimalSeparator))
	fmt.Fprintf(&b, "[NaN string=%s]", regexp.QuoteMeta(self.locale.NaN))
	fmt.Fprintf(&b, "[infinity string=%s]", regexp.QuoteMeta(self.locale.Infinity))
	return b.String()
}

// Match returns the record of the most recent successful Next, NextLine or
// FindInLine.
func (self *Scanner) Match() (*MatchResult, error) {
	if err := self.ensureOpen(); err != nil {
		return nil, err
	}
	if self.match == nil {
		return nil, exc.New(self.location(), exc.CodeIllegalState, "no match available")
	}
	return self.match, nil
}

func (self *Scanner) ensureOpen() error {
	if self.closed {
		return self.closedErr()
	}
	return nil
}

// probeOpen is ensureOpen for methods that report failure through Err.
func (self *Scanner) probeOpen() bool {
	if self.closed {
		self.err = self.closedErr()
		return false
	}
	return true
}

func (self *Scanner) closedErr() error {
	return exc.New(self.location(), exc.CodeClosed, "scanner is closed")
}

func (self *Scanner) location() exc.Location {
	return exc.Location{URI: self.name, Position: self.buffer.Position()}
}

func (self *Scanner) displayName() string {
	if self.name == "" {
		return "<input>"
	}
	return self.name
}
