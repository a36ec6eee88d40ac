// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/internal/iter"
	"gopkg.microglot.org/scanner.go/locale"
)

func noEnv(string) (string, bool) {
	return "", false
}

func newTestScanner(t *testing.T, input string, opts ...Option) *Scanner {
	t.Helper()
	opts = append([]Option{OptionWithLookupEnv(noEnv)}, opts...)
	s, err := NewString(input, opts...)
	require.Nil(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func collect(t *testing.T, s *Scanner) []string {
	t.Helper()
	var out []string
	for s.HasNext() {
		v, err := s.Next()
		require.Nil(t, err)
		out = append(out, v)
	}
	require.Nil(t, s.Err())
	return out
}

func TestTokens(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		delimiter string
		input     string
		expected  []string
	}{
		{
			name:     "collapse repeated white space",
			input:    "A B  C",
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "trailing white space",
			input:    "string with  extra spaces ",
			expected: []string{"string", "with", "extra", "spaces"},
		},
		{
			name:     "leading white space",
			input:    "   leading",
			expected: []string{"leading"},
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:  "only delimiters",
			input: " \t\r\n ",
		},
		{
			name:     "unicode white space",
			input:    "tab\tnbsp\u00a0wide\u3000end\r\nx",
			expected: []string{"tab", "nbsp", "wide", "end", "x"},
		},
		{
			name:     "multi byte tokens",
			input:    "héllo wörld",
			expected: []string{"héllo", "wörld"},
		},
		{
			name:      "comma and optional space",
			delimiter: `,\s*`,
			input:     "a,b,  c",
			expected:  []string{"a", "b", "c"},
		},
		{
			name:      "single character delimiter keeps empty tokens",
			delimiter: `\s`,
			input:     "a  b",
			expected:  []string{"a", "", "b"},
		},
		{
			name:      "single character delimiter with trailing delimiter",
			delimiter: `\s`,
			input:     "string with  extra spaces ",
			expected:  []string{"string", "with", "", "extra", "spaces"},
		},
		{
			name:      "doubled comma",
			delimiter: `,`,
			input:     "a,,b",
			expected:  []string{"a", "", "b"},
		},
		{
			name:      "leading delimiter is skipped",
			delimiter: `,`,
			input:     ",a",
			expected:  []string{"a"},
		},
		{
			name:      "multi character delimiter",
			delimiter: `::`,
			input:     "a::b:c::d",
			expected:  []string{"a", "b:c", "d"},
		},
		{
			name:      "delimiter that can match nothing",
			delimiter: `\s*`,
			input:     "ab",
			expected:  []string{"a", "b"},
		},
		{
			name:      "word boundary",
			delimiter: `\b`,
			input:     "ab cd",
			expected:  []string{"ab", " ", "cd"},
		},
		{
			name:      "word boundary past the first window",
			delimiter: `\b`,
			input:     strings.Repeat("a", 200) + " b",
			expected:  []string{strings.Repeat("a", 200), " ", "b"},
		},
		{
			name:      "end of line",
			delimiter: `(?m)$`,
			input:     "ab\ncd",
			expected:  []string{"ab", "\ncd"},
		},
		{
			name:      "end of line past the first window",
			delimiter: `(?m)$`,
			input:     strings.Repeat("x", 100) + "\ny",
			expected:  []string{strings.Repeat("x", 100), "\ny"},
		},
		{
			name:      "delimiter run past the first window",
			delimiter: `,+`,
			input:     "a" + strings.Repeat(",", 150) + "b",
			expected:  []string{"a", "b"},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var opts []Option
			if testCase.delimiter != "" {
				opts = append(opts, OptionWithDelimiterPattern(testCase.delimiter))
			}
			s := newTestScanner(t, testCase.input, opts...)
			require.Equal(t, testCase.expected, collect(t, s))
			_, err := s.Next()
			require.True(t, errors.Is(err, ErrNoSuchElement))
		})
	}
}

func TestHasNextDoesNotAdvance(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t, "  first second")
	for x := 0; x < 5; x = x + 1 {
		require.True(t, s.HasNext())
		require.Equal(t, int64(0), s.Position())
	}
	_, err := s.Match()
	require.True(t, errors.Is(err, ErrIllegalState))

	v, err := s.Next()
	require.Nil(t, err)
	require.Equal(t, "first", v)
	require.Equal(t, int64(7), s.Position())
	m, err := s.Match()
	require.Nil(t, err)
	require.Equal(t, int64(2), m.Start())
	require.Equal(t, int64(7), m.End())

	require.True(t, s.HasNext())
	require.True(t, s.HasNext())
	v, err = s.Next()
	require.Nil(t, err)
	require.Equal(t, "second", v)
	require.False(t, s.HasNext())
	require.Nil(t, s.Err())
}

func TestChangeDelimiter(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t, "a,b c,d", OptionWithLocale(locale.German))
	_, err := s.UseDelimiterPattern(",")
	require.Nil(t, err)
	v, err := s.Next()
	require.Nil(t, err)
	require.Equal(t, "a", v)

	require.Same(t, DefaultDelimiter, s.UseDelimiter(DefaultDelimiter).Delimiter())
	v, err = s.Next()
	require.Nil(t, err)
	require.Equal(t, ",b", v)

	s.UseDelimiter(regexp.MustCompile(`x`))
	require.Same(t, locale.German, s.Locale())
	s.Reset()
	require.Same(t, DefaultDelimiter, s.Delimiter())
	require.Same(t, locale.AmericanEnglish, s.Locale())
	v, err = s.Next()
	require.Nil(t, err)
	require.Equal(t, "c,d", v)
}

func TestResetUsesEnvironmentLocale(t *testing.T) {
	t.Parallel()

	env := func(k string) (string, bool) {
		if k == "LANG" {
			return "fr_FR.UTF-8", true
		}
		return "", false
	}
	s, err := NewString("x", OptionWithLookupEnv(env), OptionWithLocale(locale.Japanese))
	require.Nil(t, err)
	defer s.Close()
	require.Same(t, locale.Japanese, s.Locale())
	require.Same(t, locale.French, s.Reset().Locale())
}

func TestInvalidArguments(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t, "a b")
	_, err := s.UseDelimiterPattern("(")
	require.True(t, errors.Is(err, ErrInvalidPattern))
	require.Same(t, DefaultDelimiter, s.Delimiter())

	require.Panics(t, func() { s.UseDelimiter(nil) })
	require.Panics(t, func() { s.UseLocale(nil) })

	_, err = NewString("a", OptionWithDelimiterPattern("["))
	require.True(t, errors.Is(err, ErrInvalidPattern))
	_, err = NewString("a", OptionWithLocale(nil))
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = NewString("a", OptionWithDelimiter(nil))
	require.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = New(nil)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

type countingCloser struct {
	io.Reader
	closed int
}

func (self *countingCloser) Close() error {
	self.closed = self.closed + 1
	return nil
}

func TestClose(t *testing.T) {
	t.Parallel()

	body := &countingCloser{Reader: strings.NewReader("a b\nc")}
	s, err := New(body, OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	_, err = s.Next()
	require.Nil(t, err)

	require.Nil(t, s.Close())
	require.Nil(t, s.Close())
	require.Equal(t, 1, body.closed)

	require.False(t, s.HasNext())
	require.True(t, errors.Is(s.Err(), ErrClosed))
	require.False(t, s.HasNextLine())
	require.False(t, s.HasNextInt())

	_, err = s.Next()
	require.True(t, errors.Is(err, ErrClosed))
	_, err = s.NextInt()
	require.True(t, errors.Is(err, ErrClosed))
	_, err = s.NextLine()
	require.True(t, errors.Is(err, ErrClosed))
	_, _, err = s.FindInLine("b")
	require.True(t, errors.Is(err, ErrClosed))
	_, err = s.Match()
	require.True(t, errors.Is(err, ErrClosed))
	require.Contains(t, s.String(), "[match valid=false][source closed=true]")
}

func TestString(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t, "string with  extra spaces ", OptionWithLocale(locale.AmericanEnglish))
	require.Equal(
		t,
		`Scanner[delimiters=[\s\v\x{0085}\x{00A0}\p{Z}]+][position=0][match valid=false][source closed=false]`+
			`[group separator=,][decimal separator=\.][NaN string=NaN][infinity string=∞]`,
		s.String(),
	)
	_, err := s.Next()
	require.Nil(t, err)
	require.Contains(t, s.String(), "[position=6][match valid=true]")

	s.UseLocale(locale.German)
	require.Contains(t, s.String(), `[group separator=\.][decimal separator=,]`)
}

func TestIterators(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScanner(t, "1 fish 2 fish")
	it := s.Tokens()
	require.Equal(t, []string{"1", "fish", "2", "fish"}, iter.Collect(ctx, it))
	require.Nil(t, it.Close(ctx))
	require.False(t, s.HasNext())
	require.True(t, errors.Is(s.Err(), ErrClosed))

	s = newTestScanner(t, "red fish blue fish")
	var out []string
	for v := range s.All() {
		if v == "blue" {
			break
		}
		out = append(out, v)
	}
	require.Equal(t, []string{"red", "fish"}, out)
	v, err := s.Next()
	require.Nil(t, err)
	require.Equal(t, "fish", v)
}

func TestNewReaderEncoding(t *testing.T) {
	t.Parallel()

	s, err := New(strings.NewReader("caf\xe9 cr\xe8me"), OptionWithEncoding("ISO-8859-1"), OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	defer s.Close()
	require.Equal(t, []string{"café", "crème"}, collect(t, s))

	s, err = New(strings.NewReader("\xef\xbb\xbfbom"), OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	defer s.Close()
	require.Equal(t, []string{"bom"}, collect(t, s))

	_, err = New(strings.NewReader("x"), OptionWithEncoding("klingon-8"))
	require.NotNil(t, err)
	require.Equal(t, exc.CodeUnsupportedEncoding, exc.CodeOf(err, ""))
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "numbers.txt")
	require.Nil(t, os.WriteFile(path, []byte("1 2\n3"), 0o644))

	s, err := NewFile(path, OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	defer s.Close()
	total := 0
	for s.HasNextInt() {
		v, err := s.NextInt()
		require.Nil(t, err)
		total = total + v
	}
	require.Equal(t, 6, total)

	_, err = NewFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Equal(t, exc.CodeFileNotFound, exc.CodeOf(err, ""))
}

func TestNoSuchElementLocation(t *testing.T) {
	t.Parallel()

	s := newTestScanner(t, "a  ", OptionWithName("inline"))
	_, err := s.Next()
	require.Nil(t, err)
	_, err = s.Next()
	require.True(t, errors.Is(err, ErrNoSuchElement))
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.Location{URI: "inline", Position: 1}, e.Location())
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := NewCtx(ctx, strings.NewReader("a b c"), OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	defer s.Close()
	require.False(t, s.HasNext())
	require.True(t, errors.Is(s.Err(), context.Canceled))
	_, err = s.Next()
	require.True(t, errors.Is(err, ErrNoSuchElement))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestSharedPatternCache(t *testing.T) {
	t.Parallel()

	patterns := NewPatternCache(time.Minute)
	a := newTestScanner(t, "a;b", OptionWithPatternCache(patterns))
	b := newTestScanner(t, "c;d", OptionWithPatternCache(patterns))
	_, err := a.UseDelimiterPattern(";")
	require.Nil(t, err)
	_, err = b.UseDelimiterPattern(";")
	require.Nil(t, err)
	require.Same(t, a.Delimiter(), b.Delimiter())
	require.Equal(t, []string{"a", "b"}, collect(t, a))
	require.Equal(t, []string{"c", "d"}, collect(t, b))
}

// chunkReader hands out one chunk per Read the way a terminal hands out one
// line at a time.
type chunkReader struct {
	chunks []string
	reads  int
}

func (self *chunkReader) Read(p []byte) (int, error) {
	if len(self.chunks) == 0 {
		return 0, io.EOF
	}
	self.reads = self.reads + 1
	n := copy(p, self.chunks[0])
	self.chunks[0] = self.chunks[0][n:]
	if self.chunks[0] == "" {
		self.chunks = self.chunks[1:]
	}
	return n, nil
}

func TestInteractiveSource(t *testing.T) {
	t.Parallel()

	r := &chunkReader{chunks: []string{"42\n", "7 fish\n"}}
	s, err := New(r, OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	defer s.Close()

	require.True(t, s.HasNextInt())
	v, err := s.NextInt()
	require.Nil(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, r.reads)

	v, err = s.NextInt()
	require.Nil(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 2, r.reads)
}

func TestLongToken(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1<<18)
	s := newTestScanner(t, long+","+long, OptionWithDelimiterPattern(","))
	require.True(t, s.HasNext())
	v, err := s.Next()
	require.Nil(t, err)
	require.Equal(t, long, v)
	v, err = s.Next()
	require.Nil(t, err)
	require.Equal(t, long, v)
	require.False(t, s.HasNext())
}

var benchToken string

func BenchmarkNextLongToken(b *testing.B) {
	input := strings.Repeat("lorem", 20000)

	var token string
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		s, err := NewString(input, OptionWithDelimiterPattern(","), OptionWithLookupEnv(noEnv))
		if err != nil {
			b.Fatal(err)
		}
		for s.HasNext() {
			token, _ = s.Next()
		}
		_ = s.Close()
	}
	benchToken = token
}
