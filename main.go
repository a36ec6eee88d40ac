// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gopkg.microglot.org/scanner.go/internal/exc"
	"gopkg.microglot.org/scanner.go/internal/iter"
	"gopkg.microglot.org/scanner.go/scanner"
)

func main() {
	// This is needed to make `glog` believe that the flags have already been
	// parsed, otherwise every log message is prefixed by an error message
	// stating that the flags haven't been parsed.
	_ = flag.CommandLine.Parse([]string{})

	// Always log to stderr by default
	if err := flag.Set("logtostderr", "true"); err != nil {
		glog.Infof("Unable to set logtostderr to true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := newCommand(ctx, os.Stdin, os.Stdout)
	cmd.Flags().AddGoFlagSet(flag.CommandLine)
	if err := cmd.Execute(); err != nil {
		glog.Fatalf("error running command: %v", err)
	}
}

func newCommand(ctx context.Context, stdin io.Reader, stdout io.Writer) *cobra.Command {
	p := &Profile{Mode: modeTokens}
	var profilePath string
	cmd := &cobra.Command{
		Use:   "mglotscan [files...]",
		Short: "Split text into tokens, lines or typed values",
		Long: "mglotscan reads the named files, or standard input when there are none, and prints\n" +
			"one token per line. The lines mode prints lines, the typed mode prints the type and\n" +
			"value of each token under the selected locale, and the find mode prints the groups\n" +
			"of the first match of --pattern on each line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profilePath != "" {
				file, err := ReadProfile(profilePath)
				if err != nil {
					return err
				}
				p.Merge(cmd.Flags(), file)
			}
			if err := p.Validate(); err != nil {
				return err
			}
			return run(ctx, p, args, stdin, stdout)
		},
	}
	p.AddFlags(cmd.Flags())
	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML file with default settings. Flags given explicitly take precedence.")
	cmd.SetOut(stdout)
	return cmd
}

func run(ctx context.Context, p *Profile, names []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := p.Options()
	if err != nil {
		return err
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()
	reporter := exc.NewReporter(nil)

	if len(names) == 0 {
		s, err := scanner.NewCtx(ctx, stdin, append(opts, scanner.OptionWithName("-"))...)
		if err != nil {
			return err
		}
		if err := scan(ctx, s, "-", p, out, reporter); err != nil {
			return err
		}
	}
	for _, name := range names {
		s, err := scanner.NewFile(name, opts...)
		if err != nil {
			return err
		}
		if err := scan(ctx, s, name, p, out, reporter); err != nil {
			return err
		}
	}
	if p.Mode == modeTyped {
		glog.V(1).Infof("%d conversion attempts did not match and %d overflowed", reporter.Count(exc.CodeInputMismatch), reporter.Count(exc.CodeOverflow))
	}
	return nil
}

func scan(ctx context.Context, s *scanner.Scanner, name string, p *Profile, out io.Writer, reporter exc.Reporter) (err error) {
	defer func() {
		if errClose := s.Close(); errClose != nil && err == nil {
			err = errClose
		}
	}()
	switch p.Mode {
	case modeTokens:
		err = dumpTokens(ctx, s, p.SkipEmpty, out)
	case modeLines:
		err = dumpLines(ctx, s, out)
	case modeTyped:
		err = dumpTyped(s, out, reporter)
	case modeFind:
		err = dumpFind(ctx, s, name, p.Pattern, out)
	default:
		err = errors.Errorf("unknown mode %q", p.Mode)
	}
	if err != nil {
		return err
	}
	return s.Err()
}

func dumpTokens(ctx context.Context, s *scanner.Scanner, skipEmpty bool, out io.Writer) error {
	tokens := s.Tokens()
	if skipEmpty {
		tokens = iter.NewIteratorFilter(tokens, iter.FilterFunc[string](func(ctx context.Context, v string) bool {
			return v != ""
		}))
	}
	for v := tokens.Next(ctx); v.IsPresent(); v = tokens.Next(ctx) {
		if _, err := fmt.Fprintln(out, v.Value()); err != nil {
			return errors.Wrap(err, "write token")
		}
	}
	return nil
}

func dumpLines(ctx context.Context, s *scanner.Scanner, out io.Writer) error {
	lines := s.Lines()
	for v := lines.Next(ctx); v.IsPresent(); v = lines.Next(ctx) {
		if _, err := fmt.Fprintln(out, v.Value()); err != nil {
			return errors.Wrap(err, "write line")
		}
	}
	return nil
}

func dumpTyped(s *scanner.Scanner, out io.Writer, reporter exc.Reporter) error {
	for s.HasNext() {
		v, err := nextTyped(s, reporter)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, v); err != nil {
			return errors.Wrap(err, "write value")
		}
	}
	return nil
}

// nextTyped reads the next token as the narrowest type it converts to. Each
// failed conversion leaves the token in place for the next attempt.
func nextTyped(s *scanner.Scanner, reporter exc.Reporter) (string, error) {
	i, err := s.NextInt64()
	if err == nil {
		return fmt.Sprintf("int\t%d", i), nil
	}
	if err := report(reporter, err); err != nil {
		return "", err
	}
	d, err := s.NextDecimal()
	if err == nil {
		return "decimal\t" + d.String(), nil
	}
	if err := report(reporter, err); err != nil {
		return "", err
	}
	f, err := s.NextFloat64()
	if err == nil {
		return fmt.Sprintf("float\t%g", f), nil
	}
	if err := report(reporter, err); err != nil {
		return "", err
	}
	if s.HasNextBool() {
		b, err := s.NextBool()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("bool\t%t", b), nil
	}
	if s.HasNextTime() {
		t, err := s.NextTime()
		if err != nil {
			return "", err
		}
		return "time\t" + t.Format(time.RFC3339), nil
	}
	v, err := s.Next()
	if err != nil {
		return "", err
	}
	return "text\t" + v, nil
}

// report records a conversion failure and returns an error only when the
// failure is fatal.
func report(reporter exc.Reporter, err error) error {
	var e exc.Exception
	if !errors.As(err, &e) {
		return err
	}
	if fatal := reporter.Report(e); fatal != nil {
		return fatal
	}
	return nil
}

func dumpFind(ctx context.Context, s *scanner.Scanner, name string, pattern string, out io.Writer) error {
	lines := s.Lines()
	n := 0
	for v := lines.Next(ctx); v.IsPresent(); v = lines.Next(ctx) {
		n = n + 1
		found, err := findGroups(v.Value(), fmt.Sprintf("%s:%d", name, n), pattern)
		if err != nil {
			return err
		}
		if found == nil {
			continue
		}
		if _, err := fmt.Fprintf(out, "%d\t%s\n", n, strings.Join(found, "\t")); err != nil {
			return errors.Wrap(err, "write match")
		}
	}
	return nil
}

// findGroups returns the capture groups of the first match in line, or the
// whole match when the pattern has no groups. It returns nil without a match.
func findGroups(line string, name string, pattern string) ([]string, error) {
	ls, err := scanner.NewString(line, scanner.OptionWithName(name))
	if err != nil {
		return nil, err
	}
	defer ls.Close()
	_, ok, err := ls.FindInLine(pattern)
	if err != nil || !ok {
		return nil, err
	}
	m, err := ls.Match()
	if err != nil {
		return nil, err
	}
	groups := m.Groups()
	if m.GroupCount() == 0 {
		return groups, nil
	}
	return groups[1:], nil
}
