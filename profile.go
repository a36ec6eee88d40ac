// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"gopkg.microglot.org/scanner.go/locale"
	"gopkg.microglot.org/scanner.go/scanner"
)

const (
	modeTokens = "tokens"
	modeLines  = "lines"
	modeTyped  = "typed"
	modeFind   = "find"
)

// Profile is a reusable set of scan settings. A profile file is YAML with the
// same keys as the command line flags; flags given explicitly win.
type Profile struct {
	Delimiter string `yaml:"delimiter"`
	Locale    string `yaml:"locale"`
	Encoding  string `yaml:"encoding"`
	Mode      string `yaml:"mode" validate:"required,oneof=tokens lines typed find"`
	Pattern   string `yaml:"pattern" validate:"required_if=Mode find"`
	SkipEmpty bool   `yaml:"skip_empty"`
}

func (p *Profile) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&p.Delimiter, "delimiter", p.Delimiter, "Regular expression that separates tokens. Defaults to Unicode white space.")
	fs.StringVar(&p.Locale, "locale", p.Locale, "Locale for typed values such as en-US or de_DE.UTF-8. Defaults to the environment.")
	fs.StringVar(&p.Encoding, "encoding", p.Encoding, "Character encoding of the input. Defaults to UTF-8.")
	fs.StringVar(&p.Mode, "mode", p.Mode, "One of tokens, lines, typed or find.")
	fs.StringVar(&p.Pattern, "pattern", p.Pattern, "Regular expression searched on each line in find mode.")
	fs.BoolVar(&p.SkipEmpty, "skip-empty", p.SkipEmpty, "Drop empty tokens in tokens mode.")
}

// Merge fills every setting that was not given on the command line from
// the profile file.
func (p *Profile) Merge(fs *pflag.FlagSet, file *Profile) {
	if !fs.Changed("delimiter") && file.Delimiter != "" {
		p.Delimiter = file.Delimiter
	}
	if !fs.Changed("locale") && file.Locale != "" {
		p.Locale = file.Locale
	}
	if !fs.Changed("encoding") && file.Encoding != "" {
		p.Encoding = file.Encoding
	}
	if !fs.Changed("mode") && file.Mode != "" {
		p.Mode = file.Mode
	}
	if !fs.Changed("pattern") && file.Pattern != "" {
		p.Pattern = file.Pattern
	}
	if !fs.Changed("skip-empty") && file.SkipEmpty {
		p.SkipEmpty = true
	}
}

func (p *Profile) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(err, "invalid profile")
	}
	return nil
}

// Options converts the profile into scanner options.
func (p *Profile) Options() ([]scanner.Option, error) {
	var opts []scanner.Option
	if p.Delimiter != "" {
		opts = append(opts, scanner.OptionWithDelimiterPattern(p.Delimiter))
	}
	if p.Locale != "" {
		l, err := locale.Parse(p.Locale)
		if err != nil {
			return nil, errors.Wrap(err, "invalid locale")
		}
		opts = append(opts, scanner.OptionWithLocale(l))
	}
	if p.Encoding != "" {
		opts = append(opts, scanner.OptionWithEncoding(p.Encoding))
	}
	return opts, nil
}

// ReadProfile loads a profile file. Unknown keys are an error.
func ReadProfile(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read profile %s", path)
	}
	p := &Profile{}
	if err := yaml.UnmarshalStrict(b, p); err != nil {
		return nil, errors.Wrapf(err, "parse profile %s", path)
	}
	return p, nil
}
