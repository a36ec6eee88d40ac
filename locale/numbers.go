// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package locale

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrSyntax is returned when a value is not written in the form the locale
// expects.
var ErrSyntax = errors.New("invalid syntax")

// NormalizeInteger rewrites a localized integer as a plain ASCII decimal
// that strconv accepts. Group separators are allowed only in their proper
// places: one to three leading digits followed by groups of exactly three.
func (l *Locale) NormalizeInteger(token string) (string, error) {
	sign, digits := l.splitSign(token)
	plain, ok := l.ungroup(digits)
	if !ok {
		return "", errors.Wrapf(ErrSyntax, "%q is not an integer", token)
	}
	return sign + plain, nil
}

// NormalizeFloat rewrites a localized decimal number as a value accepted by
// strconv.ParseFloat. The locale spellings of NaN and infinity are accepted
// along with the ASCII forms "NaN" and "Infinity".
func (l *Locale) NormalizeFloat(token string) (string, error) {
	sign, rest := l.splitSign(token)
	switch {
	case rest == "":
	case rest == l.NaN || strings.EqualFold(rest, "NaN"):
		return "NaN", nil
	case rest == l.Infinity || rest == "∞" || strings.EqualFold(rest, "Infinity"):
		if sign == "-" {
			return "-Inf", nil
		}
		return "+Inf", nil
	}

	mantissa, exponent := rest, ""
	if x := strings.IndexAny(rest, "eE"); x >= 0 {
		mantissa, exponent = rest[:x], rest[x+1:]
		if !validExponent(exponent) {
			return "", errors.Wrapf(ErrSyntax, "%q has an invalid exponent", token)
		}
		exponent = "e" + exponent
	}

	whole, fraction := mantissa, ""
	hasPoint := false
	if l.DecimalSeparator != "" {
		if x := strings.Index(mantissa, l.DecimalSeparator); x >= 0 {
			whole, fraction = mantissa[:x], mantissa[x+len(l.DecimalSeparator):]
			hasPoint = true
		}
	}
	if whole == "" && fraction == "" {
		return "", errors.Wrapf(ErrSyntax, "%q is not a number", token)
	}
	if whole != "" {
		plain, ok := l.ungroup(whole)
		if !ok {
			return "", errors.Wrapf(ErrSyntax, "%q is not a number", token)
		}
		whole = plain
	}
	if hasPoint && fraction != "" && !allDigits(fraction) {
		return "", errors.Wrapf(ErrSyntax, "%q is not a number", token)
	}

	var b strings.Builder
	b.WriteString(sign)
	if whole == "" {
		b.WriteString("0")
	}
	b.WriteString(whole)
	if fraction != "" {
		b.WriteString(".")
		b.WriteString(fraction)
	}
	b.WriteString(exponent)
	return b.String(), nil
}

// ParseBool matches the token against the locale boolean literals ignoring
// case.
func (l *Locale) ParseBool(token string) (bool, error) {
	for _, v := range l.True {
		if strings.EqualFold(token, v) {
			return true, nil
		}
	}
	for _, v := range l.False {
		if strings.EqualFold(token, v) {
			return false, nil
		}
	}
	return false, errors.Wrapf(ErrSyntax, "%q is not a boolean", token)
}

// ParseTime tries each of the locale date layouts in order and returns the
// first successful result.
func (l *Locale) ParseTime(token string) (time.Time, error) {
	for _, layout := range l.DateLayouts {
		t, err := time.ParseInLocation(layout, token, l.location())
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrSyntax, "%q is not a date or time", token)
}

func (l *Locale) splitSign(token string) (string, string) {
	switch {
	case l.MinusSign != "" && strings.HasPrefix(token, l.MinusSign):
		return "-", token[len(l.MinusSign):]
	case l.MinusSign != "-" && strings.HasPrefix(token, "-"):
		return "-", token[1:]
	case l.PlusSign != "" && strings.HasPrefix(token, l.PlusSign):
		return "", token[len(l.PlusSign):]
	}
	return "", token
}

// ungroup validates digit grouping and removes the separators.
func (l *Locale) ungroup(digits string) (string, bool) {
	if digits == "" {
		return "", false
	}
	if l.GroupSeparator == "" || !strings.Contains(digits, l.GroupSeparator) {
		return digits, allDigits(digits)
	}
	groups := strings.Split(digits, l.GroupSeparator)
	if len(groups[0]) < 1 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func validExponent(s string) bool {
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	return s != "" && allDigits(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for x := 0; x < len(s); x = x + 1 {
		if s[x] < '0' || s[x] > '9' {
			return false
		}
	}
	return true
}
