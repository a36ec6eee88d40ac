// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"regexp"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"gopkg.microglot.org/scanner.go/internal/exc"
)

// Compiled patterns shared by every scanner that does not install its own
// cache.
var sharedPatterns = cache.New(10*time.Minute, 20*time.Minute)

// NewPatternCache returns a cache suitable for OptionWithPatternCache.
func NewPatternCache(expiration time.Duration) *cache.Cache {
	return cache.New(expiration, 2*expiration)
}

func compilePattern(c *cache.Cache, expr string) (*regexp.Regexp, error) {
	if v, ok := c.Get(expr); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodeInvalidPattern, errors.Wrapf(err, "compile %q", expr))
	}
	c.SetDefault(expr, re)
	return re, nil
}
