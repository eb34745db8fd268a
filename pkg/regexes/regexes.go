// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regexes provides the regex dialects used for the pattern,
// patternProperties and propertyNames keywords. Two dialects are
// built in: [Native] compiles a pattern directly with the Go engine,
// and [Ecma] first translates ECMA-262 constructs the Go engine does
// not share.
package regexes

import (
	"fmt"
	"regexp"
	"sync"
)

// Regexp is a compiled pattern. Matching is unanchored: a pattern
// matches if it matches anywhere in the string.
type Regexp interface {
	MatchString(s string) bool
}

// Resolver compiles a pattern string into a [Regexp].
// The named dialects "native" and "ecma" are shorthand for
// [Native] and [Ecma].
type Resolver func(pattern string) (Regexp, error)

// Native compiles the pattern directly with the host engine.
func Native(pattern string) (Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}
	return re, nil
}

// Ecma translates the pattern from the ECMA-262 dialect before
// compiling it with the host engine.
func Ecma(pattern string) (Regexp, error) {
	translated, err := TranslateEcma(pattern)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, fmt.Errorf("compiling translated pattern %q: %w", translated, err)
	}
	return re, nil
}

// Cached wraps a resolver with a per-pattern cache.
// The cache is safe for concurrent use.
func Cached(r Resolver) Resolver {
	var cache sync.Map // pattern string -> Regexp
	return func(pattern string) (Regexp, error) {
		if re, ok := cache.Load(pattern); ok {
			return re.(Regexp), nil
		}
		re, err := r(pattern)
		if err != nil {
			return nil, err
		}
		actual, _ := cache.LoadOrStore(pattern, re)
		return actual.(Regexp), nil
	}
}
