// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"

	"github.com/altshiftab/schemer/pkg/regexes"
)

// Errors raised for schema authoring, configuration and reference
// resolution problems. Validation outcomes are never errors; they are
// invalid results.
var (
	// ErrUnknownRef reports a reference URI that does not resolve
	// to any known schema.
	ErrUnknownRef = errors.New("unknown $ref")

	// ErrInvalidRefResolution reports a resolver that returned no
	// document for a URI with no built-in fallback.
	ErrInvalidRefResolution = errors.New("invalid $ref resolution")

	// ErrInvalidRefPointer reports a reference fragment pointer
	// that does not identify a schema position.
	ErrInvalidRefPointer = errors.New("invalid $ref pointer")

	// ErrInvalidRegexpResolution reports a pattern that the
	// selected regexp dialect could not compile.
	ErrInvalidRegexpResolution = errors.New("invalid regexp resolution")

	// ErrInvalidEcmaRegexp is the regexes package sentinel,
	// re-exported for callers that only import this package.
	ErrInvalidEcmaRegexp = regexes.ErrInvalidEcmaRegexp

	// ErrUnknownVocabulary reports a $vocabulary entry that is
	// required but not implemented.
	ErrUnknownVocabulary = errors.New("unknown vocabulary")

	// ErrUnknownOutputFormat reports an unrecognized output format
	// name.
	ErrUnknownOutputFormat = errors.New("unknown output format")

	// ErrInvalidFileURI reports a file: URI the file resolver
	// cannot map to a path.
	ErrInvalidFileURI = errors.New("invalid file URI")

	// ErrSchema reports a malformed schema value, such as a
	// keyword argument of the wrong type.
	ErrSchema = errors.New("invalid schema")
)
