// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// errorMessage selects the message of a failing result, applying
// any x-error override declared on the source schema.
//
// An x-error string replaces every message produced from the schema
// and its keywords. An x-error map is consulted in order: the
// failing keyword's name, then "^" when the failure is the schema
// itself, then the "*" fallback, then the built-in message.
func errorMessage(r *Result) string {
	msg := r.message
	if msg == "" {
		msg = "value at " + formatLocation(r.InstanceLocation) + " is invalid"
	}

	override, ok := xErrorFor(r)
	if !ok {
		return msg
	}
	return interpolate(override, r)
}

// xErrorFor finds the applicable x-error declaration for a result.
// A boolean schema cannot carry one, so its parent's map is
// consulted under the keyword the schema hangs off.
func xErrorFor(r *Result) (string, bool) {
	s := r.SourceSchema
	key := r.SourceKeyword
	schemaItself := key == ""

	if s.value.Kind() == jsonvalue.Bool && s.parent != nil {
		key = s.keywordName
		s = s.parent
		schemaItself = false
	}

	xe, ok := s.value.Get("x-error")
	if !ok {
		return "", false
	}
	switch xe.Kind() {
	case jsonvalue.String:
		return xe.Str(), true
	case jsonvalue.Object:
		if key != "" {
			if m, ok := xe.Get(key); ok && m.Kind() == jsonvalue.String {
				return m.Str(), true
			}
		}
		if schemaItself {
			if m, ok := xe.Get("^"); ok && m.Kind() == jsonvalue.String {
				return m.Str(), true
			}
		}
		if m, ok := xe.Get("*"); ok && m.Kind() == jsonvalue.String {
			return m.Str(), true
		}
	}
	return "", false
}

// interpolate substitutes the %{...} variables of an x-error
// message.
func interpolate(msg string, r *Result) string {
	if !strings.Contains(msg, "%{") {
		return msg
	}

	keywordValue := ""
	if r.SourceKeyword != "" {
		for _, k := range r.SourceSchema.keywords {
			if k.Name() == r.SourceKeyword {
				keywordValue = k.Value().String()
				break
			}
		}
	}
	details := ""
	if len(r.Details) > 0 {
		if v, err := jsonvalue.From(detailsInterface(r.Details)); err == nil {
			details = v.String()
		}
	}

	return strings.NewReplacer(
		"%{instance}", r.Instance.String(),
		"%{instanceLocation}", r.InstanceLocation.String(),
		"%{formattedInstanceLocation}", formatLocation(r.InstanceLocation),
		"%{keywordValue}", keywordValue,
		"%{keywordLocation}", r.KeywordLocation.String(),
		"%{absoluteKeywordLocation}", absoluteKeywordLocation(r),
		"%{details}", details,
	).Replace(msg)
}
