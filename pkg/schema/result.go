// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strconv"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// Result is one node of the validation result tree. A node is
// produced for every schema and every evaluated keyword.
type Result struct {
	// SourceSchema is the schema the node belongs to. For a
	// keyword node it is the keyword's owning schema.
	SourceSchema *Schema

	// SourceKeyword is the keyword name, or empty for a schema
	// node.
	SourceKeyword string

	Instance         *jsonvalue.Value
	InstanceLocation *Location
	KeywordLocation  *Location
	Valid            bool
	Nested           []*Result

	// Annotation is the side value the keyword emitted; its type
	// is keyword-defined (int for prefixItems, []int for contains,
	// []string for the property applicators, bool for items).
	Annotation any

	// Details carries extra structured error data, such as the
	// missing_keys of required.
	Details map[string]any

	// IgnoreNested suppresses descent into Nested when flattening
	// classic output. oneOf sets it when several branches match,
	// and contains sets it for its per-item probes.
	IgnoreNested bool

	tag     string
	message string
}

// Tag returns the short classic error tag of the node, such as
// "string", "required" or "oneof".
func (r *Result) Tag() string { return r.tag }

// Message returns the built-in error message, before any x-error
// override is applied.
func (r *Result) Message() string { return r.message }

// walkEvaluatedItems collects the array indices recorded as
// evaluated by r and its valid descendants at the given instance
// location. Annotations below a failed node are dropped, so descent
// stops at invalid results.
func walkEvaluatedItems(r *Result, loc string, marked map[int]bool, arrayLen int) {
	if !r.Valid {
		return
	}
	if r.InstanceLocation.String() == loc {
		switch r.SourceKeyword {
		case "prefixItems":
			if idx, ok := r.Annotation.(int); ok {
				for i := 0; i <= idx; i++ {
					marked[i] = true
				}
			}
		case "items", "unevaluatedItems":
			if all, ok := r.Annotation.(bool); ok && all {
				for i := 0; i < arrayLen; i++ {
					marked[i] = true
				}
			}
		case "contains":
			if idxs, ok := r.Annotation.([]int); ok {
				for _, i := range idxs {
					marked[i] = true
				}
			}
		}
	}
	for _, n := range r.Nested {
		walkEvaluatedItems(n, loc, marked, arrayLen)
	}
}

// walkEvaluatedProperties collects the object keys recorded as
// evaluated by r and its valid descendants at the given instance
// location.
func walkEvaluatedProperties(r *Result, loc string, marked map[string]bool) {
	if !r.Valid {
		return
	}
	if r.InstanceLocation.String() == loc {
		switch r.SourceKeyword {
		case "properties", "patternProperties", "additionalProperties", "unevaluatedProperties":
			if keys, ok := r.Annotation.([]string); ok {
				for _, k := range keys {
					marked[k] = true
				}
			}
		}
	}
	for _, n := range r.Nested {
		walkEvaluatedProperties(n, loc, marked)
	}
}

// itemToken returns the pointer token of an array index.
func itemToken(i int) string { return strconv.Itoa(i) }
