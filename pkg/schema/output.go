// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/altshiftab/schemer/pkg/jsonpointer"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// Output format names.
const (
	OutputFlag     = "flag"
	OutputBasic    = "basic"
	OutputDetailed = "detailed"
	OutputVerbose  = "verbose"
	OutputClassic  = "classic"
)

// ClassicError is one entry of the classic result: a leaf failure
// with the instance and schema fragments it relates.
type ClassicError struct {
	Data          *jsonvalue.Value `json:"data"`
	DataPointer   string           `json:"data_pointer"`
	Schema        *jsonvalue.Value `json:"schema"`
	SchemaPointer string           `json:"schema_pointer"`
	RootSchema    *jsonvalue.Value `json:"root_schema"`
	Type          string           `json:"type"`
	Error         string           `json:"error"`
	Details       map[string]any   `json:"details,omitempty"`
}

// ClassicResult is the classic output shape: a validity flag and a
// flat list of leaf errors.
type ClassicResult struct {
	Valid  bool            `json:"valid"`
	Errors []*ClassicError `json:"errors"`
}

// classicResult flattens a result tree into the classic shape.
func classicResult(r *Result, root *Schema) *ClassicResult {
	res := &ClassicResult{Valid: r.Valid}
	if !r.Valid {
		collectClassic(r, root, &res.Errors)
	}
	return res
}

// collectClassic descends into invalid children unless the node
// suppresses them; when no descent adds an entry, the node itself
// is emitted.
func collectClassic(r *Result, root *Schema, out *[]*ClassicError) {
	if r.Valid {
		return
	}
	before := len(*out)
	if !r.IgnoreNested {
		for _, n := range r.Nested {
			collectClassic(n, root, out)
		}
	}
	if len(*out) > before {
		return
	}

	tag := r.tag
	if tag == "" {
		tag = "schema"
	}
	schemaPtr := r.SourceSchema.ptr.String()
	*out = append(*out, &ClassicError{
		Data:          r.Instance,
		DataPointer:   r.InstanceLocation.String(),
		Schema:        r.SourceSchema.value,
		SchemaPointer: schemaPtr,
		RootSchema:    root.value,
		Type:          tag,
		Error:         errorMessage(r),
		Details:       r.Details,
	})
}

// shapeOutput renders the result tree in a named output format.
func shapeOutput(r *Result, root *Schema, formatName string) (*jsonvalue.Value, error) {
	switch formatName {
	case OutputFlag:
		return jsonvalue.NewObject([]jsonvalue.Member{
			{Key: "valid", Value: jsonvalue.NewBool(r.Valid)},
		}), nil

	case OutputBasic:
		var units []*jsonvalue.Value
		collectBasic(r, r.Valid, &units)
		return outputRoot(r.Valid, units), nil

	case OutputDetailed:
		node := detailedNode(r, r.Valid)
		if node == nil {
			node = outputUnit(r, nil)
		}
		return node, nil

	case OutputVerbose:
		return verboseNode(r), nil

	case OutputClassic:
		cr := classicResult(r, root)
		return classicValue(cr), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputFormat, formatName)
	}
}

// outputRoot wraps a flat unit list with the root validity.
func outputRoot(valid bool, units []*jsonvalue.Value) *jsonvalue.Value {
	members := []jsonvalue.Member{
		{Key: "valid", Value: jsonvalue.NewBool(valid)},
	}
	key := "errors"
	if valid {
		key = "annotations"
	}
	if len(units) > 0 {
		members = append(members, jsonvalue.Member{Key: key, Value: jsonvalue.NewArray(units)})
	}
	return jsonvalue.NewObject(members)
}

// collectBasic gathers the deepest units sharing the root validity.
func collectBasic(r *Result, rootValid bool, out *[]*jsonvalue.Value) {
	var matching []*Result
	for _, n := range r.Nested {
		if n.Valid == rootValid {
			matching = append(matching, n)
		}
	}
	if len(matching) == 0 {
		*out = append(*out, outputUnit(r, nil))
		return
	}
	for _, n := range matching {
		collectBasic(n, rootValid, out)
	}
}

// detailedNode builds the detailed tree: children not sharing the
// root validity are pruned and chains with a single surviving child
// collapse into that child.
func detailedNode(r *Result, rootValid bool) *jsonvalue.Value {
	if r.Valid != rootValid {
		return nil
	}
	var children []*jsonvalue.Value
	for _, n := range r.Nested {
		if c := detailedNode(n, rootValid); c != nil {
			children = append(children, c)
		}
	}
	if len(children) == 1 {
		return children[0]
	}
	return outputUnit(r, children)
}

// verboseNode mirrors the full result tree.
func verboseNode(r *Result) *jsonvalue.Value {
	var children []*jsonvalue.Value
	for _, n := range r.Nested {
		children = append(children, verboseNode(n))
	}
	return outputUnit(r, children)
}

// outputUnit renders a single result node, with optional nested
// units attached under "errors" or "annotations".
func outputUnit(r *Result, nested []*jsonvalue.Value) *jsonvalue.Value {
	members := []jsonvalue.Member{
		{Key: "valid", Value: jsonvalue.NewBool(r.Valid)},
		{Key: "keywordLocation", Value: jsonvalue.NewString(r.KeywordLocation.String())},
		{Key: "absoluteKeywordLocation", Value: jsonvalue.NewString(absoluteKeywordLocation(r))},
		{Key: "instanceLocation", Value: jsonvalue.NewString(r.InstanceLocation.String())},
	}
	if r.Valid {
		if r.Annotation != nil {
			members = append(members, jsonvalue.Member{Key: "annotation", Value: annotationValue(r.Annotation)})
		}
	} else {
		members = append(members, jsonvalue.Member{Key: "error", Value: jsonvalue.NewString(errorMessage(r))})
	}
	if len(nested) > 0 {
		key := "errors"
		if r.Valid {
			key = "annotations"
		}
		members = append(members, jsonvalue.Member{Key: key, Value: jsonvalue.NewArray(nested)})
	}
	return jsonvalue.NewObject(members)
}

// absoluteKeywordLocation renders the canonical URI of a result's
// source, including the keyword segment for keyword nodes.
func absoluteKeywordLocation(r *Result) string {
	abs := r.SourceSchema.AbsoluteKeywordLocation()
	if r.SourceKeyword == "" {
		return abs
	}
	tok := jsonpointer.EscapeToken(r.SourceKeyword)
	u := *r.SourceSchema.baseURI
	rel := r.SourceSchema.ptr[len(r.SourceSchema.resourceRoot.ptr):]
	u.Fragment = rel.String() + "/" + tok
	return u.String()
}

// annotationValue converts a keyword annotation to a JSON value.
func annotationValue(a any) *jsonvalue.Value {
	switch t := a.(type) {
	case *jsonvalue.Value:
		return t
	case bool:
		return jsonvalue.NewBool(t)
	case int:
		return jsonvalue.NewInt(int64(t))
	case string:
		return jsonvalue.NewString(t)
	case []int:
		elems := make([]*jsonvalue.Value, len(t))
		for i, e := range t {
			elems[i] = jsonvalue.NewInt(int64(e))
		}
		return jsonvalue.NewArray(elems)
	case []string:
		elems := make([]*jsonvalue.Value, len(t))
		for i, e := range t {
			elems[i] = jsonvalue.NewString(e)
		}
		return jsonvalue.NewArray(elems)
	default:
		return jsonvalue.NewNull()
	}
}

// classicValue renders a ClassicResult as a JSON value.
func classicValue(cr *ClassicResult) *jsonvalue.Value {
	errs := make([]*jsonvalue.Value, len(cr.Errors))
	for i, e := range cr.Errors {
		members := []jsonvalue.Member{
			{Key: "data", Value: e.Data},
			{Key: "data_pointer", Value: jsonvalue.NewString(e.DataPointer)},
			{Key: "schema", Value: e.Schema},
			{Key: "schema_pointer", Value: jsonvalue.NewString(e.SchemaPointer)},
			{Key: "root_schema", Value: e.RootSchema},
			{Key: "type", Value: jsonvalue.NewString(e.Type)},
			{Key: "error", Value: jsonvalue.NewString(e.Error)},
		}
		if len(e.Details) > 0 {
			details, err := jsonvalue.From(detailsInterface(e.Details))
			if err == nil {
				members = append(members, jsonvalue.Member{Key: "details", Value: details})
			}
		}
		errs[i] = jsonvalue.NewObject(members)
	}
	return jsonvalue.NewObject([]jsonvalue.Member{
		{Key: "valid", Value: jsonvalue.NewBool(cr.Valid)},
		{Key: "errors", Value: jsonvalue.NewArray(errs)},
	})
}

// detailsInterface widens a details map for jsonvalue.From.
func detailsInterface(d map[string]any) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		switch t := v.(type) {
		case []string:
			xs := make([]any, len(t))
			for i, s := range t {
				xs[i] = s
			}
			out[k] = xs
		default:
			out[k] = v
		}
	}
	return out
}
