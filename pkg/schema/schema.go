// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema compiles JSON schemas (draft 2020-12 and the
// OpenAPI 3.1 dialect) and validates instances against them.
//
// A schema value is compiled once with [Compile] into an immutable
// [Schema]; the compiled schema is safe to share across goroutines
// for concurrent validation, each call getting its own evaluation
// context.
package schema

import (
	"net/url"
	"sync"

	"github.com/altshiftab/schemer/pkg/jsonpointer"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// DraftID is the URI of the supported JSON schema draft.
const DraftID = "https://json-schema.org/draft/2020-12/schema"

// OASDialectID is the URI of the OpenAPI 3.1 base dialect.
const OASDialectID = "https://spec.openapis.org/oas/3.1/dialect/base"

// resources holds the identity tables of a schema document graph.
// lexical maps every URI introduced by $id and $anchor to the schema
// it identifies; dynamic holds the $dynamicAnchor entries consulted
// by $dynamicRef. The tables are written during compilation only.
type resources struct {
	lexical map[string]*Schema
	dynamic map[string]*Schema
}

func newResources() *resources {
	return &resources{
		lexical: make(map[string]*Schema),
		dynamic: make(map[string]*Schema),
	}
}

// Schema is a compiled schema node.
type Schema struct {
	value         *jsonvalue.Value
	baseURI       *url.URL
	metaSchemaURI string
	keywords      []Keyword

	parent      *Schema
	keywordName string
	root        *Schema

	// ptr is the position of this node within its document.
	ptr jsonpointer.Pointer
	// resourceRoot is the nearest enclosing schema with an $id
	// (possibly this node), against which the absolute keyword
	// location fragment is formed.
	resourceRoot *Schema

	// res is the identity table set. All schemas compiled for one
	// top-level Compile call, including fetched documents, share
	// one set.
	res *resources

	// dynamicAnchor is the anchor name when this node carries a
	// $dynamicAnchor.
	dynamicAnchor string

	cfg     *config
	dialect *dialect

	// external maps fragmentless URIs to the roots of documents
	// fetched while compiling. Populated on the primary root only;
	// Bundle embeds these.
	external map[string]*Schema

	metaOnce sync.Once
	meta     *Schema
	metaErr  error

	absOnce sync.Once
	absLoc  string
}

// Value returns the JSON value the schema was compiled from.
func (s *Schema) Value() *jsonvalue.Value { return s.value }

// BaseURI returns the base URI active at this node.
func (s *Schema) BaseURI() *url.URL { return s.baseURI }

// Root returns the root schema of the document this node belongs to.
func (s *Schema) Root() *Schema { return s.root }

// Pointer returns the position of this node within its document as
// a JSON pointer string.
func (s *Schema) Pointer() string { return s.ptr.String() }

// boolValue reports whether this is a boolean schema, and its value.
func (s *Schema) boolValue() (value, ok bool) {
	if s.value.Kind() == jsonvalue.Bool {
		return s.value.Bool(), true
	}
	return false, false
}

// AbsoluteKeywordLocation returns the canonical URI of this node:
// the base URI of its resource plus a pointer fragment relative to
// the resource root. The string is built on first use and cached.
func (s *Schema) AbsoluteKeywordLocation() string {
	s.absOnce.Do(func() {
		rel := s.ptr[len(s.resourceRoot.ptr):]
		u := withFragment(s.baseURI, rel.String())
		if len(rel) == 0 {
			u = fragmentless(s.baseURI)
		}
		s.absLoc = u.String()
	})
	return s.absLoc
}

// Valid reports whether instance satisfies the schema.
// Evaluation short-circuits on the first failing keyword.
func (s *Schema) Valid(instance *jsonvalue.Value) bool {
	ctx := s.newContext(true)
	return s.evaluate(instance, ctx, rootLocation, rootLocation).Valid
}

// Validate validates instance and returns the classic result:
// a flat list of leaf errors.
func (s *Schema) Validate(instance *jsonvalue.Value) *ClassicResult {
	ctx := s.newContext(false)
	r := s.evaluate(instance, ctx, rootLocation, rootLocation)
	return classicResult(r, s.root)
}

// Output validates instance and shapes the result tree as one of
// the draft output formats: "flag", "basic", "detailed" or
// "verbose". The empty string selects the configured default,
// and "classic" renders the classic result as a JSON value.
func (s *Schema) Output(instance *jsonvalue.Value, formatName string) (*jsonvalue.Value, error) {
	if formatName == "" {
		formatName = s.cfg.outputFormat
	}
	ctx := s.newContext(formatName == OutputFlag)
	r := s.evaluate(instance, ctx, rootLocation, rootLocation)
	return shapeOutput(r, s.root, formatName)
}

// newContext builds the evaluation context of one validate call.
func (s *Schema) newContext(shortCircuit bool) *Context {
	return &Context{
		shortCircuit: shortCircuit,
		accessMode:   s.cfg.accessMode,
		adjacent:     make(map[string]*Result),
	}
}

// maxEvalDepth bounds schema recursion during validation.
// A cycle of $ref with no applicator in between would otherwise
// recurse forever on any instance.
const maxEvalDepth = 1000

// evaluate applies the schema to an instance value. On entry the
// schema is pushed onto the dynamic scope and the adjacent-result
// map is reset; both are restored on exit.
func (s *Schema) evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := &Result{
		SourceSchema:     s,
		Instance:         x,
		InstanceLocation: iloc,
		KeywordLocation:  kloc,
		Valid:            true,
	}

	if ctx.depth >= maxEvalDepth {
		r.Valid = false
		r.tag = "schema"
		r.message = "schema recursion too deep"
		return r
	}

	if b, ok := s.boolValue(); ok {
		if !b {
			r.Valid = false
			r.tag = s.falseSchemaTag()
			r.message = "value at " + formatLocation(iloc) + " does not match schema"
		}
		return r
	}

	ctx.depth++
	ctx.dynamicScope = append(ctx.dynamicScope, s)
	saved := ctx.adjacent
	ctx.adjacent = make(map[string]*Result)
	defer func() {
		ctx.adjacent = saved
		ctx.dynamicScope = ctx.dynamicScope[:len(ctx.dynamicScope)-1]
		ctx.depth--
	}()

	for _, k := range s.keywords {
		kr := k.Evaluate(x, ctx, iloc, kloc.child(k.Name()))
		if kr == nil {
			continue
		}
		ctx.adjacent[k.Name()] = kr
		r.Nested = append(r.Nested, kr)
		if !kr.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	return r
}

// falseSchemaTag names the classic error tag of a failing boolean
// schema. The tag is delegated to the keyword the schema hangs off
// when there is one.
func (s *Schema) falseSchemaTag() string {
	if s.keywordName != "" {
		return s.keywordName
	}
	return "schema"
}

// formatLocation renders an instance location for messages:
// "root" for the document root, the pointer in backquotes otherwise.
func formatLocation(loc *Location) string {
	if loc.String() == "" {
		return "root"
	}
	return "`" + loc.String() + "`"
}
