// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// annotationKeyword covers the keywords that carry meaning for the
// schema or for tooling but never affect validity: the identity
// keywords (already parsed by the compiler), $comment, and the
// meta-data vocabulary. The raw value is exposed as an annotation.
type annotationKeyword struct {
	keywordBase
}

func compileAnnotationKeyword(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return &annotationKeyword{keywordBase{name: name, value: v, schema: s}}, nil
}

func (k *annotationKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := k.result(x, iloc, kloc, true)
	r.Annotation = k.value
	return r
}

// unknownKeyword holds a keyword the active dialect does not
// recognize. It always validates and exposes its value as an
// annotation; the raw value is retained so that a reference pointer
// can still navigate into it.
type unknownKeyword struct {
	keywordBase
}

func compileUnknown(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return &unknownKeyword{keywordBase{name: name, value: v, schema: s}}, nil
}

func (k *unknownKeyword) projection() projection { return projection{raw: true} }

func (k *unknownKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := k.result(x, iloc, kloc, true)
	r.Annotation = k.value
	return r
}

// defsKeyword holds the $defs definitions. The definitions are
// compiled eagerly so their identities register and references can
// navigate to them, but nothing is evaluated here.
type defsKeyword struct {
	keywordBase
	defs []namedSchema
}

func compileDefs(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.Object {
		return nil, fmt.Errorf("%w: %s is %s, want object", ErrSchema, name, v.Kind())
	}
	k := &defsKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}}
	for _, mem := range v.Members() {
		sub, err := c.sub(s, name, mem.Value, name, mem.Key)
		if err != nil {
			return nil, err
		}
		k.defs = append(k.defs, namedSchema{mem.Key, sub})
	}
	return k, nil
}

func (k *defsKeyword) projection() projection { return projection{named: k.defs} }

func (k *defsKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	return nil
}
