// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// unevaluatedItemsKeyword implements unevaluatedItems. The keyword
// applies its subschema to every index that no valid adjacent or
// nested applicator result at the same instance location has
// annotated: prefixItems, items, contains, and unevaluatedItems
// from in-place applicators all count.
type unevaluatedItemsKeyword struct {
	keywordBase
	sub *Schema
}

func compileUnevaluatedItems(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &unevaluatedItemsKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *unevaluatedItemsKeyword) projection() projection { return projection{schema: k.sub} }

func (k *unevaluatedItemsKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Array {
		return nil
	}
	marked := make(map[int]bool)
	loc := iloc.String()
	for _, adj := range ctx.adjacent {
		walkEvaluatedItems(adj, loc, marked, x.Len())
	}

	r := k.result(x, iloc, kloc, true)
	evaluated := false
	for i := 0; i < x.Len(); i++ {
		if marked[i] {
			continue
		}
		evaluated = true
		br := k.sub.evaluate(x.Index(i), ctx, iloc.child(itemToken(i)), kloc)
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	r.Annotation = evaluated
	if !r.Valid {
		r.tag = "unevaluatedItems"
		r.message = "array at " + formatLocation(iloc) + " has unevaluated items that do not match the schema"
	}
	return r
}

// unevaluatedPropertiesKeyword implements unevaluatedProperties,
// symmetric to unevaluatedItems over object keys.
type unevaluatedPropertiesKeyword struct {
	keywordBase
	sub *Schema
}

func compileUnevaluatedProperties(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &unevaluatedPropertiesKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *unevaluatedPropertiesKeyword) projection() projection { return projection{schema: k.sub} }

func (k *unevaluatedPropertiesKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	marked := make(map[string]bool)
	loc := iloc.String()
	for _, adj := range ctx.adjacent {
		walkEvaluatedProperties(adj, loc, marked)
	}

	r := k.result(x, iloc, kloc, true)
	evaluated := []string{}
	for _, mem := range x.Members() {
		if marked[mem.Key] {
			continue
		}
		evaluated = append(evaluated, mem.Key)
		br := k.sub.evaluate(mem.Value, ctx, iloc.child(mem.Key), kloc)
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	r.Annotation = evaluated
	if !r.Valid {
		r.tag = "unevaluatedProperties"
		r.message = "object at " + formatLocation(iloc) + " has unevaluated properties that do not match the schema"
	}
	return r
}
