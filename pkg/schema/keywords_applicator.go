// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
	"github.com/altshiftab/schemer/pkg/regexes"
)

// compileSchemaArray compiles a keyword value that is an array of
// subschemas.
func compileSchemaArray(c *compiler, s *Schema, name string, v *jsonvalue.Value) ([]*Schema, error) {
	if v.Kind() != jsonvalue.Array {
		return nil, fmt.Errorf("%w: %s is %s, want array", ErrSchema, name, v.Kind())
	}
	subs := make([]*Schema, v.Len())
	for i := range subs {
		sub, err := c.sub(s, name, v.Index(i), name, itemToken(i))
		if err != nil {
			return nil, err
		}
		subs[i] = sub
	}
	return subs, nil
}

// compileSchemaMap compiles a keyword value that is an object whose
// members are subschemas.
func compileSchemaMap(c *compiler, s *Schema, name string, v *jsonvalue.Value) ([]namedSchema, error) {
	if v.Kind() != jsonvalue.Object {
		return nil, fmt.Errorf("%w: %s is %s, want object", ErrSchema, name, v.Kind())
	}
	subs := make([]namedSchema, 0, v.Len())
	for _, mem := range v.Members() {
		sub, err := c.sub(s, name, mem.Value, name, mem.Key)
		if err != nil {
			return nil, err
		}
		subs = append(subs, namedSchema{mem.Key, sub})
	}
	return subs, nil
}

// allOfKeyword implements allOf.
type allOfKeyword struct {
	keywordBase
	subs []*Schema
}

func compileAllOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaArray(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &allOfKeyword{keywordBase{name: name, value: v, schema: s}, subs}, nil
}

func (k *allOfKeyword) projection() projection { return projection{schemas: k.subs} }

func (k *allOfKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := k.result(x, iloc, kloc, true)
	for i, sub := range k.subs {
		br := sub.evaluate(x, ctx, iloc, kloc.child(itemToken(i)))
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	if !r.Valid {
		r.tag = "allof"
		r.message = "value at " + formatLocation(iloc) + " does not match all schemas"
	}
	return r
}

// anyOfKeyword implements anyOf. Unless the context short-circuits,
// every branch is evaluated even after a match so that annotations
// from all matching branches are collected.
type anyOfKeyword struct {
	keywordBase
	subs []*Schema
}

func compileAnyOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaArray(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &anyOfKeyword{keywordBase{name: name, value: v, schema: s}, subs}, nil
}

func (k *anyOfKeyword) projection() projection { return projection{schemas: k.subs} }

func (k *anyOfKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := k.result(x, iloc, kloc, false)
	for i, sub := range k.subs {
		br := sub.evaluate(x, ctx, iloc, kloc.child(itemToken(i)))
		r.Nested = append(r.Nested, br)
		if br.Valid {
			r.Valid = true
			if ctx.shortCircuit {
				break
			}
		}
	}
	if !r.Valid {
		r.tag = "anyof"
		r.message = "value at " + formatLocation(iloc) + " does not match any schema"
	}
	return r
}

// oneOfKeyword implements oneOf. With two or more matching branches
// the result is invalid and nested results are suppressed in
// classic output, which would otherwise report the errors of the
// non-matching branches for an instance that matched too often.
type oneOfKeyword struct {
	keywordBase
	subs []*Schema
}

func compileOneOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaArray(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &oneOfKeyword{keywordBase{name: name, value: v, schema: s}, subs}, nil
}

func (k *oneOfKeyword) projection() projection { return projection{schemas: k.subs} }

func (k *oneOfKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := k.result(x, iloc, kloc, false)
	matches := 0
	for i, sub := range k.subs {
		br := sub.evaluate(x, ctx, iloc, kloc.child(itemToken(i)))
		r.Nested = append(r.Nested, br)
		if br.Valid {
			matches++
		}
	}
	r.Valid = matches == 1
	if !r.Valid {
		r.tag = "oneof"
		if matches == 0 {
			r.message = "value at " + formatLocation(iloc) + " does not match exactly one schema"
		} else {
			r.IgnoreNested = true
			r.message = fmt.Sprintf("value at %s matches %d schemas, want exactly one", formatLocation(iloc), matches)
		}
	}
	return r
}

// notKeyword implements not.
type notKeyword struct {
	keywordBase
	sub *Schema
}

func compileNot(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &notKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *notKeyword) projection() projection { return projection{schema: k.sub} }

func (k *notKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	br := k.sub.evaluate(x, ctx, iloc, kloc)
	r := k.result(x, iloc, kloc, !br.Valid)
	r.Nested = []*Result{br}
	if !r.Valid {
		r.tag = "not"
		r.message = "value at " + formatLocation(iloc) + " matches the schema it must not match"
		r.IgnoreNested = true
	}
	return r
}

// ifKeyword implements if. The keyword itself always validates;
// the actual outcome is carried as an annotation for then and else.
type ifKeyword struct {
	keywordBase
	sub *Schema
}

func compileIf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &ifKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *ifKeyword) projection() projection { return projection{schema: k.sub} }

func (k *ifKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	br := k.sub.evaluate(x, ctx, iloc, kloc)
	r := k.result(x, iloc, kloc, true)
	r.Nested = []*Result{br}
	r.Annotation = br.Valid
	return r
}

// conditionalBranchKeyword implements then and else, which apply
// only when the if annotation has the matching outcome.
type conditionalBranchKeyword struct {
	keywordBase
	sub  *Schema
	want bool
}

func compileThen(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileConditionalBranch(c, s, name, v, true)
}

func compileElse(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileConditionalBranch(c, s, name, v, false)
}

func compileConditionalBranch(c *compiler, s *Schema, name string, v *jsonvalue.Value, want bool) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &conditionalBranchKeyword{keywordBase{name: name, value: v, schema: s}, sub, want}, nil
}

func (k *conditionalBranchKeyword) projection() projection { return projection{schema: k.sub} }

func (k *conditionalBranchKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	cond, ok := ctx.adjacent["if"]
	if !ok {
		return nil
	}
	outcome, _ := cond.Annotation.(bool)
	if outcome != k.want {
		return nil
	}
	br := k.sub.evaluate(x, ctx, iloc, kloc)
	r := k.result(x, iloc, kloc, br.Valid)
	r.Nested = []*Result{br}
	if !r.Valid {
		r.tag = k.name
		r.message = "value at " + formatLocation(iloc) + " does not match the " + k.name + " schema"
	}
	return r
}

// dependentSchemasKeyword implements dependentSchemas.
type dependentSchemasKeyword struct {
	keywordBase
	subs []namedSchema
}

func compileDependentSchemas(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaMap(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &dependentSchemasKeyword{keywordBase{name: name, value: v, schema: s}, subs}, nil
}

func (k *dependentSchemasKeyword) projection() projection { return projection{named: k.subs} }

func (k *dependentSchemasKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	r := k.result(x, iloc, kloc, true)
	for _, ns := range k.subs {
		if !x.Has(ns.key) {
			continue
		}
		br := ns.schema.evaluate(x, ctx, iloc, kloc.child(ns.key))
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
		}
	}
	if !r.Valid {
		r.tag = "dependentSchemas"
		r.message = "value at " + formatLocation(iloc) + " does not match its dependent schemas"
	}
	return r
}

// prefixItemsKeyword implements prefixItems. The annotation is the
// highest index a subschema was applied to, or -1 for an empty
// array; items reads it to know where to start.
type prefixItemsKeyword struct {
	keywordBase
	subs []*Schema
}

func compilePrefixItems(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaArray(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &prefixItemsKeyword{keywordBase{name: name, value: v, schema: s}, subs}, nil
}

func (k *prefixItemsKeyword) projection() projection { return projection{schemas: k.subs} }

func (k *prefixItemsKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Array {
		return nil
	}
	r := k.result(x, iloc, kloc, true)
	applied := -1
	for i, sub := range k.subs {
		if i >= x.Len() {
			break
		}
		applied = i
		br := sub.evaluate(x.Index(i), ctx, iloc.child(itemToken(i)), kloc.child(itemToken(i)))
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	r.Annotation = applied
	if !r.Valid {
		r.tag = "prefixItems"
		r.message = "array items at " + formatLocation(iloc) + " do not match their prefix schemas"
	}
	return r
}

// itemsKeyword implements items, which evaluates the elements after
// the prefixItems offset. The annotation records whether any item
// was evaluated.
type itemsKeyword struct {
	keywordBase
	sub *Schema
}

func compileItems(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &itemsKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *itemsKeyword) projection() projection { return projection{schema: k.sub} }

func (k *itemsKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Array {
		return nil
	}
	start := 0
	if prefix, ok := ctx.adjacent["prefixItems"]; ok {
		if applied, ok := prefix.Annotation.(int); ok {
			start = applied + 1
		}
	}
	r := k.result(x, iloc, kloc, true)
	r.Annotation = start < x.Len()
	for i := start; i < x.Len(); i++ {
		br := k.sub.evaluate(x.Index(i), ctx, iloc.child(itemToken(i)), kloc)
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	if !r.Valid {
		r.tag = "items"
		r.message = "array items at " + formatLocation(iloc) + " do not match the items schema"
	}
	return r
}

// containsKeyword implements contains. Every element is probed; the
// annotation lists the matching indices, which maxContains and
// minContains read. Nested probe results are suppressed in classic
// output since most of them fail by design.
type containsKeyword struct {
	keywordBase
	sub *Schema
	// minContainsZero is set when a sibling minContains of 0 makes
	// the keyword unconditionally valid.
	minContainsZero bool
}

func compileContains(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	k := &containsKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}, sub: sub}
	if mc, ok := s.value.Get("minContains"); ok && mc.IsNumber() && mc.Int64() == 0 {
		k.minContainsZero = true
	}
	return k, nil
}

func (k *containsKeyword) projection() projection { return projection{schema: k.sub} }

func (k *containsKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Array {
		return nil
	}
	r := k.result(x, iloc, kloc, true)
	r.IgnoreNested = true
	matched := []int{}
	for i := 0; i < x.Len(); i++ {
		br := k.sub.evaluate(x.Index(i), ctx, iloc.child(itemToken(i)), kloc)
		r.Nested = append(r.Nested, br)
		if br.Valid {
			matched = append(matched, i)
		}
	}
	r.Annotation = matched
	if len(matched) == 0 && !k.minContainsZero {
		r.Valid = false
		r.tag = "contains"
		r.message = "array at " + formatLocation(iloc) + " has no items matching the contains schema"
	}
	return r
}

// propertiesKeyword implements properties. The annotation lists the
// evaluated keys for additionalProperties and the unevaluated
// keywords.
type propertiesKeyword struct {
	keywordBase
	subs []namedSchema
}

func compileProperties(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaMap(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &propertiesKeyword{keywordBase{name: name, value: v, schema: s}, subs}, nil
}

func (k *propertiesKeyword) projection() projection { return projection{named: k.subs} }

func (k *propertiesKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	cfg := k.schema.cfg
	r := k.result(x, iloc, kloc, true)
	evaluated := []string{}
	for _, ns := range k.subs {
		val, ok := x.Get(ns.key)
		if !ok {
			continue
		}
		for _, hook := range cfg.beforeProperty {
			hook(x, ns.key, ns.schema.value)
		}
		br := ns.schema.evaluate(val, ctx, iloc.child(ns.key), kloc.child(ns.key))
		for _, hook := range cfg.afterProperty {
			hook(x, ns.key, ns.schema.value)
		}
		r.Nested = append(r.Nested, br)
		evaluated = append(evaluated, ns.key)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	r.Annotation = evaluated
	if !r.Valid {
		r.tag = "properties"
		r.message = "object properties at " + formatLocation(iloc) + " do not match their schemas"
	}
	return r
}

// patternPropertiesKeyword implements patternProperties. Patterns
// are compiled with the configured regexp dialect at compile time.
type patternPropertiesKeyword struct {
	keywordBase
	subs     []namedSchema
	patterns []regexes.Regexp
}

func compilePatternProperties(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	subs, err := compileSchemaMap(c, s, name, v)
	if err != nil {
		return nil, err
	}
	k := &patternPropertiesKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}, subs: subs}
	for _, ns := range subs {
		re, err := c.cfg.regexpResolver(ns.key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidRegexpResolution, name, ns.key, err)
		}
		k.patterns = append(k.patterns, re)
	}
	return k, nil
}

func (k *patternPropertiesKeyword) projection() projection { return projection{named: k.subs} }

func (k *patternPropertiesKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	r := k.result(x, iloc, kloc, true)
	evaluated := []string{}
	seen := map[string]bool{}
	for i, ns := range k.subs {
		for _, mem := range x.Members() {
			if !k.patterns[i].MatchString(mem.Key) {
				continue
			}
			br := ns.schema.evaluate(mem.Value, ctx, iloc.child(mem.Key), kloc.child(ns.key))
			r.Nested = append(r.Nested, br)
			if !seen[mem.Key] {
				seen[mem.Key] = true
				evaluated = append(evaluated, mem.Key)
			}
			if !br.Valid {
				r.Valid = false
			}
		}
	}
	r.Annotation = evaluated
	if !r.Valid {
		r.tag = "patternProperties"
		r.message = "object properties at " + formatLocation(iloc) + " do not match their pattern schemas"
	}
	return r
}

// additionalPropertiesKeyword implements additionalProperties,
// which applies to every key not claimed by the properties or
// patternProperties annotations on the same schema.
type additionalPropertiesKeyword struct {
	keywordBase
	sub *Schema
}

func compileAdditionalProperties(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &additionalPropertiesKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *additionalPropertiesKeyword) projection() projection { return projection{schema: k.sub} }

func (k *additionalPropertiesKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	claimed := map[string]bool{}
	for _, name := range []string{"properties", "patternProperties"} {
		if adj, ok := ctx.adjacent[name]; ok {
			if keys, ok := adj.Annotation.([]string); ok {
				for _, key := range keys {
					claimed[key] = true
				}
			}
		}
	}

	r := k.result(x, iloc, kloc, true)
	evaluated := []string{}
	for _, mem := range x.Members() {
		if claimed[mem.Key] {
			continue
		}
		br := k.sub.evaluate(mem.Value, ctx, iloc.child(mem.Key), kloc)
		r.Nested = append(r.Nested, br)
		evaluated = append(evaluated, mem.Key)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	r.Annotation = evaluated
	if !r.Valid {
		r.tag = "additionalProperties"
		r.message = "object at " + formatLocation(iloc) + " has additional properties that do not match the schema"
	}
	return r
}

// propertyNamesKeyword implements propertyNames, which applies its
// subschema to every key of the instance as a string.
type propertyNamesKeyword struct {
	keywordBase
	sub *Schema
}

func compilePropertyNames(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &propertyNamesKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *propertyNamesKeyword) projection() projection { return projection{schema: k.sub} }

func (k *propertyNamesKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	r := k.result(x, iloc, kloc, true)
	for _, mem := range x.Members() {
		br := k.sub.evaluate(jsonvalue.NewString(mem.Key), ctx, iloc.child(mem.Key), kloc)
		r.Nested = append(r.Nested, br)
		if !br.Valid {
			r.Valid = false
			if ctx.shortCircuit {
				break
			}
		}
	}
	if !r.Valid {
		r.tag = "propertyNames"
		r.message = "object at " + formatLocation(iloc) + " has property names that do not match the schema"
	}
	return r
}
