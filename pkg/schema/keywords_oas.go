// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"strings"

	"github.com/altshiftab/schemer/pkg/jsonpointer"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// componentSchemasPointer is where an OpenAPI document keeps the
// schemas a discriminator selects among by name.
var componentSchemasPointer = jsonpointer.Pointer{"components", "schemas"}

// discriminatorKeyword implements the OpenAPI discriminator. The
// instance names the schema it must match through the discriminator
// property; explicit mapping entries and the document's component
// schemas are both resolved at compile time so validation stays
// free of I/O.
type discriminatorKeyword struct {
	keywordBase
	propertyName string
	mapping      []jsonvalue.Member
	targets      map[string]*Schema
}

func compileDiscriminator(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.Object {
		return nil, fmt.Errorf("%w: discriminator is %s, want object", ErrSchema, v.Kind())
	}
	prop, ok := v.Get("propertyName")
	if !ok || prop.Kind() != jsonvalue.String || prop.Str() == "" {
		return nil, fmt.Errorf("%w: discriminator requires a non-empty propertyName", ErrSchema)
	}
	k := &discriminatorKeyword{
		keywordBase:  keywordBase{name: name, value: v, schema: s},
		propertyName: prop.Str(),
		targets:      make(map[string]*Schema),
	}
	if mapping, ok := v.Get("mapping"); ok {
		if mapping.Kind() != jsonvalue.Object {
			return nil, fmt.Errorf("%w: discriminator mapping is %s, want object", ErrSchema, mapping.Kind())
		}
		k.mapping = mapping.Members()
	}
	c.pending = append(c.pending, k)
	return k, nil
}

// resolve binds every schema the discriminator can select:
// explicit mapping entries first, then one entry per component
// schema of the enclosing document.
func (k *discriminatorKeyword) resolve(c *compiler) error {
	for _, mem := range k.mapping {
		if mem.Value.Kind() != jsonvalue.String {
			return fmt.Errorf("%w: discriminator mapping %q is %s, want string", ErrSchema, mem.Key, mem.Value.Kind())
		}
		ref := mem.Value.Str()
		if !strings.Contains(ref, "/") && !strings.Contains(ref, "#") {
			// A bare name is shorthand for the component schema.
			ref = "#/components/schemas/" + ref
		}
		uri, err := resolveURI(k.schema.baseURI, ref)
		if err != nil {
			return err
		}
		target, err := c.resolveRef(uri)
		if err != nil {
			return fmt.Errorf("discriminator mapping %q: %w", mem.Key, err)
		}
		k.targets[mem.Key] = target
	}

	// Implicit names select the component schema with that name.
	root := k.schema.root
	schemas, err := componentSchemasPointer.Eval(root.value)
	if err != nil {
		return nil
	}
	for _, mem := range schemas.Members() {
		if _, mapped := k.targets[mem.Key]; mapped {
			continue
		}
		uri, err := resolveURI(root.baseURI, "#/components/schemas/"+mem.Key)
		if err != nil {
			return err
		}
		target, err := c.resolveRef(uri)
		if err != nil {
			return fmt.Errorf("discriminator component %q: %w", mem.Key, err)
		}
		k.targets[mem.Key] = target
	}
	return nil
}

// discriminate returns the schema selected by the discriminator
// property of the instance.
func (k *discriminatorKeyword) discriminate(x *jsonvalue.Value) (*Schema, string, bool) {
	prop, ok := x.Get(k.propertyName)
	if !ok || prop.Kind() != jsonvalue.String {
		return nil, "", false
	}
	target, ok := k.targets[prop.Str()]
	return target, prop.Str(), ok
}

func (k *discriminatorKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if ctx.skipDiscriminator == k.schema {
		// This discriminator was re-entered through the allOf
		// back-reference of the schema it just selected; skip a
		// single pass to break the recursion.
		ctx.skipDiscriminator = nil
		return nil
	}
	if x.Kind() != jsonvalue.Object {
		return nil
	}

	prop, ok := x.Get(k.propertyName)
	if !ok || prop.Kind() != jsonvalue.String {
		return k.fail(x, iloc, kloc, "discriminator",
			"object at "+formatLocation(iloc)+" is missing discriminator property "+k.propertyName)
	}
	target, ok := k.targets[prop.Str()]
	if !ok {
		return k.fail(x, iloc, kloc, "discriminator",
			fmt.Sprintf("discriminator value %q at %s does not name a known schema", prop.Str(), formatLocation(iloc)))
	}

	prev := ctx.skipDiscriminator
	ctx.skipDiscriminator = k.schema
	sub := target.evaluate(x, ctx, iloc, kloc)
	ctx.skipDiscriminator = prev

	r := k.result(x, iloc, kloc, sub.Valid)
	r.Nested = []*Result{sub}
	if !r.Valid {
		r.tag = "discriminator"
		r.message = "value at " + formatLocation(iloc) + " does not match its discriminated schema"
	}
	return r
}

// discriminatorOf returns the sibling discriminator keyword of a
// schema, if any. The combinator overrides consult it before
// evaluating their branches.
func discriminatorOf(s *Schema) *discriminatorKeyword {
	for _, k := range s.keywords {
		if d, ok := k.(*discriminatorKeyword); ok {
			return d
		}
	}
	return nil
}

// compileOASAllOf is the OpenAPI override of allOf. It builds a
// plain allOf keyword; the discriminator recursion guard lives in
// the discriminator keyword itself.
func compileOASAllOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileAllOf(c, s, name, v)
}

// oasBranchKeyword is the OpenAPI override of anyOf and oneOf.
// With a sibling discriminator only the branch the instance names
// is evaluated, instead of probing every branch.
type oasBranchKeyword struct {
	keywordBase
	subs  []*Schema
	oneOf bool
}

func compileOASAnyOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileOASBranch(c, s, name, v, false)
}

func compileOASOneOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileOASBranch(c, s, name, v, true)
}

func compileOASBranch(c *compiler, s *Schema, name string, v *jsonvalue.Value, oneOf bool) (Keyword, error) {
	subs, err := compileSchemaArray(c, s, name, v)
	if err != nil {
		return nil, err
	}
	return &oasBranchKeyword{keywordBase{name: name, value: v, schema: s}, subs, oneOf}, nil
}

func (k *oasBranchKeyword) projection() projection { return projection{schemas: k.subs} }

func (k *oasBranchKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	disc := discriminatorOf(k.schema)
	if disc == nil || x.Kind() != jsonvalue.Object {
		return k.evaluatePlain(x, ctx, iloc, kloc)
	}
	target, name, ok := disc.discriminate(x)
	if !ok {
		return k.evaluatePlain(x, ctx, iloc, kloc)
	}

	// Evaluate only the branch the discriminator selected.
	for i, sub := range k.subs {
		if !branchMatches(sub, target, name) {
			continue
		}
		br := sub.evaluate(x, ctx, iloc, kloc.child(itemToken(i)))
		r := k.result(x, iloc, kloc, br.Valid)
		r.Nested = []*Result{br}
		if !r.Valid {
			r.tag = strings.ToLower(k.name)
			r.message = "value at " + formatLocation(iloc) + " does not match its discriminated schema"
		}
		return r
	}
	return k.fail(x, iloc, kloc, strings.ToLower(k.name),
		fmt.Sprintf("discriminator value %q at %s does not select any schema", name, formatLocation(iloc)))
}

// evaluatePlain falls back to the draft combinator semantics.
func (k *oasBranchKeyword) evaluatePlain(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if k.oneOf {
		plain := &oneOfKeyword{k.keywordBase, k.subs}
		return plain.Evaluate(x, ctx, iloc, kloc)
	}
	plain := &anyOfKeyword{k.keywordBase, k.subs}
	return plain.Evaluate(x, ctx, iloc, kloc)
}

// branchMatches reports whether a combinator branch is the one a
// discriminator selected: either the branch is (or references) the
// resolved target, or its $ref ends with the discriminated name.
func branchMatches(branch, target *Schema, name string) bool {
	if branch == target {
		return true
	}
	for _, kw := range branch.keywords {
		ref, ok := kw.(*refKeyword)
		if !ok {
			continue
		}
		if ref.target == target {
			return true
		}
		if strings.HasSuffix(strings.TrimSuffix(ref.value.Str(), "/"), "/"+name) {
			return true
		}
	}
	return false
}
