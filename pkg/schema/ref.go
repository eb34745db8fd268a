// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/altshiftab/schemer/pkg/jsonpointer"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// refKeyword implements $ref. In draft 2020-12 the keyword is
// non-exclusive: sibling keywords evaluate as well.
type refKeyword struct {
	keywordBase
	uri    *url.URL
	target *Schema
}

func compileRef(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.String {
		return nil, fmt.Errorf("%w: $ref is %s, want string", ErrSchema, v.Kind())
	}
	uri, err := resolveURI(s.baseURI, v.Str())
	if err != nil {
		return nil, err
	}
	k := &refKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}, uri: uri}
	c.pending = append(c.pending, k)
	return k, nil
}

func (k *refKeyword) resolve(c *compiler) error {
	target, err := c.resolveRef(k.uri)
	if err != nil {
		return err
	}
	k.target = target
	return nil
}

func (k *refKeyword) projection() projection {
	// The target is not a subschema of this keyword; pointer
	// navigation does not descend through $ref.
	return projection{}
}

func (k *refKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	sub := k.target.evaluate(x, ctx, iloc, kloc)
	r := k.result(x, iloc, kloc, sub.Valid)
	r.Nested = []*Result{sub}
	return r
}

// dynamicRefKeyword implements $dynamicRef. The lexical target is
// resolved at compile time; when it carries a matching
// $dynamicAnchor, the dynamic scope is searched outermost-first at
// validation time for an overriding resource.
type dynamicRefKeyword struct {
	keywordBase
	uri    *url.URL
	anchor string
	target *Schema
}

func compileDynamicRef(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.String {
		return nil, fmt.Errorf("%w: $dynamicRef is %s, want string", ErrSchema, v.Kind())
	}
	uri, err := resolveURI(s.baseURI, v.Str())
	if err != nil {
		return nil, err
	}
	k := &dynamicRefKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}, uri: uri}
	if frag := uri.Fragment; frag != "" && !strings.HasPrefix(frag, "/") {
		k.anchor = frag
	}
	c.pending = append(c.pending, k)
	return k, nil
}

func (k *dynamicRefKeyword) resolve(c *compiler) error {
	target, err := c.resolveRef(k.uri)
	if err != nil {
		return err
	}
	k.target = target
	return nil
}

func (k *dynamicRefKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	target := k.target
	if k.anchor != "" && target.dynamicAnchor == k.anchor {
		// The lexical target is itself a dynamic anchor: the
		// outermost resource in scope that defines the anchor
		// wins.
		for _, d := range ctx.dynamicScope {
			key := uriKey(withFragment(d.baseURI, k.anchor))
			if s, ok := k.schema.res.dynamic[key]; ok {
				target = s
				break
			}
		}
	}
	sub := target.evaluate(x, ctx, iloc, kloc)
	r := k.result(x, iloc, kloc, sub.Valid)
	r.Nested = []*Result{sub}
	return r
}

// resolveRef resolves an absolute reference URI to a schema:
// first the lexical table, then the table with the fragment
// removed, then a document fetched through the resolver (with the
// embedded meta-schemas as fallback), compiled and merged.
func (c *compiler) resolveRef(uri *url.URL) (*Schema, error) {
	if s, ok := c.res.lexical[uriKey(uri)]; ok {
		return s, nil
	}

	base := fragmentless(uri)
	frag := uri.Fragment

	target, ok := c.res.lexical[uriKey(base)]
	if !ok {
		doc, err := c.fetchDocumentValue(base)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			if c.cfg.refResolver != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidRefResolution, uri)
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownRef, uri)
		}
		root, err := c.compileDocument(doc, base, DraftID)
		if err != nil {
			return nil, err
		}
		c.documents[uriKey(base)] = root

		// The merged tables may now satisfy the full URI (for an
		// anchor fragment) or the base (for a pointer fragment).
		if s, ok := c.res.lexical[uriKey(uri)]; ok {
			return s, nil
		}
		target, ok = c.res.lexical[uriKey(base)]
		if !ok {
			target = root
		}
	}

	if frag == "" {
		return target, nil
	}
	if strings.HasPrefix(frag, "/") {
		toks, err := jsonpointer.Parse(frag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRefPointer, uri)
		}
		s, err := c.navigate(target, toks)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRefPointer, uri, err)
		}
		// Later references to the same pointer resolve to the same
		// schema node.
		c.res.lexical[uriKey(uri)] = s
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRef, uri)
}

// navigate walks a pointer through compiled keyword projections:
// applicator arrays by index, property maps by key, and
// unknown-keyword values generically.
func (c *compiler) navigate(s *Schema, toks jsonpointer.Pointer) (*Schema, error) {
	for i := 0; i < len(toks); {
		tok := toks[i]
		var kw Keyword
		for _, k := range s.keywords {
			if k.Name() == tok {
				kw = k
				break
			}
		}
		if kw == nil {
			return nil, fmt.Errorf("no keyword %q at %q", tok, s.ptr.String())
		}

		p := kw.projection()
		switch {
		case p.schema != nil:
			s = p.schema
			i++
		case p.schemas != nil:
			if i+1 >= len(toks) {
				return nil, fmt.Errorf("expected array index after %q", tok)
			}
			idx, err := strconv.Atoi(toks[i+1])
			if err != nil || idx < 0 || idx >= len(p.schemas) {
				return nil, fmt.Errorf("bad array index %q after %q", toks[i+1], tok)
			}
			s = p.schemas[idx]
			i += 2
		case p.named != nil:
			if i+1 >= len(toks) {
				return nil, fmt.Errorf("expected map key after %q", tok)
			}
			sub, ok := p.lookup(toks[i+1])
			if !ok {
				return nil, fmt.Errorf("no entry %q under %q", toks[i+1], tok)
			}
			s = sub
			i += 2
		case p.raw:
			// The pointer descends into a keyword this dialect
			// does not recognize; the value there may still be a
			// schema, so compile it in place.
			rest := toks[i+1:]
			val, err := rest.Eval(kw.Value())
			if err != nil {
				return nil, err
			}
			return c.sub(s, tok, val, append(jsonpointer.Pointer{tok}, rest...)...)
		default:
			return nil, fmt.Errorf("keyword %q does not contain schemas", tok)
		}
	}
	return s, nil
}
