// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/altshiftab/schemer/internal/metaschema"
	"github.com/altshiftab/schemer/pkg/jsonpointer"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// defaultBaseURI is the synthetic base of schemas that declare no
// $id and were compiled without a base URI option.
const defaultBaseURI = "schemer://schema"

// Compile compiles a schema value. The returned schema is immutable
// and safe for concurrent validation. All reference targets,
// including external documents fetched through the configured
// resolver, are resolved during compilation; validation performs
// no I/O.
func Compile(v *jsonvalue.Value, opts ...Option) (*Schema, error) {
	cfg := newConfig(opts)
	return compileWithConfig(v, cfg)
}

// CompileBytes parses and compiles a JSON schema document.
func CompileBytes(data []byte, opts ...Option) (*Schema, error) {
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, err
	}
	return Compile(v, opts...)
}

// CompileAt compiles a document and returns the subschema a JSON
// pointer designates within it, navigating through keyword
// projections the way a $ref fragment would. The pointer must land
// on a schema position. The OpenAPI wrapper uses this to extract
// component schemas.
func CompileAt(v *jsonvalue.Value, pointer string, opts ...Option) (*Schema, error) {
	cfg := newConfig(opts)
	c := &compiler{
		cfg:       cfg,
		res:       newResources(),
		documents: make(map[string]*Schema),
		dialects:  make(map[string]*dialect),
	}
	root, err := c.compileDocument(v, cfg.baseURI, cfg.metaSchemaURI)
	if err != nil {
		return nil, err
	}
	if err := c.resolvePending(); err != nil {
		return nil, err
	}

	toks, err := jsonpointer.Parse(pointer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRefPointer, pointer)
	}
	sub, err := c.navigate(root, toks)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRefPointer, pointer, err)
	}
	// Navigating may have compiled new positions with their own
	// references.
	if err := c.resolvePending(); err != nil {
		return nil, err
	}
	root.external = c.documents
	return sub, nil
}

// compileWithConfig runs a full compile with an already-built
// configuration.
func compileWithConfig(v *jsonvalue.Value, cfg *config) (*Schema, error) {
	c := &compiler{
		cfg:       cfg,
		res:       newResources(),
		documents: make(map[string]*Schema),
		dialects:  make(map[string]*dialect),
	}
	root, err := c.compileDocument(v, cfg.baseURI, cfg.metaSchemaURI)
	if err != nil {
		return nil, err
	}
	if err := c.resolvePending(); err != nil {
		return nil, err
	}
	root.external = c.documents
	return root, nil
}

// compiler holds the state of one top-level Compile call.
type compiler struct {
	cfg *config

	// res is the merged identity table set shared by every
	// document compiled for this call.
	res *resources

	// documents maps fragmentless URIs to the roots of fetched
	// external documents.
	documents map[string]*Schema

	dialects map[string]*dialect

	// pending are the reference keywords awaiting resolution.
	// Resolving one may fetch and compile a document that appends
	// more.
	pending []resolvable
}

// resolvable is a compiled keyword with a deferred reference.
type resolvable interface {
	resolve(c *compiler) error
}

// dialectFor returns the keyword table for a meta-schema URI.
// Custom meta-schemas are fetched and their $vocabulary declaration
// is mapped onto the known vocabularies; a required vocabulary this
// module does not implement is an error, an optional one is
// ignored.
func (c *compiler) dialectFor(metaURI string) (*dialect, error) {
	if d, ok := c.dialects[metaURI]; ok {
		return d, nil
	}

	var (
		d   *dialect
		err error
	)
	switch metaURI {
	case DraftID:
		d, err = buildDialect(metaURI, draftVocabularyOrder, c.cfg)
	case OASDialectID:
		d, err = buildDialect(metaURI, oasVocabularyOrder, c.cfg)
	default:
		var uris []string
		uris, err = c.vocabulariesOf(metaURI)
		if err == nil {
			d, err = buildDialect(metaURI, uris, c.cfg)
		}
	}
	if err != nil {
		return nil, err
	}
	c.dialects[metaURI] = d
	return d, nil
}

// vocabulariesOf reads the $vocabulary declaration of a custom
// meta-schema document.
func (c *compiler) vocabulariesOf(metaURI string) ([]string, error) {
	u, err := url.Parse(metaURI)
	if err != nil {
		return nil, fmt.Errorf("%w: meta-schema URI %q: %v", ErrSchema, metaURI, err)
	}
	doc, err := c.fetchDocumentValue(fragmentless(u))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: meta-schema %q", ErrInvalidRefResolution, metaURI)
	}

	decl, ok := doc.Get("$vocabulary")
	if !ok {
		// No declaration: the full draft keyword set applies.
		return draftVocabularyOrder, nil
	}
	var uris []string
	for _, mem := range decl.Members() {
		required := mem.Value.Bool()
		if _, known := knownVocabularies()[mem.Key]; !known {
			if required {
				return nil, fmt.Errorf("%w: %s", ErrUnknownVocabulary, mem.Key)
			}
			continue
		}
		uris = append(uris, mem.Key)
	}
	return uris, nil
}

// fetchDocumentValue loads the raw document for a fragmentless URI
// through the configured resolver, falling back to the embedded
// meta-schema registry.
func (c *compiler) fetchDocumentValue(u *url.URL) (*jsonvalue.Value, error) {
	if c.cfg.refResolver != nil {
		doc, err := c.cfg.refResolver(u)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc, nil
		}
	}
	if data, ok := metaschema.Lookup(u.String()); ok {
		return jsonvalue.Decode(data)
	}
	return nil, nil
}

// compileDocument compiles one schema document: the primary schema
// of a Compile call, or an external document fetched for a
// reference. The document's identities are registered into the
// shared tables.
func (c *compiler) compileDocument(v *jsonvalue.Value, base *url.URL, defaultMeta string) (*Schema, error) {
	metaURI := defaultMeta
	if metaURI == "" {
		metaURI = DraftID
	}
	if decl, ok := v.Get("$schema"); ok {
		if decl.Kind() != jsonvalue.String {
			return nil, fmt.Errorf("%w: $schema is %s, want string", ErrSchema, decl.Kind())
		}
		metaURI = decl.Str()
	}

	if base == nil {
		base, _ = url.Parse(defaultBaseURI)
	}
	base = fragmentless(base)

	root, err := c.compileValue(v, nil, "", nil, base, metaURI)
	if err != nil {
		return nil, err
	}

	// A root without an $id is registered under its synthetic or
	// caller-supplied base URI.
	if _, registered := c.res.lexical[uriKey(root.baseURI)]; !registered {
		c.res.lexical[uriKey(root.baseURI)] = root
	}
	return root, nil
}

// compileValue compiles a schema value at a position. The identity
// keywords are parsed in a fixed sequence ($schema, then $id, then
// the anchors) before the remaining keywords are compiled in
// vocabulary order.
func (c *compiler) compileValue(v *jsonvalue.Value, parent *Schema, keywordName string, ptr jsonpointer.Pointer, base *url.URL, metaURI string) (*Schema, error) {
	s := &Schema{
		value:         v,
		baseURI:       base,
		metaSchemaURI: metaURI,
		parent:        parent,
		keywordName:   keywordName,
		ptr:           ptr,
		cfg:           c.cfg,
		res:           c.res,
	}
	if parent == nil {
		s.root = s
		s.resourceRoot = s
	} else {
		s.root = parent.root
		s.resourceRoot = parent.resourceRoot
	}

	switch v.Kind() {
	case jsonvalue.Bool:
		d, err := c.dialectFor(metaURI)
		if err != nil {
			return nil, err
		}
		s.dialect = d
		return s, nil
	case jsonvalue.Object:
		// Compiled below.
	default:
		return nil, fmt.Errorf("%w: schema at %q is %s, want object or boolean", ErrSchema, ptr.String(), v.Kind())
	}

	// An embedded resource may switch dialects with its own
	// $schema; the document-level declaration was handled by
	// compileDocument, so only honor it here together with $id.
	if decl, ok := v.Get("$schema"); ok && parent != nil && v.Has("$id") {
		if decl.Kind() != jsonvalue.String {
			return nil, fmt.Errorf("%w: $schema is %s, want string", ErrSchema, decl.Kind())
		}
		metaURI = decl.Str()
		s.metaSchemaURI = metaURI
	}
	d, err := c.dialectFor(metaURI)
	if err != nil {
		return nil, err
	}
	s.dialect = d

	if err := c.registerIdentities(s, v); err != nil {
		return nil, err
	}

	// Compile the remaining keywords in vocabulary order; unknown
	// keywords keep their document order at the end.
	type pending struct {
		name  string
		value *jsonvalue.Value
		order int
	}
	var kws []pending
	unknownBase := len(d.order)
	for i, mem := range v.Members() {
		order, known := d.order[mem.Key]
		if !known {
			order = unknownBase + i
		}
		kws = append(kws, pending{mem.Key, mem.Value, order})
	}
	sort.SliceStable(kws, func(i, j int) bool { return kws[i].order < kws[j].order })

	for _, kw := range kws {
		compile := d.compilers[kw.name]
		if compile == nil {
			compile = compileUnknown
		}
		k, err := compile(c, s, kw.name, kw.value)
		if err != nil {
			return nil, err
		}
		if k != nil {
			s.keywords = append(s.keywords, k)
		}
	}
	return s, nil
}

// registerIdentities parses $id, $anchor and $dynamicAnchor,
// updating the node's base URI and the shared identity tables.
func (c *compiler) registerIdentities(s *Schema, v *jsonvalue.Value) error {
	if id, ok := v.Get("$id"); ok {
		if id.Kind() != jsonvalue.String {
			return fmt.Errorf("%w: $id is %s, want string", ErrSchema, id.Kind())
		}
		u, err := resolveURI(s.baseURI, id.Str())
		if err != nil {
			return err
		}
		s.baseURI = fragmentless(u)
		s.resourceRoot = s
		c.res.lexical[uriKey(s.baseURI)] = s
	}

	if anchor, ok := v.Get("$anchor"); ok {
		if anchor.Kind() != jsonvalue.String {
			return fmt.Errorf("%w: $anchor is %s, want string", ErrSchema, anchor.Kind())
		}
		c.res.lexical[uriKey(withFragment(s.baseURI, anchor.Str()))] = s
	}

	if anchor, ok := v.Get("$dynamicAnchor"); ok {
		if anchor.Kind() != jsonvalue.String {
			return fmt.Errorf("%w: $dynamicAnchor is %s, want string", ErrSchema, anchor.Kind())
		}
		s.dynamicAnchor = anchor.Str()
		key := uriKey(withFragment(s.baseURI, anchor.Str()))
		c.res.dynamic[key] = s
		// A dynamic anchor is also a plain anchor for non-dynamic
		// lookup.
		if _, taken := c.res.lexical[key]; !taken {
			c.res.lexical[key] = s
		}
	}
	return nil
}

// sub compiles a subschema one or more tokens below s.
func (c *compiler) sub(s *Schema, keywordName string, v *jsonvalue.Value, toks ...string) (*Schema, error) {
	ptr := s.ptr
	for _, t := range toks {
		ptr = ptr.Child(t)
	}
	return c.compileValue(v, s, keywordName, ptr, s.baseURI, s.metaSchemaURI)
}

// resolvePending drains the reference resolution queue. Resolving a
// reference may fetch and compile an external document, which
// enqueues that document's own references.
func (c *compiler) resolvePending() error {
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		if err := next.resolve(c); err != nil {
			return err
		}
	}
	return nil
}
