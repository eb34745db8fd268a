// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"sync"

	"github.com/altshiftab/schemer/internal/metaschema"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// metaMu guards the compiled meta-schema cache. Meta-schemas are
// self-hosted: the engine validates user schemas by running itself
// on the embedded draft documents.
var (
	metaMu       sync.Mutex
	metaCompiled = make(map[string]*Schema)
)

// compiledMetaSchema compiles (and caches) the meta-schema named by
// a URI from the embedded registry.
func compiledMetaSchema(uri string) (*Schema, error) {
	metaMu.Lock()
	defer metaMu.Unlock()
	if s, ok := metaCompiled[uri]; ok {
		return s, nil
	}
	data, ok := metaschema.Lookup(uri)
	if !ok {
		return nil, fmt.Errorf("%w: no meta-schema for %q", ErrInvalidRefResolution, uri)
	}
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, err
	}
	s, err := Compile(v, WithBaseURI(uri))
	if err != nil {
		return nil, err
	}
	metaCompiled[uri] = s
	return s, nil
}

// ValidateSchema validates a schema value against its declared
// meta-schema (the draft meta-schema when it declares none) and
// returns a classic report.
func ValidateSchema(v *jsonvalue.Value) (*ClassicResult, error) {
	uri := DraftID
	if decl, ok := v.Get("$schema"); ok && decl.Kind() == jsonvalue.String {
		uri = decl.Str()
	}
	meta, err := compiledMetaSchema(uri)
	if err != nil {
		return nil, err
	}
	return meta.Validate(v), nil
}

// ValidSchema reports whether v is a well-formed schema.
func ValidSchema(v *jsonvalue.Value) bool {
	r, err := ValidateSchema(v)
	return err == nil && r.Valid
}

// MetaSchema returns the compiled meta-schema governing s.
// The meta-schema URI is kept as a string until first use.
func (s *Schema) MetaSchema() (*Schema, error) {
	s.metaOnce.Do(func() {
		s.meta, s.metaErr = compiledMetaSchema(s.metaSchemaURI)
	})
	return s.meta, s.metaErr
}

// ValidateSelf validates the schema's own value against its
// meta-schema. The meta-schema checks the shape of each keyword; it
// does not detect an anchor declared twice in one resource, and the
// compiler does not reject that either: a repeated $anchor resolves
// to its last declaration.
func (s *Schema) ValidateSelf() (*ClassicResult, error) {
	meta, err := s.MetaSchema()
	if err != nil {
		return nil, err
	}
	return meta.Validate(s.value), nil
}
