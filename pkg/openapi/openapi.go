// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package openapi wraps a parsed OpenAPI 3.1 document: it validates
// the document against the OpenAPI meta-schema and exposes the
// component schemas as compiled validators using the document's
// schema dialect.
package openapi

import (
	"errors"
	"fmt"
	"sync"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/altshiftab/schemer/internal/metaschema"
	"github.com/altshiftab/schemer/pkg/jsonvalue"
	"github.com/altshiftab/schemer/pkg/schema"
)

// ErrUnsupportedVersion reports an openapi field naming a version
// other than 3.1.x.
var ErrUnsupportedVersion = errors.New("unsupported OpenAPI version")

// Document is a parsed OpenAPI 3.1 document.
type Document struct {
	value   *jsonvalue.Value
	dialect string
	opts    []schema.Option

	mu      sync.Mutex
	schemas map[string]*schema.Schema
}

// New wraps an already-parsed document value.
func New(v *jsonvalue.Value, opts ...schema.Option) (*Document, error) {
	version, ok := v.Get("openapi")
	if !ok || version.Kind() != jsonvalue.String {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("%w: missing openapi version", ErrUnsupportedVersion))
	}
	if !isSupportedVersion(version.Str()) {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("%w: %q", ErrUnsupportedVersion, version.Str()))
	}

	dialect := metaschema.OASDialectID
	if d, ok := v.Get("jsonSchemaDialect"); ok && d.Kind() == jsonvalue.String {
		dialect = d.Str()
	}

	return &Document{
		value:   v,
		dialect: dialect,
		opts:    opts,
		schemas: make(map[string]*schema.Schema),
	}, nil
}

// ParseJSON parses and wraps a JSON document.
func ParseJSON(data []byte, opts ...schema.Option) (*Document, error) {
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("json decode: %w", err))
	}
	return New(v, opts...)
}

// ParseYAML parses and wraps a YAML document.
func ParseYAML(data []byte, opts ...schema.Option) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("yaml unmarshal: %w", err))
	}
	v, err := jsonvalue.From(normalizeYAML(raw))
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("yaml convert: %w", err))
	}
	return New(v, opts...)
}

// isSupportedVersion reports whether the version is 3.1.x.
func isSupportedVersion(v string) bool {
	if len(v) < 4 || v[:4] != "3.1." {
		return false
	}
	for i := 4; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return i > 4 && v[i] == '-'
		}
	}
	return len(v) > 4
}

// normalizeYAML rewrites the map types yaml.v3 produces into the
// JSON-compatible shapes jsonvalue.From accepts.
func normalizeYAML(x any) any {
	switch t := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case []any:
		for i, v := range t {
			t[i] = normalizeYAML(v)
		}
		return t
	default:
		return t
	}
}

// Value returns the wrapped document value.
func (d *Document) Value() *jsonvalue.Value { return d.value }

// documentSchema compiles the OpenAPI 3.1 document schema once.
var documentSchema = sync.OnceValues(func() (*schema.Schema, error) {
	data, ok := metaschema.Lookup(metaschema.OASSchemaID)
	if !ok {
		return nil, errors.New("openapi: embedded document schema missing")
	}
	return schema.CompileBytes(data, schema.WithBaseURI(metaschema.OASSchemaID))
})

// Validate validates the document against the OpenAPI 3.1 document
// schema and returns the classic report.
func (d *Document) Validate() (*schema.ClassicResult, error) {
	s, err := documentSchema()
	if err != nil {
		return nil, motmedelErrors.New(err)
	}
	return s.Validate(d.value), nil
}

// Valid reports whether the document is a valid OpenAPI 3.1
// document.
func (d *Document) Valid() bool {
	r, err := d.Validate()
	return err == nil && r.Valid
}

// Schema returns the compiled schema at
// #/components/schemas/{name}, using the document's dialect.
// Compiled schemas are cached per document.
func (d *Document) Schema(name string) (*schema.Schema, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.schemas[name]; ok {
		return s, nil
	}

	opts := append([]schema.Option{schema.WithMetaSchema(d.dialect)}, d.opts...)
	s, err := schema.CompileAt(d.value, "/components/schemas/"+name, opts...)
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("component schema %q: %w", name, err))
	}
	d.schemas[name] = s
	return s, nil
}
