// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonschema is the public entry point for compiling
// schemas. It accepts a JSON string, an in-memory value, or a
// filesystem path; a path turns on the file resolver and sets the
// file: URI of the document as its base.
package jsonschema

import (
	"fmt"
	"os"
	"path/filepath"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
	"github.com/altshiftab/schemer/pkg/schema"
)

// Schema is a compiled schema.
type Schema = schema.Schema

// Option adjusts compilation; see the schema package.
type Option = schema.Option

// New compiles a schema from its JSON encoding.
func New(data []byte, opts ...Option) (*Schema, error) {
	s, err := schema.CompileBytes(data, opts...)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compile: %w", err))
	}
	return s, nil
}

// NewFromValue compiles a schema from an already-parsed value.
func NewFromValue(v *jsonvalue.Value, opts ...Option) (*Schema, error) {
	s, err := schema.Compile(v, opts...)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compile: %w", err))
	}
	return s, nil
}

// NewFromFile compiles a schema read from a filesystem path. The
// document's base URI becomes its file: URI and relative references
// resolve through the file resolver.
func NewFromFile(path string, opts ...Option) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("read schema: %w", err))
	}
	abs := path
	if a, err := filepath.Abs(path); err == nil {
		abs = a
	}
	all := append([]Option{
		schema.WithBaseURI(schema.FileURI(abs).String()),
		schema.WithRefResolverName("file"),
	}, opts...)
	s, err := schema.CompileBytes(data, all...)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("compile %s: %w", path, err))
	}
	return s, nil
}
