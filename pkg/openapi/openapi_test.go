// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

const petDocument = `{
	"openapi": "3.1.0",
	"info": {"title": "Pets", "version": "1.0.0"},
	"components": {
		"schemas": {
			"Pet": {
				"type": "object",
				"required": ["petType"],
				"properties": {"petType": {"type": "string"}},
				"discriminator": {
					"propertyName": "petType",
					"mapping": {"cat": "#/components/schemas/Cat"}
				}
			},
			"Cat": {
				"allOf": [{"$ref": "#/components/schemas/Pet"}],
				"type": "object",
				"required": ["meow"],
				"properties": {"meow": {"type": "boolean"}}
			},
			"Dog": {
				"allOf": [{"$ref": "#/components/schemas/Pet"}],
				"type": "object",
				"required": ["bark"],
				"properties": {"bark": {"type": "boolean"}}
			}
		}
	}
}`

func instance(t *testing.T, src string) *jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Decode([]byte(src))
	require.NoError(t, err)
	return v
}

func TestVersionCheck(t *testing.T) {
	_, err := ParseJSON([]byte(`{"openapi":"3.0.3","info":{"title":"x","version":"1"},"paths":{}}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = ParseJSON([]byte(`{"info":{"title":"x","version":"1"}}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	d, err := ParseJSON([]byte(petDocument))
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.Object, d.Value().Kind())
}

func TestDocumentValidate(t *testing.T) {
	d, err := ParseJSON([]byte(petDocument))
	require.NoError(t, err)
	r, err := d.Validate()
	require.NoError(t, err)
	assert.True(t, r.Valid, "document should validate: %+v", r.Errors)
	assert.True(t, d.Valid())

	// A document with none of paths, components or webhooks is
	// rejected by the document schema.
	bare, err := ParseJSON([]byte(`{"openapi":"3.1.0","info":{"title":"x","version":"1"}}`))
	require.NoError(t, err)
	assert.False(t, bare.Valid())
}

func TestComponentSchema(t *testing.T) {
	d, err := ParseJSON([]byte(petDocument))
	require.NoError(t, err)

	pet, err := d.Schema("Pet")
	require.NoError(t, err)

	assert.True(t, pet.Valid(instance(t, `{"petType":"cat","meow":true}`)))
	assert.False(t, pet.Valid(instance(t, `{"petType":"cat"}`)))
	// Without a mapping entry, the discriminator value selects the
	// component schema by name.
	assert.True(t, pet.Valid(instance(t, `{"petType":"Dog","bark":true}`)))
	assert.False(t, pet.Valid(instance(t, `{"petType":"fish"}`)))
	assert.False(t, pet.Valid(instance(t, `{}`)))

	// Cached per document.
	again, err := d.Schema("Pet")
	require.NoError(t, err)
	assert.Same(t, pet, again)

	_, err = d.Schema("Missing")
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
openapi: "3.1.0"
info:
  title: Pets
  version: "1.0.0"
components:
  schemas:
    Name:
      type: string
      minLength: 1
`)
	d, err := ParseYAML(doc)
	require.NoError(t, err)

	name, err := d.Schema("Name")
	require.NoError(t, err)
	assert.True(t, name.Valid(instance(t, `"rex"`)))
	assert.False(t, name.Valid(instance(t, `""`)))
	assert.False(t, name.Valid(instance(t, `3`)))
}
