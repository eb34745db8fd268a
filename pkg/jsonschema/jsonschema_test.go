// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

func TestNew(t *testing.T) {
	s, err := New([]byte(`{"type":"string"}`))
	require.NoError(t, err)
	assert.True(t, s.Valid(jsonvalue.NewString("x")))
	assert.False(t, s.Valid(jsonvalue.NewInt(1)))

	_, err = New([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestNewFromValue(t *testing.T) {
	v, err := jsonvalue.Decode([]byte(`{"minimum":3}`))
	require.NoError(t, err)
	s, err := NewFromValue(v)
	require.NoError(t, err)
	assert.True(t, s.Valid(jsonvalue.NewInt(5)))
	assert.False(t, s.Valid(jsonvalue.NewInt(1)))
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"type":"integer"}`), 0o644))

	main := filepath.Join(dir, "main.json")
	require.NoError(t, os.WriteFile(main, []byte(`{"$ref":"other.json"}`), 0o644))

	s, err := NewFromFile(main)
	require.NoError(t, err)
	assert.True(t, s.Valid(jsonvalue.NewInt(1)))
	assert.False(t, s.Valid(jsonvalue.NewString("x")))

	_, err = NewFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
