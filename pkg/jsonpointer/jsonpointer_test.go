// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonpointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

func TestEscapeRoundTrip(t *testing.T) {
	for _, tok := range []string{"a/b", "m~n", "~1", "a~1b", "plain", ""} {
		assert.Equal(t, tok, UnescapeToken(EscapeToken(tok)), "token %q", tok)
	}
	assert.Equal(t, "~0", EscapeToken("~"))
	assert.Equal(t, "~1", EscapeToken("/"))
}

func TestParseAndString(t *testing.T) {
	p, err := Parse("/a~1b/c~0d/0")
	require.NoError(t, err)
	assert.Equal(t, Pointer{"a/b", "c~d", "0"}, p)
	assert.Equal(t, "/a~1b/c~0d/0", p.String())

	empty, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, "", empty.String())

	_, err = Parse("missing-slash")
	assert.ErrorIs(t, err, ErrInvalidPointer)
}

func TestEval(t *testing.T) {
	doc, err := jsonvalue.Decode([]byte(`{"a": {"b": [10, 20]}, "x/y": 1}`))
	require.NoError(t, err)

	eval := func(s string) (*jsonvalue.Value, error) {
		p, err := Parse(s)
		require.NoError(t, err)
		return p.Eval(doc)
	}

	v, err := eval("/a/b/1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.Int64())

	v, err = eval("/x~1y")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())

	v, err = eval("")
	require.NoError(t, err)
	assert.Equal(t, doc, v)

	for _, bad := range []string{"/missing", "/a/b/2", "/a/b/01", "/a/b/x", "/a/b/0/deep"} {
		_, err := eval(bad)
		assert.ErrorIs(t, err, ErrInvalidPointer, "pointer %q", bad)
	}
}
