// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKinds(t *testing.T) {
	v, err := Decode([]byte(`{"a": 1, "b": 1.5, "c": "x", "d": [true, null], "e": 1.0}`))
	require.NoError(t, err)
	require.Equal(t, Object, v.Kind())

	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int, a.Kind())
	assert.Equal(t, int64(1), a.Int64())

	b, _ := v.Get("b")
	assert.Equal(t, Float, b.Kind())
	assert.Equal(t, 1.5, b.Float64())

	c, _ := v.Get("c")
	assert.Equal(t, String, c.Kind())
	assert.Equal(t, "x", c.Str())

	d, _ := v.Get("d")
	require.Equal(t, Array, d.Kind())
	require.Equal(t, 2, d.Len())
	assert.Equal(t, Bool, d.Index(0).Kind())
	assert.True(t, d.Index(1).IsNull())

	// A literal with a fraction stays a float, even when integral.
	e, _ := v.Get("e")
	assert.Equal(t, Float, e.Kind())
	assert.True(t, e.IsIntegral())
}

func TestDecodePreservesMemberOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, v.Keys())
}

func TestDecodeTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{} garbage`))
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	mustDecode := func(s string) *Value {
		v, err := Decode([]byte(s))
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		a, b string
		want bool
	}{
		{`1`, `1.0`, true},
		{`1`, `2`, false},
		{`{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{`[1, 2]`, `[2, 1]`, false},
		{`{"a": [1, {"b": null}]}`, `{"a": [1, {"b": null}]}`, true},
		{`"1"`, `1`, false},
		{`null`, `null`, true},
		{`true`, `false`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Equal(mustDecode(tt.a), mustDecode(tt.b)), "%s == %s", tt.a, tt.b)
	}
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, NewInt(3).IsIntegral())
	assert.True(t, NewFloat(1.0).IsIntegral())
	assert.False(t, NewFloat(1.5).IsIntegral())
	assert.False(t, NewString("1").IsIntegral())
}

func TestMarshalRoundTrip(t *testing.T) {
	in := `{"z":1,"a":[1.5,"x",null],"nested":{"k":true}}`
	v, err := Decode([]byte(in))
	require.NoError(t, err)
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestFrom(t *testing.T) {
	v, err := From(map[string]any{"b": 1, "a": []any{"x", 2.5}})
	require.NoError(t, err)
	// Map keys are sorted for determinism.
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	b, _ := v.Get("b")
	assert.Equal(t, Int, b.Kind())
}
