// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regexes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateEcmaShorthand(t *testing.T) {
	got, err := TranslateEcma(`\d+`)
	require.NoError(t, err)
	assert.Equal(t, `[0-9]+`, got)

	got, err = TranslateEcma(`\w\W`)
	require.NoError(t, err)
	assert.Equal(t, `[A-Za-z0-9_][^A-Za-z0-9_]`, got)

	// Inside a character class the escapes stay as written.
	got, err = TranslateEcma(`[\d]`)
	require.NoError(t, err)
	assert.Equal(t, `[\d]`, got)
}

func TestTranslateEcmaDollar(t *testing.T) {
	got, err := TranslateEcma(`^ab$`)
	require.NoError(t, err)
	assert.Equal(t, `^ab\z`, got)

	// Escaped and in-class dollars are literal.
	got, err = TranslateEcma(`\$[$]`)
	require.NoError(t, err)
	assert.Equal(t, `\$[$]`, got)

	re, err := Ecma(`^a$`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("a"))
	assert.False(t, re.MatchString("a\n"))
}

func TestTranslateEcmaProperties(t *testing.T) {
	got, err := TranslateEcma(`\p{Letter}`)
	require.NoError(t, err)
	assert.Equal(t, `\p{L}`, got)

	got, err = TranslateEcma(`\p{lowercase-letter}`)
	require.NoError(t, err)
	assert.Equal(t, `\p{Ll}`, got)

	got, err = TranslateEcma(`\P{digit}`)
	require.NoError(t, err)
	assert.Equal(t, `\P{Nd}`, got)

	// Short names pass through.
	got, err = TranslateEcma(`\p{Lu}`)
	require.NoError(t, err)
	assert.Equal(t, `\p{Lu}`, got)
}

func TestTranslateEcmaControl(t *testing.T) {
	got, err := TranslateEcma(`\ca`)
	require.NoError(t, err)
	assert.Equal(t, `\x{01}`, got)

	got, err = TranslateEcma(`\cJ`)
	require.NoError(t, err)
	assert.Equal(t, `\x{0a}`, got)
}

func TestTranslateEcmaInvalid(t *testing.T) {
	for _, pattern := range []string{`\a`, `\A`, `\Z`, `ab\`, `[unterminated`} {
		_, err := TranslateEcma(pattern)
		assert.ErrorIs(t, err, ErrInvalidEcmaRegexp, "pattern %q", pattern)
	}
}

func TestEcmaSpace(t *testing.T) {
	re, err := Ecma(`^\s$`)
	require.NoError(t, err)
	assert.True(t, re.MatchString(" "))
	assert.True(t, re.MatchString("\u00a0"))
	assert.True(t, re.MatchString("\u3000"))
	assert.False(t, re.MatchString("x"))
}

func TestCached(t *testing.T) {
	calls := 0
	r := Cached(func(pattern string) (Regexp, error) {
		calls++
		return Native(pattern)
	})
	for i := 0; i < 3; i++ {
		re, err := r(`ab+`)
		require.NoError(t, err)
		assert.True(t, re.MatchString("xabbx"))
	}
	assert.Equal(t, 1, calls)
}

func TestNativeUnanchored(t *testing.T) {
	re, err := Native(`b+`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("abc"))
}
