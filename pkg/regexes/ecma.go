// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regexes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEcmaRegexp is returned for patterns that are not valid
// ECMA-262 regular expressions.
var ErrInvalidEcmaRegexp = errors.New("invalid ECMA-262 regexp")

// ECMA character classes for the shorthand escapes. ECMA \d and \w
// are ASCII-only, unlike the host engine's Unicode-aware defaults,
// and ECMA \s covers the Unicode whitespace list below.
const (
	ecmaDigit = "0-9"
	ecmaWord  = "A-Za-z0-9_"
	ecmaSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`
)

// unicodePropertyNames maps normalized ECMA long property names to
// the short general-category form the host engine expects.
var unicodePropertyNames = map[string]string{
	"letter":                "L",
	"cased_letter":          "L",
	"uppercase_letter":      "Lu",
	"lowercase_letter":      "Ll",
	"titlecase_letter":      "Lt",
	"modifier_letter":       "Lm",
	"other_letter":          "Lo",
	"mark":                  "M",
	"nonspacing_mark":       "Mn",
	"spacing_mark":          "Mc",
	"enclosing_mark":        "Me",
	"number":                "N",
	"digit":                 "Nd",
	"decimal_number":        "Nd",
	"letter_number":         "Nl",
	"other_number":          "No",
	"punctuation":           "P",
	"connector_punctuation": "Pc",
	"dash_punctuation":      "Pd",
	"open_punctuation":      "Ps",
	"close_punctuation":     "Pe",
	"initial_punctuation":   "Pi",
	"final_punctuation":     "Pf",
	"other_punctuation":     "Po",
	"symbol":                "S",
	"math_symbol":           "Sm",
	"currency_symbol":       "Sc",
	"modifier_symbol":       "Sk",
	"other_symbol":          "So",
	"separator":             "Z",
	"space_separator":       "Zs",
	"line_separator":        "Zl",
	"paragraph_separator":   "Zp",
	"other":                 "C",
	"control":               "Cc",
	"format":                "Cf",
	"surrogate":             "Cs",
	"private_use":           "Co",
	"unassigned":            "Cn",
}

// invalidEcmaEscapes are escape letters that ECMA-262 does not
// define. A pattern containing one is rejected rather than silently
// reinterpreted by the host engine.
var invalidEcmaEscapes = map[byte]bool{
	'a': true, 'e': true, 'g': true, 'h': true, 'l': true, 'y': true, 'z': true,
	'A': true, 'C': true, 'E': true, 'F': true, 'G': true, 'H': true,
	'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'Q': true, 'R': true, 'T': true, 'U': true, 'V': true,
	'X': true, 'Y': true, 'Z': true,
}

// TranslateEcma rewrites an ECMA-262 pattern into the host dialect.
// It returns an error wrapping [ErrInvalidEcmaRegexp] for constructs
// that are not ECMA-valid, such as the \a escape.
func TranslateEcma(pattern string) (string, error) {
	var sb strings.Builder
	inClass := false

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\':
			if i+1 >= len(pattern) {
				return "", fmt.Errorf("%w: trailing backslash in %q", ErrInvalidEcmaRegexp, pattern)
			}
			i++
			esc := pattern[i]
			switch {
			case invalidEcmaEscapes[esc]:
				return "", fmt.Errorf("%w: escape \\%c in %q", ErrInvalidEcmaRegexp, esc, pattern)
			case esc == 'c':
				// \cX control escape: ECMA is case-insensitive,
				// the host engine wants none, so emit the code point.
				if i+1 >= len(pattern) || !isASCIILetter(pattern[i+1]) {
					return "", fmt.Errorf("%w: bad control escape in %q", ErrInvalidEcmaRegexp, pattern)
				}
				i++
				upper := pattern[i] &^ 0x20
				fmt.Fprintf(&sb, `\x{%02x}`, upper-'A'+1)
			case !inClass && esc == 'd':
				sb.WriteString("[" + ecmaDigit + "]")
			case !inClass && esc == 'D':
				sb.WriteString("[^" + ecmaDigit + "]")
			case !inClass && esc == 'w':
				sb.WriteString("[" + ecmaWord + "]")
			case !inClass && esc == 'W':
				sb.WriteString("[^" + ecmaWord + "]")
			case !inClass && esc == 's':
				sb.WriteString("[" + ecmaSpace + "]")
			case !inClass && esc == 'S':
				sb.WriteString("[^" + ecmaSpace + "]")
			case esc == 'p' || esc == 'P':
				prop, n, err := translateProperty(pattern[i+1:])
				if err != nil {
					return "", fmt.Errorf("%w: %v in %q", ErrInvalidEcmaRegexp, err, pattern)
				}
				sb.WriteByte('\\')
				sb.WriteByte(esc)
				sb.WriteString(prop)
				i += n
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
		case c == '[' && !inClass:
			inClass = true
			sb.WriteByte(c)
		case c == ']' && inClass:
			inClass = false
			sb.WriteByte(c)
		case c == '$' && !inClass:
			// ECMA $ without the m flag anchors at the very end of
			// the string, with no newline tolerance.
			sb.WriteString(`\z`)
		default:
			sb.WriteByte(c)
		}
	}

	if inClass {
		return "", fmt.Errorf("%w: unterminated character class in %q", ErrInvalidEcmaRegexp, pattern)
	}
	return sb.String(), nil
}

// translateProperty rewrites the braced name of a \p{...} escape.
// It returns the replacement including braces and the number of
// input bytes consumed after the 'p'.
func translateProperty(rest string) (string, int, error) {
	if len(rest) == 0 || rest[0] != '{' {
		return "", 0, errors.New("property escape without braces")
	}
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return "", 0, errors.New("unterminated property escape")
	}
	name := rest[1:end]

	normalized := strings.ToLower(name)
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if short, ok := unicodePropertyNames[normalized]; ok {
		name = short
	}
	return "{" + name + "}", end + 1, nil
}

// isASCIILetter reports whether c is an ASCII letter.
func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ValidateEcma reports whether pattern is a valid ECMA-262 regexp
// that the translated host engine can compile. This backs the
// "regex" format.
func ValidateEcma(pattern string) error {
	_, err := Ecma(pattern)
	return err
}
