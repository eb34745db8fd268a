// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonpointer implements RFC 6901 JSON pointers over the
// jsonvalue model. This is not a fully general package.
package jsonpointer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// ErrInvalidPointer is returned when a pointer cannot be parsed or
// does not designate a location in the document it is applied to.
var ErrInvalidPointer = errors.New("invalid JSON pointer")

// Pointer is a parsed JSON pointer: an ordered sequence of reference
// tokens. The empty pointer designates the document root.
type Pointer []string

// Parse parses the string form of a pointer.
// The empty string is the root pointer; any other pointer must
// start with '/'.
func Parse(s string) (Pointer, error) {
	if s == "" {
		return nil, nil
	}
	if s[0] != '/' {
		return nil, fmt.Errorf("%w: %q does not start with '/'", ErrInvalidPointer, s)
	}
	raw := strings.Split(s[1:], "/")
	toks := make(Pointer, len(raw))
	for i, t := range raw {
		toks[i] = UnescapeToken(t)
	}
	return toks, nil
}

// String returns the string form of the pointer,
// escaping tokens per RFC 6901.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tok := range p {
		sb.WriteByte('/')
		sb.WriteString(EscapeToken(tok))
	}
	return sb.String()
}

// Child returns a pointer extended with one more token.
func (p Pointer) Child(tok string) Pointer {
	child := make(Pointer, len(p)+1)
	copy(child, p)
	child[len(p)] = tok
	return child
}

// EscapeToken escapes a reference token: '~' becomes "~0" and
// '/' becomes "~1".
func EscapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

// UnescapeToken reverses [EscapeToken]. "~1" is replaced before
// "~0", the reverse of the escaping order, so that "~01" becomes
// "~1" and not "/".
func UnescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}

// Eval applies the pointer to a value and returns the value it
// designates. It fails with an error wrapping [ErrInvalidPointer]
// on a missing object key, a malformed array index, or an index
// out of range.
func (p Pointer) Eval(v *jsonvalue.Value) (*jsonvalue.Value, error) {
	cur := v
	for i, tok := range p {
		switch cur.Kind() {
		case jsonvalue.Object:
			next, ok := cur.Get(tok)
			if !ok {
				return nil, fmt.Errorf("%w: no member %q at %q", ErrInvalidPointer, tok, p[:i].String())
			}
			cur = next
		case jsonvalue.Array:
			idx, err := parseIndex(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: bad array index %q at %q", ErrInvalidPointer, tok, p[:i].String())
			}
			if idx >= cur.Len() {
				return nil, fmt.Errorf("%w: index %d out of range (length %d) at %q", ErrInvalidPointer, idx, cur.Len(), p[:i].String())
			}
			cur = cur.Index(idx)
		default:
			return nil, fmt.Errorf("%w: cannot descend into %s at %q", ErrInvalidPointer, cur.Kind(), p[:i].String())
		}
	}
	return cur, nil
}

// parseIndex parses an array index token. Leading zeros are not
// allowed except for "0" itself, per RFC 6901.
func parseIndex(tok string) (int, error) {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, fmt.Errorf("bad index %q", tok)
	}
	idx, err := strconv.Atoi(tok)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("bad index %q", tok)
	}
	return idx, nil
}
