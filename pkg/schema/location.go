// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"

	"github.com/altshiftab/schemer/pkg/jsonpointer"
)

// Location is an append-only node in a pointer path. Instance and
// keyword locations use the same representation. Locations form a
// parent-linked tree; the string form is built on demand and cached.
type Location struct {
	parent *Location
	token  string
	str    string
	done   bool
}

// rootLocation is the shared root; it resolves to the empty string.
var rootLocation = &Location{done: true}

// child returns the location one token below l.
func (l *Location) child(token string) *Location {
	return &Location{parent: l, token: token}
}

// String resolves the location to its JSON pointer string.
func (l *Location) String() string {
	if l.done {
		return l.str
	}
	var toks []string
	for n := l; n != nil && !n.done; n = n.parent {
		toks = append(toks, n.token)
	}
	var sb strings.Builder
	if l.root().str != "" {
		sb.WriteString(l.root().str)
	}
	for i := len(toks) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(jsonpointer.EscapeToken(toks[i]))
	}
	l.str = sb.String()
	l.done = true
	return l.str
}

// root returns the resolved ancestor the path hangs off.
func (l *Location) root() *Location {
	n := l
	for !n.done {
		n = n.parent
	}
	return n
}
