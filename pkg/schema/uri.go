// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"net/url"
	"strings"
)

// resolveURI resolves a reference against a base URI per RFC 3986.
// A fragment-only reference applied to an opaque base (such as a urn:
// URI) yields the base with its fragment replaced, which the standard
// reference transformation also produces for hierarchical bases.
func resolveURI(base *url.URL, ref string) (*url.URL, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing reference %q: %v", ErrSchema, ref, err)
	}
	if base == nil {
		return refURL, nil
	}
	if refURL.Scheme == "" && refURL.Host == "" && refURL.Path == "" && refURL.RawQuery == "" && base.Opaque != "" {
		// Fragment-only reference against an opaque base.
		u := *base
		u.Fragment = refURL.Fragment
		u.RawFragment = refURL.RawFragment
		return &u, nil
	}
	return base.ResolveReference(refURL), nil
}

// fragmentless returns a copy of u with the fragment removed.
func fragmentless(u *url.URL) *url.URL {
	if u.Fragment == "" && u.RawFragment == "" {
		return u
	}
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return &c
}

// withFragment returns a copy of u carrying the given fragment.
func withFragment(u *url.URL, frag string) *url.URL {
	c := *u
	c.Fragment = frag
	c.RawFragment = ""
	return &c
}

// uriKey returns the canonical string form of a URI used as a
// resource table key. A lone trailing "#" is not significant.
func uriKey(u *url.URL) string {
	return strings.TrimSuffix(u.String(), "#")
}
