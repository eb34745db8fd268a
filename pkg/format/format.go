// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package format defines the string-format predicates for the format
// keyword. A format applies only to strings; the keyword layer never
// passes other instance types in, so every predicate here takes the
// string payload directly. Unknown format names always pass.
package format

// Func reports whether s satisfies a format.
type Func func(s string) bool

// Registry maps format names to predicates.
type Registry map[string]Func

// Default returns a registry with all built-in formats.
// The returned map is owned by the caller and may be extended
// with custom formats.
func Default() Registry {
	return Registry{
		"date":                  IsDate,
		"date-time":             IsDateTime,
		"duration":              IsDuration,
		"email":                 IsEmail,
		"hostname":              IsHostname,
		"idn-email":             IsIDNEmail,
		"idn-hostname":          IsIDNHostname,
		"ipv4":                  IsIPv4,
		"ipv6":                  IsIPv6,
		"iri":                   IsIRI,
		"iri-reference":         IsIRIReference,
		"json-pointer":          IsJSONPointer,
		"regex":                 IsRegex,
		"relative-json-pointer": IsRelativeJSONPointer,
		"time":                  IsTime,
		"uri":                   IsURI,
		"uri-reference":         IsURIReference,
		"uri-template":          IsURITemplate,
		"uuid":                  IsUUID,
	}
}

// Lookup returns the predicate for a format name.
// Unknown names return a predicate that always passes,
// per the format-annotation contract.
func (r Registry) Lookup(name string) Func {
	if f, ok := r[name]; ok {
		return f
	}
	return func(string) bool { return true }
}
