// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"sort"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// Bundle returns a single self-contained document: the schema's own
// value with every externally fetched resource embedded under
// $defs, keyed by its URI. Embedded resources keep (or gain) the
// $id they were fetched under, so recompiling the bundle resolves
// the same references without a resolver.
func (s *Schema) Bundle() *jsonvalue.Value {
	root := s.root
	if len(root.external) == 0 || root.value.Kind() != jsonvalue.Object {
		return root.value
	}

	uris := make([]string, 0, len(root.external))
	for uri := range root.external {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	var defs []jsonvalue.Member
	var members []jsonvalue.Member
	for _, mem := range root.value.Members() {
		if mem.Key == "$defs" {
			defs = append(defs, mem.Value.Members()...)
			continue
		}
		members = append(members, mem)
	}
	for _, uri := range uris {
		defs = append(defs, jsonvalue.Member{
			Key:   uri,
			Value: withID(root.external[uri].value, uri),
		})
	}
	members = append(members, jsonvalue.Member{Key: "$defs", Value: jsonvalue.NewObject(defs)})
	return jsonvalue.NewObject(members)
}

// withID returns the document value, adding an $id when the
// document did not declare one.
func withID(v *jsonvalue.Value, uri string) *jsonvalue.Value {
	if v.Kind() != jsonvalue.Object || v.Has("$id") {
		return v
	}
	members := make([]jsonvalue.Member, 0, v.Len()+1)
	members = append(members, jsonvalue.Member{Key: "$id", Value: jsonvalue.NewString(uri)})
	members = append(members, v.Members()...)
	return jsonvalue.NewObject(members)
}
