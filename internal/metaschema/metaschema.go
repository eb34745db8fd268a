// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metaschema embeds the self-hosted JSON schema documents:
// the draft 2020-12 meta-schema family and the OpenAPI 3.1 dialect.
// The schema compiler consults this registry when a reference is not
// satisfied by the schema's own resources or the user's resolver.
package metaschema

import (
	"embed"
	"strings"
	"sync"
)

//go:embed draft2020-12/*.json oas31/*.json
var embedded embed.FS

// DraftID is the URI of the draft 2020-12 meta-schema.
const DraftID = "https://json-schema.org/draft/2020-12/schema"

// OASDialectID is the URI of the OpenAPI 3.1 base dialect.
const OASDialectID = "https://spec.openapis.org/oas/3.1/dialect/base"

// OASMetaID is the URI of the OpenAPI 3.1 base vocabulary meta-schema.
const OASMetaID = "https://spec.openapis.org/oas/3.1/meta/base"

// OASSchemaID is the URI of the OpenAPI 3.1 document schema.
const OASSchemaID = "https://spec.openapis.org/oas/3.1/schema/2022-10-07"

// files maps meta-schema URIs to embedded file names.
var files = map[string]string{
	DraftID: "draft2020-12/schema.json",
	"https://json-schema.org/draft/2020-12/meta/core":              "draft2020-12/core.json",
	"https://json-schema.org/draft/2020-12/meta/applicator":        "draft2020-12/applicator.json",
	"https://json-schema.org/draft/2020-12/meta/unevaluated":       "draft2020-12/unevaluated.json",
	"https://json-schema.org/draft/2020-12/meta/validation":        "draft2020-12/validation.json",
	"https://json-schema.org/draft/2020-12/meta/meta-data":         "draft2020-12/meta-data.json",
	"https://json-schema.org/draft/2020-12/meta/format-annotation": "draft2020-12/format-annotation.json",
	"https://json-schema.org/draft/2020-12/meta/format-assertion":  "draft2020-12/format-assertion.json",
	"https://json-schema.org/draft/2020-12/meta/content":           "draft2020-12/content.json",
	OASDialectID: "oas31/dialect-base.json",
	OASMetaID:    "oas31/meta-base.json",
	OASSchemaID:  "oas31/schema.json",
	"https://spec.openapis.org/oas/3.1/schema/latest": "oas31/schema.json",
}

var cache sync.Map // uri -> []byte

// Lookup returns the embedded document for a meta-schema URI.
// Any fragment on the URI is ignored.
func Lookup(uri string) ([]byte, bool) {
	uri, _, _ = strings.Cut(uri, "#")
	if data, ok := cache.Load(uri); ok {
		return data.([]byte), true
	}
	name, ok := files[uri]
	if !ok {
		return nil, false
	}
	data, err := embedded.ReadFile(name)
	if err != nil {
		// The embed directive guarantees the file exists.
		panic("metaschema: missing embedded file " + name)
	}
	cache.Store(uri, data)
	return data, true
}

// Known reports whether uri names an embedded meta-schema.
func Known(uri string) bool {
	uri, _, _ = strings.Cut(uri, "#")
	_, ok := files[uri]
	return ok
}
