// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"encoding/base64"
	"fmt"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// builtinContentDecoders decode well-known contentEncoding values
// to produce annotations. They never assert; only decoders the
// caller registered through options do.
var builtinContentDecoders = map[string]ContentDecoder{
	"base64": func(s string) (bool, string) {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return false, ""
		}
		return true, string(b)
	},
}

// builtinMediaTypeParsers parse well-known contentMediaType values.
var builtinMediaTypeParsers = map[string]MediaTypeParser{
	"application/json": func(s string) (bool, *jsonvalue.Value) {
		v, err := jsonvalue.Decode([]byte(s))
		if err != nil {
			return false, nil
		}
		return true, v
	},
}

// contentEncodingKeyword implements contentEncoding. The decoded
// string is propagated as an annotation for contentMediaType.
type contentEncodingKeyword struct {
	keywordBase
}

func compileContentEncoding(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.String {
		return nil, fmt.Errorf("%w: contentEncoding is %s, want string", ErrSchema, v.Kind())
	}
	return &contentEncodingKeyword{keywordBase{name: name, value: v, schema: s}}, nil
}

func (k *contentEncodingKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.String {
		return nil
	}
	encoding := k.value.Str()
	r := k.result(x, iloc, kloc, true)

	decoder, registered := k.schema.cfg.contentEncodings[encoding]
	if !registered {
		decoder = builtinContentDecoders[encoding]
	}
	if decoder == nil {
		r.Annotation = encoding
		return r
	}
	ok, decoded := decoder(x.Str())
	if !ok {
		if registered {
			return k.fail(x, iloc, kloc, "contentEncoding",
				fmt.Sprintf("string at %s cannot be decoded as %s", formatLocation(iloc), encoding))
		}
		r.Annotation = encoding
		return r
	}
	r.Annotation = decoded
	return r
}

// contentMediaTypeKeyword implements contentMediaType. The parsed
// value is propagated as an annotation for contentSchema.
type contentMediaTypeKeyword struct {
	keywordBase
}

func compileContentMediaType(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.String {
		return nil, fmt.Errorf("%w: contentMediaType is %s, want string", ErrSchema, v.Kind())
	}
	return &contentMediaTypeKeyword{keywordBase{name: name, value: v, schema: s}}, nil
}

func (k *contentMediaTypeKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.String {
		return nil
	}
	mediaType := k.value.Str()
	r := k.result(x, iloc, kloc, true)

	// contentEncoding may already have decoded the payload.
	content := x.Str()
	if adj, ok := ctx.adjacent["contentEncoding"]; ok {
		if decoded, ok := adj.Annotation.(string); ok {
			content = decoded
		}
	}

	parser, registered := k.schema.cfg.contentMediaTypes[mediaType]
	if !registered {
		parser = builtinMediaTypeParsers[mediaType]
	}
	if parser == nil {
		r.Annotation = mediaType
		return r
	}
	ok, parsed := parser(content)
	if !ok {
		if registered {
			return k.fail(x, iloc, kloc, "contentMediaType",
				fmt.Sprintf("string at %s is not valid %s", formatLocation(iloc), mediaType))
		}
		r.Annotation = mediaType
		return r
	}
	r.Annotation = parsed
	return r
}

// contentSchemaKeyword implements contentSchema. The parsed content
// from contentMediaType is validated and the result attached as an
// annotation; validity is only asserted when the caller registered
// the media type.
type contentSchemaKeyword struct {
	keywordBase
	sub *Schema
}

func compileContentSchema(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	sub, err := c.sub(s, name, v, name)
	if err != nil {
		return nil, err
	}
	return &contentSchemaKeyword{keywordBase{name: name, value: v, schema: s}, sub}, nil
}

func (k *contentSchemaKeyword) projection() projection { return projection{schema: k.sub} }

func (k *contentSchemaKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.String {
		return nil
	}
	adj, ok := ctx.adjacent["contentMediaType"]
	if !ok {
		return nil
	}
	parsed, ok := adj.Annotation.(*jsonvalue.Value)
	if !ok {
		// The media type was not parseable or had no parser.
		r := k.result(x, iloc, kloc, true)
		r.Annotation = k.value
		return r
	}

	sub := k.sub.evaluate(parsed, ctx, iloc, kloc)
	r := k.result(x, iloc, kloc, true)
	r.Annotation = sub.Valid

	registered := false
	if mt, ok := k.schema.value.Get("contentMediaType"); ok && mt.Kind() == jsonvalue.String {
		_, registered = k.schema.cfg.contentMediaTypes[mt.Str()]
	}
	if !sub.Valid && registered {
		r.Valid = false
		r.Nested = []*Result{sub}
		r.tag = "contentSchema"
		r.message = "decoded content at " + formatLocation(iloc) + " does not match the content schema"
	}
	return r
}
