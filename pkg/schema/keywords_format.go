// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// formatKeyword implements format in both its annotation and
// assertion forms. By default the keyword only annotates; compiling
// with the format-assertion vocabulary or the assertion option
// turns failures into errors. Unknown format names never fail.
type formatKeyword struct {
	keywordBase
	assert bool
}

func compileFormatAnnotation(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileFormat(s, name, v, c.cfg.formatAssertion)
}

func compileFormatAssertion(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileFormat(s, name, v, true)
}

func compileFormat(s *Schema, name string, v *jsonvalue.Value, assert bool) (Keyword, error) {
	if v.Kind() != jsonvalue.String {
		return nil, fmt.Errorf("%w: format is %s, want string", ErrSchema, v.Kind())
	}
	return &formatKeyword{keywordBase{name: name, value: v, schema: s}, assert}, nil
}

func (k *formatKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	r := k.result(x, iloc, kloc, true)
	r.Annotation = k.value.Str()
	if x.Kind() != jsonvalue.String || !k.assert {
		return r
	}
	if k.schema.cfg.formats.Lookup(k.value.Str())(x.Str()) {
		return r
	}
	return k.fail(x, iloc, kloc, "format",
		fmt.Sprintf("value at %s is not a valid %s", formatLocation(iloc), k.value.Str()))
}
