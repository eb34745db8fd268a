// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
	"github.com/altshiftab/schemer/pkg/regexes"
)

// typeKeyword implements type. A number is an integer when it
// equals its floor, so 1.0 satisfies "integer".
type typeKeyword struct {
	keywordBase
	types []string
}

func compileType(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	k := &typeKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}}
	switch v.Kind() {
	case jsonvalue.String:
		k.types = []string{v.Str()}
	case jsonvalue.Array:
		for _, e := range v.Elems() {
			if e.Kind() != jsonvalue.String {
				return nil, fmt.Errorf("%w: type entry is %s, want string", ErrSchema, e.Kind())
			}
			k.types = append(k.types, e.Str())
		}
	default:
		return nil, fmt.Errorf("%w: type is %s, want string or array", ErrSchema, v.Kind())
	}
	return k, nil
}

// matchesType reports whether x has the named JSON schema type.
func matchesType(x *jsonvalue.Value, typ string) bool {
	switch typ {
	case "null":
		return x.Kind() == jsonvalue.Null
	case "boolean":
		return x.Kind() == jsonvalue.Bool
	case "object":
		return x.Kind() == jsonvalue.Object
	case "array":
		return x.Kind() == jsonvalue.Array
	case "string":
		return x.Kind() == jsonvalue.String
	case "number":
		return x.IsNumber()
	case "integer":
		return x.IsIntegral()
	default:
		return false
	}
}

func (k *typeKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	for _, typ := range k.types {
		if matchesType(x, typ) {
			return k.result(x, iloc, kloc, true)
		}
	}
	tag := "type"
	var expect string
	if len(k.types) == 1 {
		tag = k.types[0]
		expect = withArticle(k.types[0])
	} else {
		expect = "one of " + strings.Join(k.types, ", ")
	}
	return k.fail(x, iloc, kloc, tag, "value at "+formatLocation(iloc)+" is not "+expect)
}

// withArticle prefixes a type name with its article.
func withArticle(typ string) string {
	switch typ {
	case "integer", "object", "array":
		return "an " + typ
	case "null":
		return typ
	default:
		return "a " + typ
	}
}

// enumKeyword implements enum with structural equality.
type enumKeyword struct {
	keywordBase
}

func compileEnum(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.Array {
		return nil, fmt.Errorf("%w: enum is %s, want array", ErrSchema, v.Kind())
	}
	return &enumKeyword{keywordBase{name: name, value: v, schema: s}}, nil
}

func (k *enumKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	for _, e := range k.value.Elems() {
		if jsonvalue.Equal(x, e) {
			return k.result(x, iloc, kloc, true)
		}
	}
	return k.fail(x, iloc, kloc, "enum", "value at "+formatLocation(iloc)+" does not match any enum value")
}

// constKeyword implements const with structural equality.
type constKeyword struct {
	keywordBase
}

func compileConst(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return &constKeyword{keywordBase{name: name, value: v, schema: s}}, nil
}

func (k *constKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if jsonvalue.Equal(x, k.value) {
		return k.result(x, iloc, kloc, true)
	}
	return k.fail(x, iloc, kloc, "const", "value at "+formatLocation(iloc)+" is not the const value "+k.value.String())
}

// ratOf converts a JSON number into an exact rational. The decimal
// text of a float is recovered through its shortest representation,
// so 8.61 becomes 861/100 rather than its binary approximation.
func ratOf(v *jsonvalue.Value) *big.Rat {
	if v.Kind() == jsonvalue.Int {
		return new(big.Rat).SetInt64(v.Int64())
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	if !ok {
		// Inf and NaN are not representable; they cannot appear in
		// decoded JSON.
		return new(big.Rat)
	}
	return r
}

// multipleOfKeyword implements multipleOf with decimal-exact
// division.
type multipleOfKeyword struct {
	keywordBase
	factor *big.Rat
}

func compileMultipleOf(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if !v.IsNumber() {
		return nil, fmt.Errorf("%w: multipleOf is %s, want number", ErrSchema, v.Kind())
	}
	return &multipleOfKeyword{keywordBase{name: name, value: v, schema: s}, ratOf(v)}, nil
}

func (k *multipleOfKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if !x.IsNumber() {
		return nil
	}
	if k.factor.Sign() != 0 {
		quo := new(big.Rat).Quo(ratOf(x), k.factor)
		if quo.IsInt() {
			return k.result(x, iloc, kloc, true)
		}
	}
	return k.fail(x, iloc, kloc, "multipleOf",
		fmt.Sprintf("number at %s is not a multiple of %s", formatLocation(iloc), k.value))
}

// rangeKeyword implements the four numeric bound keywords.
type rangeKeyword struct {
	keywordBase
	bound     *big.Rat
	cmpWant   int  // sign of cmp(instance, bound) that fails
	exclusive bool // equality also fails
}

func compileMaximum(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileRange(s, name, v, 1, false)
}

func compileExclusiveMaximum(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileRange(s, name, v, 1, true)
}

func compileMinimum(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileRange(s, name, v, -1, false)
}

func compileExclusiveMinimum(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileRange(s, name, v, -1, true)
}

func compileRange(s *Schema, name string, v *jsonvalue.Value, cmpWant int, exclusive bool) (Keyword, error) {
	if !v.IsNumber() {
		return nil, fmt.Errorf("%w: %s is %s, want number", ErrSchema, name, v.Kind())
	}
	return &rangeKeyword{keywordBase{name: name, value: v, schema: s}, ratOf(v), cmpWant, exclusive}, nil
}

func (k *rangeKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if !x.IsNumber() {
		return nil
	}
	cmp := ratOf(x).Cmp(k.bound)
	if cmp == k.cmpWant || (k.exclusive && cmp == 0) {
		var rel string
		switch {
		case k.cmpWant > 0 && k.exclusive:
			rel = "is greater than or equal to the exclusive maximum"
		case k.cmpWant > 0:
			rel = "is greater than the maximum"
		case k.exclusive:
			rel = "is less than or equal to the exclusive minimum"
		default:
			rel = "is less than the minimum"
		}
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("number at %s %s %s", formatLocation(iloc), rel, k.value))
	}
	return k.result(x, iloc, kloc, true)
}

// lengthKeyword implements maxLength and minLength, counting
// Unicode code points rather than bytes.
type lengthKeyword struct {
	keywordBase
	limit int64
	max   bool
}

func compileMaxLength(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileLength(s, name, v, true)
}

func compileMinLength(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileLength(s, name, v, false)
}

func compileLength(s *Schema, name string, v *jsonvalue.Value, max bool) (Keyword, error) {
	if !v.IsIntegral() || v.Int64() < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrSchema, name)
	}
	return &lengthKeyword{keywordBase{name: name, value: v, schema: s}, v.Int64(), max}, nil
}

func (k *lengthKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.String {
		return nil
	}
	n := int64(utf8.RuneCountInString(x.Str()))
	if k.max && n > k.limit {
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("string length %d at %s is longer than %d", n, formatLocation(iloc), k.limit))
	}
	if !k.max && n < k.limit {
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("string length %d at %s is shorter than %d", n, formatLocation(iloc), k.limit))
	}
	return k.result(x, iloc, kloc, true)
}

// patternKeyword implements pattern. Matching is unanchored.
type patternKeyword struct {
	keywordBase
	re regexes.Regexp
}

func compilePattern(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.String {
		return nil, fmt.Errorf("%w: pattern is %s, want string", ErrSchema, v.Kind())
	}
	re, err := c.cfg.regexpResolver(v.Str())
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrInvalidRegexpResolution, v.Str(), err)
	}
	return &patternKeyword{keywordBase{name: name, value: v, schema: s}, re}, nil
}

func (k *patternKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.String {
		return nil
	}
	if k.re.MatchString(x.Str()) {
		return k.result(x, iloc, kloc, true)
	}
	return k.fail(x, iloc, kloc, "pattern",
		fmt.Sprintf("string at %s does not match pattern %s", formatLocation(iloc), k.value))
}

// countKeyword implements the array and object size keywords.
type countKeyword struct {
	keywordBase
	limit int64
	max   bool
	kind  jsonvalue.Kind
	noun  string
}

func compileMaxItems(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileCount(s, name, v, true, jsonvalue.Array, "items")
}

func compileMinItems(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileCount(s, name, v, false, jsonvalue.Array, "items")
}

func compileMaxProperties(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileCount(s, name, v, true, jsonvalue.Object, "properties")
}

func compileMinProperties(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileCount(s, name, v, false, jsonvalue.Object, "properties")
}

func compileCount(s *Schema, name string, v *jsonvalue.Value, max bool, kind jsonvalue.Kind, noun string) (Keyword, error) {
	if !v.IsIntegral() || v.Int64() < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrSchema, name)
	}
	return &countKeyword{keywordBase{name: name, value: v, schema: s}, v.Int64(), max, kind, noun}, nil
}

func (k *countKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != k.kind {
		return nil
	}
	n := int64(x.Len())
	if k.max && n > k.limit {
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("value at %s has more than %d %s", formatLocation(iloc), k.limit, k.noun))
	}
	if !k.max && n < k.limit {
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("value at %s has fewer than %d %s", formatLocation(iloc), k.limit, k.noun))
	}
	return k.result(x, iloc, kloc, true)
}

// uniqueItemsKeyword implements uniqueItems with deep equality.
type uniqueItemsKeyword struct {
	keywordBase
	unique bool
}

func compileUniqueItems(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.Bool {
		return nil, fmt.Errorf("%w: uniqueItems is %s, want boolean", ErrSchema, v.Kind())
	}
	return &uniqueItemsKeyword{keywordBase{name: name, value: v, schema: s}, v.Bool()}, nil
}

func (k *uniqueItemsKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Array {
		return nil
	}
	if !k.unique {
		return k.result(x, iloc, kloc, true)
	}
	elems := x.Elems()
	for i := range elems {
		for j := i + 1; j < len(elems); j++ {
			if jsonvalue.Equal(elems[i], elems[j]) {
				return k.fail(x, iloc, kloc, "uniqueItems",
					fmt.Sprintf("array at %s has duplicate items at %d and %d", formatLocation(iloc), i, j))
			}
		}
	}
	return k.result(x, iloc, kloc, true)
}

// containsCountKeyword implements maxContains and minContains,
// which read the index annotation left by contains.
type containsCountKeyword struct {
	keywordBase
	limit int64
	max   bool
}

func compileMaxContains(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileContainsCount(s, name, v, true)
}

func compileMinContains(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	return compileContainsCount(s, name, v, false)
}

func compileContainsCount(s *Schema, name string, v *jsonvalue.Value, max bool) (Keyword, error) {
	if !v.IsIntegral() || v.Int64() < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrSchema, name)
	}
	return &containsCountKeyword{keywordBase{name: name, value: v, schema: s}, v.Int64(), max}, nil
}

func (k *containsCountKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	adj, ok := ctx.adjacent["contains"]
	if !ok {
		return nil
	}
	matched, ok := adj.Annotation.([]int)
	if !ok {
		return nil
	}
	n := int64(len(matched))
	if k.max && n > k.limit {
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("array at %s has more than %d items matching the contains schema", formatLocation(iloc), k.limit))
	}
	if !k.max && n < k.limit {
		return k.fail(x, iloc, kloc, k.name,
			fmt.Sprintf("array at %s has fewer than %d items matching the contains schema", formatLocation(iloc), k.limit))
	}
	return k.result(x, iloc, kloc, true)
}

// requiredKeyword implements required. Under an access mode,
// writeOnly properties are not required when reading and readOnly
// properties are not required when writing.
type requiredKeyword struct {
	keywordBase
	names     []string
	readOnly  map[string]bool
	writeOnly map[string]bool
}

func compileRequired(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.Array {
		return nil, fmt.Errorf("%w: required is %s, want array", ErrSchema, v.Kind())
	}
	k := &requiredKeyword{
		keywordBase: keywordBase{name: name, value: v, schema: s},
		readOnly:    make(map[string]bool),
		writeOnly:   make(map[string]bool),
	}
	for _, e := range v.Elems() {
		if e.Kind() != jsonvalue.String {
			return nil, fmt.Errorf("%w: required entry is %s, want string", ErrSchema, e.Kind())
		}
		k.names = append(k.names, e.Str())
	}
	if props, ok := s.value.Get("properties"); ok && props.Kind() == jsonvalue.Object {
		for _, mem := range props.Members() {
			if flag, ok := mem.Value.Get("readOnly"); ok && flag.Bool() {
				k.readOnly[mem.Key] = true
			}
			if flag, ok := mem.Value.Get("writeOnly"); ok && flag.Bool() {
				k.writeOnly[mem.Key] = true
			}
		}
	}
	return k, nil
}

func (k *requiredKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	var missing []string
	for _, name := range k.names {
		if x.Has(name) {
			continue
		}
		if ctx.accessMode == AccessModeRead && k.writeOnly[name] {
			continue
		}
		if ctx.accessMode == AccessModeWrite && k.readOnly[name] {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return k.result(x, iloc, kloc, true)
	}
	r := k.fail(x, iloc, kloc, "required",
		"object at "+formatLocation(iloc)+" is missing required properties: "+strings.Join(missing, ", "))
	r.Details = map[string]any{"missing_keys": missing}
	return r
}

// dependentRequiredKeyword implements dependentRequired.
type dependentRequiredKeyword struct {
	keywordBase
	deps []dependentEntry
}

type dependentEntry struct {
	key   string
	needs []string
}

func compileDependentRequired(c *compiler, s *Schema, name string, v *jsonvalue.Value) (Keyword, error) {
	if v.Kind() != jsonvalue.Object {
		return nil, fmt.Errorf("%w: dependentRequired is %s, want object", ErrSchema, v.Kind())
	}
	k := &dependentRequiredKeyword{keywordBase: keywordBase{name: name, value: v, schema: s}}
	for _, mem := range v.Members() {
		if mem.Value.Kind() != jsonvalue.Array {
			return nil, fmt.Errorf("%w: dependentRequired entry %q is %s, want array", ErrSchema, mem.Key, mem.Value.Kind())
		}
		entry := dependentEntry{key: mem.Key}
		for _, e := range mem.Value.Elems() {
			if e.Kind() != jsonvalue.String {
				return nil, fmt.Errorf("%w: dependentRequired entry %q element is %s, want string", ErrSchema, mem.Key, e.Kind())
			}
			entry.needs = append(entry.needs, e.Str())
		}
		k.deps = append(k.deps, entry)
	}
	return k, nil
}

func (k *dependentRequiredKeyword) Evaluate(x *jsonvalue.Value, ctx *Context, iloc, kloc *Location) *Result {
	if x.Kind() != jsonvalue.Object {
		return nil
	}
	var missing []string
	for _, dep := range k.deps {
		if !x.Has(dep.key) {
			continue
		}
		for _, need := range dep.needs {
			if !x.Has(need) {
				missing = append(missing, need)
			}
		}
	}
	if len(missing) == 0 {
		return k.result(x, iloc, kloc, true)
	}
	r := k.fail(x, iloc, kloc, "dependentRequired",
		"object at "+formatLocation(iloc)+" is missing dependent properties: "+strings.Join(missing, ", "))
	r.Details = map[string]any{"missing_keys": missing}
	return r
}
