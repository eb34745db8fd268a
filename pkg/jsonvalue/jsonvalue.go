// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonvalue defines the JSON value model used by the schemer
// packages. A [Value] is an immutable tagged value that preserves the
// distinction between integers and floating-point numbers and the
// member order of objects.
package jsonvalue

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the JSON type of a [Value].
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

// String returns the JSON Schema type name of a kind.
// Int and Float both report "number"; use [Value.IsIntegral]
// to distinguish integer-valued numbers.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int, Float:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Member is one member of a JSON object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON value. Values are created by [Decode] or [From]
// and are immutable afterward.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	a    []*Value
	m    []Member
	idx  map[string]int
}

// Shared singletons for the values that carry no payload.
var (
	nullValue  = &Value{kind: Null}
	trueValue  = &Value{kind: Bool, b: true}
	falseValue = &Value{kind: Bool}
)

// NewNull returns the JSON null value.
func NewNull() *Value { return nullValue }

// NewBool returns a JSON boolean value.
func NewBool(b bool) *Value {
	if b {
		return trueValue
	}
	return falseValue
}

// NewInt returns a JSON number value holding an integer.
func NewInt(i int64) *Value { return &Value{kind: Int, i: i} }

// NewFloat returns a JSON number value holding a float.
func NewFloat(f float64) *Value { return &Value{kind: Float, f: f} }

// NewString returns a JSON string value.
func NewString(s string) *Value { return &Value{kind: String, s: s} }

// NewArray returns a JSON array value. The slice is not copied.
func NewArray(elems []*Value) *Value { return &Value{kind: Array, a: elems} }

// NewObject returns a JSON object value with the given members,
// in order. The slice is not copied. If a key appears more than
// once the last member wins for lookup.
func NewObject(members []Member) *Value {
	v := &Value{kind: Object, m: members}
	if len(members) > 0 {
		v.idx = make(map[string]int, len(members))
		for i, mem := range members {
			v.idx[mem.Key] = i
		}
	}
	return v
}

// Kind returns the kind of the value.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is JSON null.
func (v *Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload. It is false for non-booleans.
func (v *Value) Bool() bool { return v.kind == Bool && v.b }

// Int64 returns the integer payload.
// For a Float value it returns the truncated float.
func (v *Value) Int64() int64 {
	if v.kind == Float {
		return int64(v.f)
	}
	return v.i
}

// Float64 returns the numeric payload as a float.
// Int values widen.
func (v *Value) Float64() float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// Str returns the string payload. It is empty for non-strings.
func (v *Value) Str() string { return v.s }

// IsNumber reports whether the value is a JSON number.
func (v *Value) IsNumber() bool { return v.kind == Int || v.kind == Float }

// IsIntegral reports whether the value is a number equal to its floor.
// An Int is always integral; a Float is integral when it has no
// fractional part and is finite, so 1.0 is an integer.
func (v *Value) IsIntegral() bool {
	switch v.kind {
	case Int:
		return true
	case Float:
		return !math.IsInf(v.f, 0) && !math.IsNaN(v.f) && v.f == math.Floor(v.f)
	default:
		return false
	}
}

// Len returns the number of elements of an array or members of an
// object, and zero otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.a)
	case Object:
		return len(v.m)
	default:
		return 0
	}
}

// Index returns the i'th element of an array.
// It panics if the value is not an array or i is out of range.
func (v *Value) Index(i int) *Value {
	if v.kind != Array {
		panic("jsonvalue: Index of non-array")
	}
	return v.a[i]
}

// Elems returns the elements of an array, or nil.
// The caller must not modify the returned slice.
func (v *Value) Elems() []*Value {
	if v.kind != Array {
		return nil
	}
	return v.a
}

// Get returns the member value for key, and whether it is present.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != Object {
		return nil, false
	}
	i, ok := v.idx[key]
	if !ok {
		return nil, false
	}
	return v.m[i].Value, true
}

// Has reports whether an object has a member named key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Members returns the object members in document order, or nil.
// The caller must not modify the returned slice.
func (v *Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	return v.m
}

// Keys returns the object member keys in document order.
func (v *Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, len(v.m))
	for i, mem := range v.m {
		keys[i] = mem.Key
	}
	return keys
}

// Equal reports whether two values are structurally equal.
// Arrays are ordered, objects are not, and numbers compare
// numerically, so Int(1) equals Float(1.0).
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if a.IsNumber() && b.IsNumber() {
		if a.kind == Int && b.kind == Int {
			return a.i == b.i
		}
		return a.Float64() == b.Float64()
	}

	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case String:
		return a.s == b.s
	case Array:
		if len(a.a) != len(b.a) {
			return false
		}
		for i := range a.a {
			if !Equal(a.a[i], b.a[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.m) != len(b.m) {
			return false
		}
		for _, mem := range a.m {
			bv, ok := b.Get(mem.Key)
			if !ok || !Equal(mem.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns a compact JSON rendering of the value.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	var sb strings.Builder
	v.appendJSON(&sb)
	return sb.String()
}
