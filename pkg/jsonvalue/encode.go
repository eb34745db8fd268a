// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// MarshalJSON renders the value as JSON, preserving object member
// order. This implements [encoding/json.Marshaler].
func (v *Value) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	v.appendJSON(&sb)
	return []byte(sb.String()), nil
}

// appendJSON writes the compact JSON form of v to sb.
func (v *Value) appendJSON(sb *strings.Builder) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Int:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case Float:
		// Integral floats keep a trailing zero so the round trip
		// stays a JSON number with a fraction.
		if v.IsIntegral() && v.f < 1e15 && v.f > -1e15 {
			fmt.Fprintf(sb, "%.1f", v.f)
		} else {
			sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
		}
	case String:
		sb.Write(encodeString(v.s))
	case Array:
		sb.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.appendJSON(sb)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, mem := range v.m {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.Write(encodeString(mem.Key))
			sb.WriteByte(':')
			mem.Value.appendJSON(sb)
		}
		sb.WriteByte('}')
	}
}

// encodeString returns the JSON encoding of s.
func encodeString(s string) []byte {
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("json.Marshal failed, which should be impossible: %v", err))
	}
	return data
}
