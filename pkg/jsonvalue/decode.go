// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Decode parses JSON data into a [Value].
// Object member order is preserved, and numbers keep the
// integer/float distinction of their source text: a literal with no
// fraction or exponent that fits in an int64 becomes an Int,
// everything else a Float.
func Decode(data []byte) (*Value, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is like [Decode] but reads from r.
func DecodeReader(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("jsonvalue: trailing data after JSON value")
	}
	return v, nil
}

// decodeValue reads one complete JSON value from dec.
func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

// decodeToken turns an already-read token into a Value,
// reading any nested content from dec.
func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return numberValue(t)
	case json.Delim:
		switch t {
		case '[':
			var elems []*Value
			for dec.More() {
				e, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return NewArray(elems), nil
		case '{':
			var members []Member
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := ktok.(string)
				if !ok {
					return nil, fmt.Errorf("jsonvalue: object key is %T, want string", ktok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return NewObject(members), nil
		default:
			return nil, fmt.Errorf("jsonvalue: unexpected delimiter %q", t)
		}
	default:
		return nil, fmt.Errorf("jsonvalue: unexpected token %T", tok)
	}
}

// numberValue converts a JSON number literal, keeping integers exact.
func numberValue(n json.Number) (*Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInt(i), nil
		}
		// Out of int64 range; fall through to float.
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("jsonvalue: bad number %q: %w", s, err)
	}
	return NewFloat(f), nil
}

// From builds a [Value] from an already-decoded Go value, as produced
// by encoding/json style unmarshaling into any. Map member order is
// not observable in Go maps, so members are sorted by key for
// deterministic output. A *Value passes through unchanged.
func From(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return NewNull(), nil
	case *Value:
		return t, nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case float64:
		return NewFloat(t), nil
	case json.Number:
		return numberValue(t)
	case []any:
		elems := make([]*Value, len(t))
		for i, e := range t {
			v, err := From(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewArray(elems), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(t))
		for _, k := range keys {
			v, err := From(t[k])
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return NewObject(members), nil
	default:
		return nil, fmt.Errorf("jsonvalue: cannot convert %T to a JSON value", x)
	}
}

// MustFrom is like [From] but panics on error.
// It is intended for values known to be JSON-shaped.
func MustFrom(x any) *Value {
	v, err := From(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Interface converts the value back into the Go shapes produced by
// encoding/json: nil, bool, int64, float64, string, []any and
// map[string]any. Object member order is lost.
func (v *Value) Interface() any {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.a))
		for i, e := range v.a {
			out[i] = e.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.m))
		for _, mem := range v.m {
			out[mem.Key] = mem.Value.Interface()
		}
		return out
	default:
		return nil
	}
}
