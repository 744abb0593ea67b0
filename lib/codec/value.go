// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// Marshal encodes a Go value with envelope-wrapped containers. See
// [MarshalWith] for the accepted types.
func Marshal(v any) ([]byte, error) {
	return MarshalWith(v, DefaultEncoderOptions())
}

// MarshalWith encodes a Go value. Accepted: nil, bool, every integer
// and float type, string, []byte (a plain byte string), [Binary],
// slices and arrays, and maps with string keys. Map entries are
// written in sorted key order so equal values produce equal bytes.
// Pointers and interfaces are followed.
func MarshalWith(v any, options EncoderOptions) ([]byte, error) {
	encoder := NewEncoder(options)
	if err := encoder.Value(v); err != nil {
		return nil, err
	}
	return encoder.Finish()
}

// Binary marks a byte slice for the TAG(22) encoding, which JSON
// output renders as base64.
type Binary []byte

// Value encodes a Go value as the next value in the stream.
func (e *Encoder) Value(v any) error {
	e.value(reflect.ValueOf(v), 0)
	return e.err
}

func (e *Encoder) value(v reflect.Value, depth int) {
	if e.err != nil {
		return
	}
	if depth > DefaultMaxDepth {
		e.err = fmt.Errorf("%w: Go value nests deeper than %d", ErrStackLimitExceeded, DefaultMaxDepth)
		return
	}
	if !v.IsValid() {
		e.Null()
		return
	}

	switch typed := v.Interface().(type) {
	case Binary:
		e.Binary(typed)
		return
	case []byte:
		e.ByteString(typed)
		return
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			e.Null()
			return
		}
		e.value(v.Elem(), depth)
	case reflect.Pointer:
		if v.IsNil() {
			e.Null()
			return
		}
		e.value(v.Elem(), depth+1)
	case reflect.Bool:
		e.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.Int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.Uint(v.Uint())
	case reflect.Float32, reflect.Float64:
		e.Double(v.Float())
	case reflect.String:
		e.String(v.String())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			e.Null()
			return
		}
		e.ArrayStart()
		for i := range v.Len() {
			e.value(v.Index(i), depth+1)
		}
		e.ArrayEnd()
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			e.err = fmt.Errorf("%w: map key type %s", ErrNonStringMapKey, v.Type().Key())
			return
		}
		if v.IsNil() {
			e.Null()
			return
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch {
			case a.String() < b.String():
				return -1
			case a.String() > b.String():
				return 1
			}
			return 0
		})
		e.MapStart()
		for _, key := range keys {
			e.Key(key.String())
			e.value(v.MapIndex(key), depth+1)
		}
		e.MapEnd()
	default:
		e.err = fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
	}
}

// Unmarshal decodes data into a tree of Go values: nil, bool, int64
// (uint64 above math.MaxInt64), float64, string, []byte for plain byte
// strings, [Binary], []any and map[string]any. Envelopes are entered
// transparently. Strings and byte slices are copies.
func Unmarshal(data []byte) (any, error) {
	return UnmarshalWith(data, DecodeOptions{})
}

// UnmarshalWith is [Unmarshal] with explicit decode options.
func UnmarshalWith(data []byte, options DecodeOptions) (any, error) {
	var builder treeBuilder
	handler := Handler{
		ArrayStart: func() error {
			builder.stack = append(builder.stack, &treeNode{array: []any{}})
			return nil
		},
		MapStart: func() error {
			builder.stack = append(builder.stack, &treeNode{object: map[string]any{}})
			return nil
		},
		ArrayEnd: builder.pop,
		MapEnd:   builder.pop,
		Key: func(key []byte) error {
			builder.stack[len(builder.stack)-1].key = string(key)
			return nil
		},
		Value: func(v Value) error {
			converted, err := goValue(v)
			if err != nil {
				return err
			}
			builder.add(converted)
			return nil
		},
	}
	if err := Decode(data, handler, options); err != nil {
		return nil, err
	}
	return builder.root, nil
}

// treeNode is an open container while a tree is built.
type treeNode struct {
	array  []any
	object map[string]any
	key    string
}

type treeBuilder struct {
	stack []*treeNode
	root  any
}

func (b *treeBuilder) add(v any) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.object != nil {
		top.object[top.key] = v
		return
	}
	top.array = append(top.array, v)
}

func (b *treeBuilder) pop() error {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.object != nil {
		b.add(top.object)
	} else {
		b.add(top.array)
	}
	return nil
}

func goValue(v Value) (any, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.Bool, nil
	case KindUnsigned:
		if v.Uint > math.MaxInt64 {
			return v.Uint, nil
		}
		return int64(v.Uint), nil
	case KindNegative:
		integer, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("%w: negative integer -1-%d below int64 range", ErrUnsupportedType, v.Uint)
		}
		return integer, nil
	case KindDouble:
		return v.Double, nil
	case KindString:
		return string(v.Bytes), nil
	case KindBytes:
		return slices.Clone(v.Bytes), nil
	case KindBinary:
		return Binary(slices.Clone(v.Bytes)), nil
	}
	return nil, fmt.Errorf("%w: value kind %s", ErrUnsupportedType, v.Kind)
}
