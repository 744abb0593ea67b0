// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonbridge

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/bureau-foundation/envcodec/lib/codec"
)

// MaxSafeInteger is the largest magnitude every JSON consumer can hold
// exactly in a double.
const MaxSafeInteger = 1<<53 - 1

const hexDigits = "0123456789abcdef"

type jsonFrame struct {
	isMap   bool
	entries int
}

// writer turns decode events into JSON text.
type writer struct {
	platform Platform
	indent   string
	output   []byte
	stack    []jsonFrame
}

func (w *writer) handler() codec.Handler {
	return codec.Handler{
		ArrayStart: func() error {
			w.beginValue()
			w.output = append(w.output, '[')
			w.stack = append(w.stack, jsonFrame{})
			return nil
		},
		MapStart: func() error {
			w.beginValue()
			w.output = append(w.output, '{')
			w.stack = append(w.stack, jsonFrame{isMap: true})
			return nil
		},
		ArrayEnd: func() error {
			w.end(']')
			return nil
		},
		MapEnd: func() error {
			w.end('}')
			return nil
		},
		Key: func(key []byte) error {
			top := &w.stack[len(w.stack)-1]
			if top.entries > 0 {
				w.output = append(w.output, ',')
			}
			top.entries++
			w.newline(len(w.stack))
			return w.writeString(key)
		},
		Value: w.value,
	}
}

// beginValue writes whatever separates the next value from the one
// before it.
func (w *writer) beginValue() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.isMap {
		w.output = append(w.output, ':')
		if w.indent != "" {
			w.output = append(w.output, ' ')
		}
		return
	}
	if top.entries > 0 {
		w.output = append(w.output, ',')
	}
	top.entries++
	w.newline(len(w.stack))
}

func (w *writer) end(closer byte) {
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if top.entries > 0 {
		w.newline(len(w.stack))
	}
	w.output = append(w.output, closer)
}

func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.output = append(w.output, '\n')
	for range depth {
		w.output = append(w.output, w.indent...)
	}
}

func (w *writer) value(v codec.Value) error {
	w.beginValue()
	switch v.Kind {
	case codec.KindNull:
		w.output = append(w.output, "null"...)
	case codec.KindBool:
		w.output = strconv.AppendBool(w.output, v.Bool)
	case codec.KindUnsigned:
		if v.Uint > MaxSafeInteger {
			return fmt.Errorf("%w: %d exceeds 2^53-1", ErrNumberOutOfRange, v.Uint)
		}
		w.output = strconv.AppendUint(w.output, v.Uint, 10)
	case codec.KindNegative:
		// The integer is -1-n, so its magnitude is n+1.
		if v.Uint >= MaxSafeInteger {
			return fmt.Errorf("%w: -1-%d exceeds 2^53-1 in magnitude", ErrNumberOutOfRange, v.Uint)
		}
		w.output = strconv.AppendInt(w.output, -1-int64(v.Uint), 10)
	case codec.KindDouble:
		w.double(v.Double)
	case codec.KindString:
		return w.writeString(v.Bytes)
	case codec.KindBytes, codec.KindBinary:
		w.output = append(w.output, '"')
		w.output = base64.StdEncoding.AppendEncode(w.output, v.Bytes)
		w.output = append(w.output, '"')
	default:
		return fmt.Errorf("%w: value kind %s", codec.ErrUnsupportedType, v.Kind)
	}
	return nil
}

func (w *writer) double(value float64) {
	// JSON has no NaN or Infinity; browsers write null.
	if math.IsNaN(value) || math.IsInf(value, 0) {
		w.output = append(w.output, "null"...)
		return
	}
	text := w.platform.FormatDouble(value)
	switch {
	case len(text) > 0 && text[0] == '.':
		w.output = append(w.output, '0')
	case len(text) > 1 && text[0] == '-' && text[1] == '.':
		w.output = append(w.output, '-', '0')
		text = text[1:]
	}
	w.output = append(w.output, text...)
}

// writeString writes s as a JSON string using only printable ASCII.
// Other characters become \u escapes, as surrogate pairs above the
// Basic Multilingual Plane. Bytes that are not valid UTF-8 fail with
// ErrInvalidString.
func (w *writer) writeString(s []byte) error {
	w.output = append(w.output, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
			switch {
			case c == '"':
				w.output = append(w.output, '\\', '"')
			case c == '\\':
				w.output = append(w.output, '\\', '\\')
			case c == '\b':
				w.output = append(w.output, '\\', 'b')
			case c == '\f':
				w.output = append(w.output, '\\', 'f')
			case c == '\n':
				w.output = append(w.output, '\\', 'n')
			case c == '\r':
				w.output = append(w.output, '\\', 'r')
			case c == '\t':
				w.output = append(w.output, '\\', 't')
			case c >= 0x20 && c < 0x7f:
				w.output = append(w.output, c)
			default:
				w.escape(rune(c))
			}
			continue
		}

		r, size := utf8.DecodeRune(s[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("%w: byte %#02x at string offset %d", ErrInvalidString, s[i-1], i-1)
		}
		if r > 0xffff {
			r -= 0x10000
			w.escape(0xd800 + r>>10)
			w.escape(0xdc00 + r&0x3ff)
			continue
		}
		w.escape(r)
	}
	w.output = append(w.output, '"')
	return nil
}

func (w *writer) escape(r rune) {
	w.output = append(w.output, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}
