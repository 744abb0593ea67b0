// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "math"

// AppendBool appends the one-byte encoding of v.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, byteTrue)
	}
	return append(dst, byteFalse)
}

// AppendNull appends the one-byte null.
func AppendNull(dst []byte) []byte {
	return append(dst, byteNull)
}

// AppendDouble appends v as a simple value with 8 raw big-endian
// IEEE-754 bytes. The width is never reduced, so every bit pattern
// (NaN payloads, negative zero, subnormals) survives a round trip.
func AppendDouble(dst []byte, v float64) []byte {
	return appendUint64(append(dst, byteDouble), math.Float64bits(v))
}

// AppendUint appends v as an UNSIGNED token.
func AppendUint(dst []byte, v uint64) []byte {
	return AppendTokenStart(dst, Unsigned, v)
}

// AppendInt appends v as UNSIGNED when non-negative, otherwise as
// NEGATIVE with argument -(v+1).
func AppendInt(dst []byte, v int64) []byte {
	if v >= 0 {
		return AppendTokenStart(dst, Unsigned, uint64(v))
	}
	return AppendTokenStart(dst, Negative, uint64(-(v + 1)))
}

// AppendString appends s as a text string. The bytes are copied as
// given; callers are responsible for UTF-8 validity.
func AppendString(dst []byte, s string) []byte {
	dst = AppendTokenStart(dst, String, uint64(len(s)))
	return append(dst, s...)
}

// AppendStringBytes is [AppendString] for a byte slice.
func AppendStringBytes(dst []byte, s []byte) []byte {
	dst = AppendTokenStart(dst, String, uint64(len(s)))
	return append(dst, s...)
}

// AppendBytes appends b as a plain byte string.
func AppendBytes(dst []byte, b []byte) []byte {
	dst = AppendTokenStart(dst, ByteString, uint64(len(b)))
	return append(dst, b...)
}

// AppendBinary appends b as a byte string prefixed with TAG(22), which
// tells a JSON writer to emit it as base64 text.
func AppendBinary(dst []byte, b []byte) []byte {
	return AppendBytes(append(dst, byteBase64Conversion), b)
}

// AppendArrayStart appends the indefinite-length array marker.
func AppendArrayStart(dst []byte) []byte {
	return append(dst, byteArrayStart)
}

// AppendMapStart appends the indefinite-length map marker.
func AppendMapStart(dst []byte) []byte {
	return append(dst, byteMapStart)
}

// AppendStop appends the stop token closing an indefinite container.
func AppendStop(dst []byte) []byte {
	return append(dst, byteStop)
}
