// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "math"

// EnvelopeHeaderSize is the fixed size of an envelope header: the
// envelope marker, the 32-bit byte string initial byte and the 4-byte
// big-endian length.
const EnvelopeHeaderSize = 1 + 1 + 4

// MaxEnvelopeSize is the largest content length the 4-byte length
// field can carry.
const MaxEnvelopeSize = math.MaxUint32

// EnvelopeEncoder wraps content written between Start and Stop in an
// envelope. The length field is written as a placeholder and patched
// by Stop, so the content is encoded in a single forward pass.
//
// The zero value is ready to use. An EnvelopeEncoder may be reused
// after Stop.
type EnvelopeEncoder struct {
	// sizePosition is the offset of the 4-byte placeholder plus one,
	// so that zero means "not started".
	sizePosition int
}

// Start appends the envelope header with a zero length placeholder.
func (e *EnvelopeEncoder) Start(dst []byte) ([]byte, error) {
	if e.sizePosition != 0 {
		return dst, ErrEnvelopeState
	}
	dst = append(dst, byteEnvelope, byte32BitByteString)
	e.sizePosition = len(dst) + 1
	return append(dst, 0, 0, 0, 0), nil
}

// Stop patches the placeholder with the number of bytes appended to
// dst since Start. If the count does not fit the length field, dst is
// left unpatched and ErrEnvelopeTooLarge is returned; the buffer must
// then be discarded.
func (e *EnvelopeEncoder) Stop(dst []byte) ([]byte, error) {
	if e.sizePosition == 0 {
		return dst, ErrEnvelopeState
	}
	position := e.sizePosition - 1
	e.sizePosition = 0
	if len(dst) < position+4 {
		return dst, ErrEnvelopeState
	}

	size := uint64(len(dst) - (position + 4))
	if err := checkEnvelopeSize(size); err != nil {
		return dst, err
	}
	putUint32(dst[position:position+4], uint32(size))
	return dst, nil
}

// checkEnvelopeSize reports whether size fits the 4-byte length field.
func checkEnvelopeSize(size uint64) error {
	if size > MaxEnvelopeSize {
		return ErrEnvelopeTooLarge
	}
	return nil
}

// AppendEnvelope appends contents, which must already be encoded,
// wrapped in an envelope. The size check happens before anything is
// written.
func AppendEnvelope(dst []byte, contents []byte) ([]byte, error) {
	if err := checkEnvelopeSize(uint64(len(contents))); err != nil {
		return dst, err
	}
	dst = append(dst, byteEnvelope, byte32BitByteString, 0, 0, 0, 0)
	putUint32(dst[len(dst)-4:], uint32(len(contents)))
	return append(dst, contents...), nil
}

// ReadEnvelope checks the envelope header at the front of data and
// returns the contents along with the total envelope size, header
// included. The contents are not inspected. Any mismatch, including a
// length that runs past data, is ErrMalformedEnvelope.
func ReadEnvelope(data []byte) (contents []byte, total int, err error) {
	if len(data) < EnvelopeHeaderSize ||
		data[0] != byteEnvelope || data[1] != byte32BitByteString {
		return nil, 0, ErrMalformedEnvelope
	}
	length := readUint(data[2:EnvelopeHeaderSize])
	if length > uint64(len(data)-EnvelopeHeaderSize) {
		return nil, 0, ErrMalformedEnvelope
	}
	total = EnvelopeHeaderSize + int(length)
	return data[EnvelopeHeaderSize:total], total, nil
}

// SkipEnvelope returns the total size of the envelope at the front of
// data. Advancing a cursor by that amount lands on the byte following
// the envelope regardless of what it contains.
func SkipEnvelope(data []byte) (int, error) {
	_, total, err := ReadEnvelope(data)
	return total, err
}

// IsMessage reports whether data starts like an envelope-wrapped
// message: an envelope header followed by a map start. Nothing past the
// first content byte is inspected; use [Decode] with RequireMessage to
// validate the whole input.
func IsMessage(data []byte) bool {
	return len(data) > EnvelopeHeaderSize &&
		data[0] == byteEnvelope && data[1] == byte32BitByteString &&
		data[EnvelopeHeaderSize] == byteMapStart
}
