// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// Standard CBOR tooling reads the profile's envelope marker d8 5a as
// tag 90 applied to a mangled item. Standardize rewrites each envelope
// as RFC 8949 tag 24 (embedded CBOR) over the same byte string, which
// general decoders understand. Everything else in the profile is
// already standard CBOR.

// diagMode renders byte strings in hex and shows the contents of
// embedded CBOR, so envelope contents print as nested items.
var diagMode cbor.DiagMode

// decMode only checks well-formedness; it never builds Go values.
var decMode cbor.DecMode

// maxNestedLevels leaves room for every frame DecodeOptions can admit
// plus the tag and byte string each envelope adds.
const maxNestedLevels = 4 * DefaultMaxDepth

func init() {
	var err error

	diagMode, err = cbor.DiagOptions{
		ByteStringEncoding:     cbor.ByteStringBase16Encoding,
		ByteStringEmbeddedCBOR: true,
		MaxNestedLevels:        maxNestedLevels,
	}.DiagMode()
	if err != nil {
		panic("codec: CBOR diagnostic mode initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxNestedLevels: maxNestedLevels,
		IndefLength:     cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// standardEnvelopeHeaderSize is d8 18 5a plus the 4-byte length.
const standardEnvelopeHeaderSize = EnvelopeHeaderSize + 1

// Standardize validates data with the profile decoder and returns it
// with every envelope rewritten as standard tag 24. Lengths of
// enclosing envelopes grow by one byte per nested envelope and are
// patched as the rewrite proceeds.
func Standardize(data []byte, options DecodeOptions) ([]byte, error) {
	var (
		decoder      *Decoder
		output       = make([]byte, 0, len(data)+len(data)/8)
		copied       int
		placeholders []int
	)

	handler := Handler{
		Envelope: func([]byte) (bool, error) {
			start := decoder.Offset()
			output = append(output, data[copied:start]...)
			output = append(output, byteEnvelope, standardEnvelopeTagNo, byte32BitByteString, 0, 0, 0, 0)
			placeholders = append(placeholders, len(output)-4)
			copied = start + EnvelopeHeaderSize
			return false, nil
		},
		EnvelopeEnd: func() error {
			end := decoder.Offset()
			output = append(output, data[copied:end]...)
			copied = end

			position := placeholders[len(placeholders)-1]
			placeholders = placeholders[:len(placeholders)-1]
			size := uint64(len(output) - (position + 4))
			if size > MaxEnvelopeSize {
				return ErrEnvelopeTooLarge
			}
			putUint32(output[position:position+4], uint32(size))
			return nil
		},
	}
	decoder = NewDecoder(data, handler, options)
	if err := decoder.Run(); err != nil {
		return nil, err
	}
	return append(output, data[copied:]...), nil
}

// Diagnose returns the RFC 8949 §8 diagnostic notation for data.
// Envelopes appear as 24(<<...>>) with their contents decoded.
func Diagnose(data []byte) (string, error) {
	standard, err := Standardize(data, DecodeOptions{})
	if err != nil {
		return "", err
	}
	return diagMode.Diagnose(standard)
}

// Wellformed checks data with the profile decoder and then checks the
// standardized form with an independent general CBOR decoder.
func Wellformed(data []byte, options DecodeOptions) error {
	standard, err := Standardize(data, options)
	if err != nil {
		return err
	}
	return decMode.Wellformed(standard)
}

// WellformedStandard checks data as general CBOR without the profile
// rules. Use it on output of [Standardize] or of an [Encoder] with
// envelopes turned off.
func WellformedStandard(data []byte) error {
	return decMode.Wellformed(data)
}
