// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors. Decode failures arrive wrapped in a [*DecodeError];
// match them with errors.Is.
var (
	// ErrTruncatedInput means fewer bytes remain than a header or
	// payload declares, including empty input.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidInitialByte means the initial byte is not part of the
	// profile: reserved additional information, definite-length
	// containers, indefinite strings, unknown tags or simple values.
	ErrInvalidInitialByte = errors.New("invalid initial byte")

	// ErrMalformedEnvelope means the envelope header bytes do not match
	// the fixed pattern, the declared length runs past the input, or an
	// entered envelope does not hold exactly one value.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrUnbalancedContainer means a stop token arrived with no open
	// container, or input ended with containers still open.
	ErrUnbalancedContainer = errors.New("unbalanced container")

	// ErrNonStringMapKey means a map key is not a text string.
	ErrNonStringMapKey = errors.New("map key is not a string")

	// ErrStackLimitExceeded means containers and envelopes nest deeper
	// than DecodeOptions.MaxDepth.
	ErrStackLimitExceeded = errors.New("stack limit exceeded")

	// ErrTrailingData means bytes follow the top-level value.
	ErrTrailingData = errors.New("trailing data after top-level value")

	// ErrNonMinimalEncoding means a header used a wider width class than
	// its value needs. Only reported with DecodeOptions.RequireMinimal.
	ErrNonMinimalEncoding = errors.New("non-minimal integer encoding")

	// ErrMessageExpected means DecodeOptions.RequireMessage is set and
	// the input is not an envelope wrapping a map.
	ErrMessageExpected = errors.New("envelope-wrapped map expected")

	// ErrEnvelopeTooLarge means envelope contents exceed the 4-byte
	// length field.
	ErrEnvelopeTooLarge = errors.New("envelope contents exceed 4 GiB limit")

	// ErrEnvelopeState means an EnvelopeEncoder was stopped before it
	// was started, or started twice.
	ErrEnvelopeState = errors.New("envelope encoder misuse")

	// ErrUnsupportedType means Marshal was given a Go value with no wire
	// representation.
	ErrUnsupportedType = errors.New("unsupported type")
)

// DecodeError locates a decode failure in the input.
type DecodeError struct {
	// Err is one of the sentinel errors above, possibly wrapping a
	// more specific cause.
	Err error

	// Offset is the byte position of the token that failed.
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: %v at byte %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
