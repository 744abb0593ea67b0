// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNumberOutOfRange means a number cannot cross the bridge
	// exactly: an integer beyond ±(2^53-1) on the way to JSON, or a JSON
	// number the Platform cannot parse as a finite double.
	ErrNumberOutOfRange = errors.New("number out of range")

	// ErrInvalidString means a text string or map key is not valid
	// UTF-8 and cannot be written as a JSON string.
	ErrInvalidString = errors.New("string is not valid UTF-8")

	// ErrInvalidJSON means the JSON text could not be tokenized.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Error locates a failure in JSON input.
type Error struct {
	Err error

	// Offset is the byte offset in the JSON text where the failure was
	// detected.
	Offset int64
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonbridge: %v at offset %d", e.Err, e.Offset)
}

func (e *Error) Unwrap() error {
	return e.Err
}
