// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonbridge

import (
	"math"
	"strconv"
)

// Platform converts doubles to and from text. Implementations must not
// consult the host locale, must be safe for concurrent use, and must
// keep no mutable state: one Platform is shared by every conversion a
// [Bridge] runs.
type Platform interface {
	// ParseDouble parses a JSON number. It reports false for text that
	// is not a number or whose value is not a finite double.
	ParseDouble(text string) (float64, bool)

	// FormatDouble renders a finite double as JSON number text with a
	// '.' decimal separator.
	FormatDouble(value float64) string
}

// StandardPlatform is the default Platform. strconv never reads the
// locale, and the output uses the shortest text that parses back to the
// same double, in the ES6 style encoding/json uses: plain notation
// between 1e-6 and 1e21, exponent notation outside it.
type StandardPlatform struct{}

func (StandardPlatform) ParseDouble(text string) (float64, bool) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func (StandardPlatform) FormatDouble(value float64) string {
	format := byte('f')
	if magnitude := math.Abs(value); magnitude != 0 && (magnitude < 1e-6 || magnitude >= 1e21) {
		format = 'e'
	}
	text := strconv.AppendFloat(make([]byte, 0, 24), value, format, -1, 64)
	if format == 'e' {
		// 1e-07 becomes 1e-7.
		n := len(text)
		if n >= 4 && text[n-4] == 'e' && text[n-3] == '-' && text[n-2] == '0' {
			text[n-2] = text[n-1]
			text = text[:n-1]
		}
	}
	return string(text)
}
