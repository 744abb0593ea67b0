// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonbridge converts between the binary wire format of
// [codec] and JSON text.
//
// Integers within ±(2^53-1) cross the bridge exactly in both
// directions. Every other number is a double, and doubles are turned
// into text and back only through the [Platform] given to [New], so
// the host locale can never change the decimal separator. TAG(22)
// byte strings become base64 strings in JSON.
//
//	bridge := jsonbridge.New(jsonbridge.StandardPlatform{}, jsonbridge.DefaultOptions())
//	data, err := bridge.FromJSON([]byte(`{"a":1,"b":[true,null,2.5]}`))
//	text, err := bridge.ToJSON(data)
//
// A Bridge holds no mutable state and may be shared by goroutines.
package jsonbridge

import (
	"github.com/bureau-foundation/envcodec/lib/codec"
)

// Options configure a [Bridge].
type Options struct {
	// AllowComments accepts // and /* */ comments (and trailing commas)
	// in JSON input.
	AllowComments bool

	// Indent, when non-empty, pretty-prints JSON output with one copy
	// per nesting level.
	Indent string

	// MaxDepth bounds JSON input nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// Encoder controls the binary output of FromJSON.
	Encoder codec.EncoderOptions

	// Decode controls how ToJSON reads its binary input.
	Decode codec.DecodeOptions
}

// DefaultOptions accept comments and wrap containers in envelopes.
func DefaultOptions() Options {
	return Options{
		AllowComments: true,
		Encoder:       codec.DefaultEncoderOptions(),
	}
}

// Bridge converts in both directions using one Platform.
type Bridge struct {
	platform Platform
	options  Options
}

// New returns a Bridge. A nil platform means StandardPlatform.
func New(platform Platform, options Options) *Bridge {
	if platform == nil {
		platform = StandardPlatform{}
	}
	return &Bridge{platform: platform, options: options}
}

// ToJSON decodes one binary value and renders it as JSON. Envelopes are
// entered transparently. On error no partial output is returned.
func (b *Bridge) ToJSON(data []byte) ([]byte, error) {
	w := writer{
		platform: b.platform,
		indent:   b.options.Indent,
		output:   make([]byte, 0, len(data)+len(data)/2),
	}
	if err := codec.Decode(data, w.handler(), b.options.Decode); err != nil {
		return nil, err
	}
	return w.output, nil
}

// FromJSON encodes one JSON value. Trailing tokens after it are
// rejected with codec.ErrTrailingData.
func (b *Bridge) FromJSON(text []byte) ([]byte, error) {
	return newReader(text, b.platform, b.options).read()
}
