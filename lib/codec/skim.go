// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

// Field is one top-level entry of a message map.
type Field struct {
	Key string

	// Offset is the position of the encoded value in the message.
	Offset int

	// Raw is the complete encoded value, envelope included, aliasing
	// the message. It can be forwarded with [Encoder.Raw] unchanged.
	Raw []byte
}

// Fields lists the entries of the top-level map in data, which may be
// bare or wrapped in an envelope. Values that are envelopes are skipped
// in constant time without being decoded; bare containers are walked
// to find their end. The whole input is still checked for balance and
// trailing data.
func Fields(data []byte, options DecodeOptions) ([]Field, error) {
	var (
		decoder    *Decoder
		fields     []Field
		mapDepth   int
		pendingKey string
		pending    bool
		valueStart int
	)
	notMessage := func() error {
		if mapDepth == 0 {
			return ErrMessageExpected
		}
		return nil
	}

	handler := Handler{
		MapStart: func() error {
			if mapDepth == 0 {
				mapDepth = decoder.Depth()
			}
			return nil
		},
		ArrayStart: notMessage,
		Value: func(Value) error {
			return notMessage()
		},
		Key: func(key []byte) error {
			if decoder.Depth() == mapDepth {
				pendingKey = string(key)
				pending = true
				valueStart = decoder.Offset()
			}
			return nil
		},
		Envelope: func([]byte) (bool, error) {
			return mapDepth != 0, nil
		},
	}
	decoder = NewDecoder(data, handler, options)

	for {
		more, err := decoder.Step()
		if err != nil {
			return nil, err
		}
		if pending && decoder.Depth() == mapDepth && decoder.State() == ExpectKey {
			fields = append(fields, Field{
				Key:    pendingKey,
				Offset: valueStart,
				Raw:    data[valueStart:decoder.Offset()],
			})
			pending = false
		}
		if !more {
			return fields, nil
		}
	}
}

// Lookup returns the encoded value stored under key in the top-level
// map of data.
func Lookup(data []byte, key string, options DecodeOptions) ([]byte, bool, error) {
	fields, err := Fields(data, options)
	if err != nil {
		return nil, false, err
	}
	for _, field := range fields {
		if field.Key == key {
			return field.Raw, true, nil
		}
	}
	return nil, false, nil
}
