// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "fmt"

// EncoderOptions tune an [Encoder].
type EncoderOptions struct {
	// EnvelopeContainers wraps every array and map in an envelope so a
	// consumer can skip it without decoding it.
	EnvelopeContainers bool
}

// DefaultEncoderOptions wraps containers in envelopes.
func DefaultEncoderOptions() EncoderOptions {
	return EncoderOptions{EnvelopeContainers: true}
}

type encodeFrame struct {
	isMap       bool
	keyExpected bool
	envelope    EnvelopeEncoder
}

// Encoder writes one top-level value as a stream of calls. Structural
// mistakes are caught as they happen: the first error is kept and every
// later call is a no-op, so callers check [Encoder.Err] once at the end.
type Encoder struct {
	buffer  []byte
	options EncoderOptions
	stack   []encodeFrame
	wrote   bool
	err     error
}

// NewEncoder returns an empty encoder.
func NewEncoder(options EncoderOptions) *Encoder {
	return &Encoder{options: options}
}

// Reset discards the output and any error, keeping the buffer capacity.
func (e *Encoder) Reset() {
	e.buffer = e.buffer[:0]
	e.stack = e.stack[:0]
	e.wrote = false
	e.err = nil
}

// Bytes returns the encoded output. The slice is only well formed once
// every container has been closed.
func (e *Encoder) Bytes() []byte {
	return e.buffer
}

// Err returns the first error recorded.
func (e *Encoder) Err() error {
	return e.err
}

// Finish returns the output, or an error if a call failed or a
// container is still open.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err == nil && len(e.stack) > 0 {
		e.err = fmt.Errorf("%w: %d containers still open", ErrUnbalancedContainer, len(e.stack))
	}
	if e.err == nil && !e.wrote {
		e.err = fmt.Errorf("%w: nothing encoded", ErrTruncatedInput)
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.buffer, nil
}

// beginValue checks that a value may be written at this point.
func (e *Encoder) beginValue() bool {
	if e.err != nil {
		return false
	}
	if len(e.stack) == 0 {
		if e.wrote {
			e.err = ErrTrailingData
			return false
		}
		return true
	}
	if top := &e.stack[len(e.stack)-1]; top.isMap && top.keyExpected {
		e.err = ErrNonStringMapKey
		return false
	}
	return true
}

// endValue advances the enclosing frame past a finished value.
func (e *Encoder) endValue() {
	if len(e.stack) == 0 {
		e.wrote = true
		return
	}
	if top := &e.stack[len(e.stack)-1]; top.isMap {
		top.keyExpected = true
	}
}

func (e *Encoder) startContainer(isMap bool) {
	if !e.beginValue() {
		return
	}
	frame := encodeFrame{isMap: isMap, keyExpected: isMap}
	if e.options.EnvelopeContainers {
		e.buffer, e.err = frame.envelope.Start(e.buffer)
		if e.err != nil {
			return
		}
	}
	if isMap {
		e.buffer = AppendMapStart(e.buffer)
	} else {
		e.buffer = AppendArrayStart(e.buffer)
	}
	e.stack = append(e.stack, frame)
}

func (e *Encoder) endContainer(isMap bool) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 {
		e.err = ErrUnbalancedContainer
		return
	}
	top := &e.stack[len(e.stack)-1]
	switch {
	case top.isMap != isMap:
		e.err = fmt.Errorf("%w: closing %s inside %s", ErrUnbalancedContainer,
			containerName(isMap), containerName(top.isMap))
		return
	case top.isMap && !top.keyExpected:
		e.err = fmt.Errorf("%w: map closed after a key with no value", ErrUnbalancedContainer)
		return
	}
	e.buffer = AppendStop(e.buffer)
	if e.options.EnvelopeContainers {
		e.buffer, e.err = top.envelope.Stop(e.buffer)
		if e.err != nil {
			return
		}
	}
	e.stack = e.stack[:len(e.stack)-1]
	e.endValue()
}

func containerName(isMap bool) string {
	if isMap {
		return "map"
	}
	return "array"
}

func (e *Encoder) ArrayStart() { e.startContainer(false) }
func (e *Encoder) ArrayEnd()   { e.endContainer(false) }
func (e *Encoder) MapStart()   { e.startContainer(true) }
func (e *Encoder) MapEnd()     { e.endContainer(true) }

// Key writes a map key. It is only valid directly inside a map, where
// keys and values alternate.
func (e *Encoder) Key(key string) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].isMap || !e.stack[len(e.stack)-1].keyExpected {
		e.err = fmt.Errorf("%w: key %q outside key position", ErrUnbalancedContainer, key)
		return
	}
	e.buffer = AppendString(e.buffer, key)
	e.stack[len(e.stack)-1].keyExpected = false
}

// KeyBytes is [Encoder.Key] for a byte slice.
func (e *Encoder) KeyBytes(key []byte) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].isMap || !e.stack[len(e.stack)-1].keyExpected {
		e.err = fmt.Errorf("%w: key %q outside key position", ErrUnbalancedContainer, key)
		return
	}
	e.buffer = AppendStringBytes(e.buffer, key)
	e.stack[len(e.stack)-1].keyExpected = false
}

func (e *Encoder) String(value string) {
	if e.beginValue() {
		e.buffer = AppendString(e.buffer, value)
		e.endValue()
	}
}

func (e *Encoder) StringBytes(value []byte) {
	if e.beginValue() {
		e.buffer = AppendStringBytes(e.buffer, value)
		e.endValue()
	}
}

// ByteString writes a plain byte string.
func (e *Encoder) ByteString(value []byte) {
	if e.beginValue() {
		e.buffer = AppendBytes(e.buffer, value)
		e.endValue()
	}
}

// Binary writes a byte string marked for base64 conversion in JSON.
func (e *Encoder) Binary(value []byte) {
	if e.beginValue() {
		e.buffer = AppendBinary(e.buffer, value)
		e.endValue()
	}
}

func (e *Encoder) Double(value float64) {
	if e.beginValue() {
		e.buffer = AppendDouble(e.buffer, value)
		e.endValue()
	}
}

func (e *Encoder) Int(value int64) {
	if e.beginValue() {
		e.buffer = AppendInt(e.buffer, value)
		e.endValue()
	}
}

func (e *Encoder) Uint(value uint64) {
	if e.beginValue() {
		e.buffer = AppendUint(e.buffer, value)
		e.endValue()
	}
}

// NegativeArgument writes the NEGATIVE integer -1-n. It reaches the
// values below math.MinInt64 that Int cannot express.
func (e *Encoder) NegativeArgument(n uint64) {
	if e.beginValue() {
		e.buffer = AppendTokenStart(e.buffer, Negative, n)
		e.endValue()
	}
}

func (e *Encoder) Bool(value bool) {
	if e.beginValue() {
		e.buffer = AppendBool(e.buffer, value)
		e.endValue()
	}
}

func (e *Encoder) Null() {
	if e.beginValue() {
		e.buffer = AppendNull(e.buffer)
		e.endValue()
	}
}

// Raw copies a complete, already encoded value into the output as one
// value, for example a span returned by [Fields]. It is not checked.
func (e *Encoder) Raw(encoded []byte) {
	if e.beginValue() {
		e.buffer = append(e.buffer, encoded...)
		e.endValue()
	}
}
