// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math"
)

// DefaultMaxDepth bounds the open frames of a decode: 300 nested
// containers, each wrapped in an envelope.
const DefaultMaxDepth = 600

// Kind classifies a decoded [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindUnsigned
	KindNegative
	KindDouble
	KindString
	KindBytes
	KindBinary
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindUnsigned: "unsigned",
	KindNegative: "negative",
	KindDouble:   "double",
	KindString:   "string",
	KindBytes:    "bytes",
	KindBinary:   "binary",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a decoded scalar. Which field is meaningful depends on Kind.
type Value struct {
	Kind Kind

	// Bool is set for KindBool.
	Bool bool

	// Uint is the integer for KindUnsigned and the wire argument n for
	// KindNegative, where the integer is -1-n.
	Uint uint64

	// Double is set for KindDouble.
	Double float64

	// Bytes holds the payload of KindString, KindBytes and KindBinary.
	// It aliases the decoder input.
	Bytes []byte
}

// Int64 returns the integer value of an Unsigned or Negative value and
// whether it fits in an int64.
func (v Value) Int64() (int64, bool) {
	switch v.Kind {
	case KindUnsigned:
		if v.Uint > math.MaxInt64 {
			return 0, false
		}
		return int64(v.Uint), true
	case KindNegative:
		if v.Uint > math.MaxInt64 {
			return 0, false
		}
		return -1 - int64(v.Uint), true
	}
	return 0, false
}

// Handler receives decode events. Every field is optional. A callback
// that returns an error aborts the decode; the error is wrapped in a
// [*DecodeError] at the current token.
type Handler struct {
	ArrayStart func() error
	ArrayEnd   func() error
	MapStart   func() error
	MapEnd     func() error

	// Key receives a map key. The slice aliases the input.
	Key func(key []byte) error

	// Value receives every scalar in value position.
	Value func(v Value) error

	// Envelope is called when an envelope starts in value position,
	// with its undecoded contents. Returning skip=true advances past the
	// envelope without looking inside it and counts it as one value.
	// Otherwise the decoder enters the envelope and calls EnvelopeEnd
	// once the single value it holds is complete. With no Envelope
	// callback every envelope is entered.
	Envelope    func(contents []byte) (skip bool, err error)
	EnvelopeEnd func() error

	// Error is called once with the error that stopped the decode.
	Error func(err error)
}

// DecodeOptions tune a decode.
type DecodeOptions struct {
	// MaxDepth bounds the open frames (containers plus entered
	// envelopes). Zero means DefaultMaxDepth.
	MaxDepth int

	// RequireMinimal rejects integer and length headers that are wider
	// than their value needs.
	RequireMinimal bool

	// RequireMessage demands that the top-level value is an envelope
	// wrapping a map.
	RequireMessage bool
}

// State is the position of a [Decoder] in its state machine.
type State uint8

const (
	ExpectValue State = iota
	ExpectKey
	ExpectValueInMap
	Done
	Failed
)

var stateNames = [...]string{
	ExpectValue:      "expect value",
	ExpectKey:        "expect key",
	ExpectValueInMap: "expect value in map",
	Done:             "done",
	Failed:           "error",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

type frameKind uint8

const (
	frameArray frameKind = iota
	frameMap
	frameEnvelope
)

// frame is one open container or entered envelope.
type frame struct {
	kind frameKind

	// keyExpected is true in a map frame when the next token must be a
	// key or the stop token.
	keyExpected bool

	// limit is the offset no token within this frame may pass: the end
	// of the innermost enclosing envelope, or len(input).
	limit int
}

// Decoder walks the input one token at a time, keeping open containers
// on an explicit stack rather than the call stack, so nesting depth is
// bounded by MaxDepth and never by recursion.
type Decoder struct {
	data     []byte
	position int
	stack    []frame
	handler  Handler
	options  DecodeOptions

	done bool
	err  error
}

// NewDecoder prepares a decode of data. data is not copied and must not
// be modified until the decode completes.
func NewDecoder(data []byte, handler Handler, options DecodeOptions) *Decoder {
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultMaxDepth
	}
	return &Decoder{data: data, handler: handler, options: options}
}

// Decode decodes exactly one top-level value from data, invoking
// handler synchronously. The returned error is also passed to
// handler.Error.
func Decode(data []byte, handler Handler, options DecodeOptions) error {
	return NewDecoder(data, handler, options).Run()
}

// Run steps until the top-level value is consumed or an error occurs.
func (d *Decoder) Run() error {
	for {
		more, err := d.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// State reports where the decoder is. Failed is absorbing.
func (d *Decoder) State() State {
	switch {
	case d.err != nil:
		return Failed
	case d.done:
		return Done
	case len(d.stack) == 0:
		return ExpectValue
	}
	top := d.stack[len(d.stack)-1]
	if top.kind == frameMap {
		if top.keyExpected {
			return ExpectKey
		}
		return ExpectValueInMap
	}
	return ExpectValue
}

// Offset is the position of the next unread byte.
func (d *Decoder) Offset() int {
	return d.position
}

// Depth is the number of open frames.
func (d *Decoder) Depth() int {
	return len(d.stack)
}

// Step consumes one token. It returns more=false once the top-level
// value is complete and no bytes remain. After an error every call
// returns that same error.
func (d *Decoder) Step() (more bool, err error) {
	if d.err != nil {
		return false, d.err
	}
	if d.done {
		return false, nil
	}
	if err := d.step(); err != nil {
		d.err = err
		if d.handler.Error != nil {
			d.handler.Error(err)
		}
		return false, err
	}
	if d.done && d.position != len(d.data) {
		return false, d.fail(ErrTrailingData, d.position)
	}
	return !d.done, nil
}

func (d *Decoder) fail(err error, offset int) error {
	decodeErr := &DecodeError{Err: err, Offset: offset}
	if d.err == nil {
		d.err = decodeErr
		if d.handler.Error != nil {
			d.handler.Error(decodeErr)
		}
	}
	return d.err
}

// limit is the end of the region the next token must fit in.
func (d *Decoder) limit() int {
	if len(d.stack) == 0 {
		return len(d.data)
	}
	return d.stack[len(d.stack)-1].limit
}

func (d *Decoder) push(kind frameKind, limit int) error {
	if len(d.stack) >= d.options.MaxDepth {
		return ErrStackLimitExceeded
	}
	d.stack = append(d.stack, frame{kind: kind, keyExpected: kind == frameMap, limit: limit})
	return nil
}

func (d *Decoder) step() error {
	start := d.position
	limit := d.limit()

	if start >= limit {
		switch {
		case len(d.data) == 0:
			return &DecodeError{Err: ErrTruncatedInput, Offset: 0}
		case len(d.stack) == 0:
			return &DecodeError{Err: ErrTruncatedInput, Offset: start}
		case limit < len(d.data) || d.stack[len(d.stack)-1].kind == frameEnvelope:
			return &DecodeError{Err: ErrMalformedEnvelope, Offset: start}
		default:
			return &DecodeError{Err: fmt.Errorf("%w: %w", ErrUnbalancedContainer, ErrTruncatedInput), Offset: start}
		}
	}

	if start == 0 && d.options.RequireMessage && d.data[0] != byteEnvelope {
		return &DecodeError{Err: ErrMessageExpected, Offset: 0}
	}

	view := d.data[start:limit]
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		return &DecodeError{Err: err, Offset: start}
	}

	var top *frame
	if len(d.stack) > 0 {
		top = &d.stack[len(d.stack)-1]
	}
	expectKey := top != nil && top.kind == frameMap && top.keyExpected

	switch view[0] {
	case byteStop:
		if top == nil || top.kind == frameEnvelope || (top.kind == frameMap && !top.keyExpected) {
			return wrap(ErrUnbalancedContainer)
		}
		kind := top.kind
		d.stack = d.stack[:len(d.stack)-1]
		d.position++
		if kind == frameArray {
			if err := call(d.handler.ArrayEnd); err != nil {
				return wrap(err)
			}
		} else if err := call(d.handler.MapEnd); err != nil {
			return wrap(err)
		}
		return wrap(d.completeValue())

	case byteArrayStart, byteMapStart:
		if expectKey {
			return wrap(ErrNonStringMapKey)
		}
		kind, callback := frameArray, d.handler.ArrayStart
		if view[0] == byteMapStart {
			kind, callback = frameMap, d.handler.MapStart
		}
		if err := d.push(kind, limit); err != nil {
			return wrap(err)
		}
		d.position++
		return wrap(call(callback))

	case byteEnvelope:
		if expectKey {
			return wrap(ErrNonStringMapKey)
		}
		return wrap(d.envelope(view, start))
	}

	if expectKey {
		key, size, err := d.readString(view)
		if err != nil {
			return wrap(err)
		}
		d.position += size
		top.keyExpected = false
		if d.handler.Key != nil {
			return wrap(d.handler.Key(key))
		}
		return nil
	}

	value, size, err := d.readScalar(view)
	if err != nil {
		return wrap(err)
	}
	d.position += size
	if d.handler.Value != nil {
		if err := d.handler.Value(value); err != nil {
			return wrap(err)
		}
	}
	return wrap(d.completeValue())
}

func (d *Decoder) envelope(view []byte, start int) error {
	contents, total, err := ReadEnvelope(view)
	if err != nil {
		return err
	}
	if len(d.stack) == 0 && d.options.RequireMessage && (len(contents) == 0 || contents[0] != byteMapStart) {
		return ErrMessageExpected
	}

	skip := false
	if d.handler.Envelope != nil {
		if skip, err = d.handler.Envelope(contents); err != nil {
			return err
		}
	}
	if skip {
		d.position = start + total
		return d.completeValue()
	}

	if err := d.push(frameEnvelope, start+total); err != nil {
		return err
	}
	d.position = start + EnvelopeHeaderSize
	return nil
}

// completeValue records that a value finished at d.position and
// closes any envelopes that held it.
func (d *Decoder) completeValue() error {
	for {
		if len(d.stack) == 0 {
			d.done = true
			return nil
		}
		top := &d.stack[len(d.stack)-1]
		switch top.kind {
		case frameMap:
			top.keyExpected = true
			return nil
		case frameArray:
			return nil
		}
		if d.position != top.limit {
			return ErrMalformedEnvelope
		}
		d.stack = d.stack[:len(d.stack)-1]
		if err := call(d.handler.EnvelopeEnd); err != nil {
			return err
		}
	}
}

// readHeader reads a token header, enforcing minimal width if asked.
func (d *Decoder) readHeader(view []byte) (Token, error) {
	token, err := ReadTokenStart(view)
	if err != nil {
		return Token{}, err
	}
	if d.options.RequireMinimal && !token.Minimal() {
		return Token{}, ErrNonMinimalEncoding
	}
	return token, nil
}

// payload returns the length-prefixed payload following token.
func payload(view []byte, token Token) ([]byte, int, error) {
	if token.Value > uint64(len(view)-token.HeaderLen) {
		return nil, 0, ErrTruncatedInput
	}
	end := token.HeaderLen + int(token.Value)
	return view[token.HeaderLen:end], end, nil
}

func (d *Decoder) readString(view []byte) ([]byte, int, error) {
	token, err := d.readHeader(view)
	if err != nil {
		if err == ErrInvalidInitialByte {
			return nil, 0, ErrNonStringMapKey
		}
		return nil, 0, err
	}
	if token.Type != String {
		return nil, 0, ErrNonStringMapKey
	}
	return payload(view, token)
}

func (d *Decoder) readScalar(view []byte) (Value, int, error) {
	switch view[0] {
	case byteFalse:
		return Value{Kind: KindBool}, 1, nil
	case byteTrue:
		return Value{Kind: KindBool, Bool: true}, 1, nil
	case byteNull:
		return Value{Kind: KindNull}, 1, nil
	case byteDouble:
		if len(view) < 9 {
			return Value{}, 0, ErrTruncatedInput
		}
		return Value{Kind: KindDouble, Double: math.Float64frombits(readUint(view[1:9]))}, 9, nil
	case byteBase64Conversion:
		token, err := d.readHeader(view[1:])
		if err != nil {
			return Value{}, 0, err
		}
		if token.Type != ByteString {
			return Value{}, 0, fmt.Errorf("%w: tag 22 must precede a byte string, got %s",
				ErrInvalidInitialByte, token.Type)
		}
		bytes, size, err := payload(view[1:], token)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Kind: KindBinary, Bytes: bytes}, 1 + size, nil
	}

	token, err := d.readHeader(view)
	if err != nil {
		return Value{}, 0, err
	}
	switch token.Type {
	case Unsigned:
		return Value{Kind: KindUnsigned, Uint: token.Value}, token.HeaderLen, nil
	case Negative:
		return Value{Kind: KindNegative, Uint: token.Value}, token.HeaderLen, nil
	case String, ByteString:
		bytes, size, err := payload(view, token)
		if err != nil {
			return Value{}, 0, err
		}
		kind := KindString
		if token.Type == ByteString {
			kind = KindBytes
		}
		return Value{Kind: kind, Bytes: bytes}, size, nil
	}
	return Value{}, 0, fmt.Errorf("%w: 0x%02x (%s)", ErrInvalidInitialByte, view[0], token.Type)
}

func call(callback func() error) error {
	if callback == nil {
		return nil
	}
	return callback()
}
