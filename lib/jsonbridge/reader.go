// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonbridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/envcodec/lib/codec"
)

// DefaultMaxDepth bounds JSON nesting, matching the stack limit of the
// binary decoder for envelope-wrapped containers.
const DefaultMaxDepth = codec.DefaultMaxDepth / 2

type readFrame struct {
	isMap   bool
	keyNext bool
}

// reader feeds JSON tokens to an encoder. The tokenizer is streaming,
// so nesting lives in r.stack rather than on the call stack.
type reader struct {
	platform Platform
	maxDepth int
	decoder  *json.Decoder
	encoder  *codec.Encoder
	stack    []readFrame
}

func newReader(text []byte, platform Platform, options Options) *reader {
	if options.AllowComments {
		text = jsonc.ToJSON(text)
	}
	decoder := json.NewDecoder(bytes.NewReader(text))
	decoder.UseNumber()

	maxDepth := options.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &reader{
		platform: platform,
		maxDepth: maxDepth,
		decoder:  decoder,
		encoder:  codec.NewEncoder(options.Encoder),
	}
}

func (r *reader) fail(err error) error {
	return &Error{Err: err, Offset: r.decoder.InputOffset()}
}

func (r *reader) read() ([]byte, error) {
	for {
		token, err := r.decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, r.fail(fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		}
		if err := r.token(token); err != nil {
			return nil, r.fail(err)
		}
		if err := r.encoder.Err(); err != nil {
			return nil, r.fail(err)
		}
		if len(r.stack) == 0 {
			break
		}
	}

	if _, err := r.decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, r.fail(codec.ErrTrailingData)
	}
	return r.encoder.Finish()
}

func (r *reader) token(token json.Token) error {
	var top *readFrame
	if len(r.stack) > 0 {
		top = &r.stack[len(r.stack)-1]
	}

	if delimiter, ok := token.(json.Delim); ok {
		switch delimiter {
		case '{', '[':
			if len(r.stack) >= r.maxDepth {
				return fmt.Errorf("%w: JSON nests deeper than %d", codec.ErrStackLimitExceeded, r.maxDepth)
			}
			if delimiter == '{' {
				r.encoder.MapStart()
			} else {
				r.encoder.ArrayStart()
			}
			r.stack = append(r.stack, readFrame{isMap: delimiter == '{', keyNext: delimiter == '{'})
		case '}':
			r.encoder.MapEnd()
			r.pop()
		case ']':
			r.encoder.ArrayEnd()
			r.pop()
		}
		return nil
	}

	if top != nil && top.isMap && top.keyNext {
		// The tokenizer only yields strings in key position.
		r.encoder.Key(token.(string))
		top.keyNext = false
		return nil
	}

	switch value := token.(type) {
	case nil:
		r.encoder.Null()
	case bool:
		r.encoder.Bool(value)
	case string:
		r.encoder.String(value)
	case json.Number:
		if err := r.number(string(value)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unexpected token %v", ErrInvalidJSON, token)
	}
	r.valueDone()
	return nil
}

func (r *reader) pop() {
	r.stack = r.stack[:len(r.stack)-1]
	r.valueDone()
}

func (r *reader) valueDone() {
	if len(r.stack) == 0 {
		return
	}
	if top := &r.stack[len(r.stack)-1]; top.isMap {
		top.keyNext = true
	}
}

// number writes integers in the safe range exactly and routes every
// other number through the Platform.
func (r *reader) number(text string) error {
	if !strings.ContainsAny(text, ".eE") {
		if integer, err := strconv.ParseInt(text, 10, 64); err == nil &&
			integer >= -MaxSafeInteger && integer <= MaxSafeInteger {
			r.encoder.Int(integer)
			return nil
		}
	}
	value, ok := r.platform.ParseDouble(text)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNumberOutOfRange, text)
	}
	r.encoder.Double(value)
	return nil
}
