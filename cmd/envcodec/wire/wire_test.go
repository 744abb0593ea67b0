// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/codec"
	"github.com/bureau-foundation/envcodec/lib/config"
	"github.com/bureau-foundation/envcodec/lib/digest"
	"github.com/bureau-foundation/envcodec/lib/jsonbridge"
)

var discard = slog.New(slog.DiscardHandler)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := codec.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal(%v): %v", v, err)
	}
	return data
}

func requireCategory(t *testing.T, err error, category cli.ErrorCategory) {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v (%T), want a ToolError", err, err)
	}
	if toolErr.Category != category {
		t.Errorf("category = %q, want %q (error: %v)", toolErr.Category, category, err)
	}
}

func TestDecodeData(t *testing.T) {
	data := mustMarshal(t, map[string]any{"a": 1, "b": []any{true, nil}})
	cfg := config.Default()

	tests := []struct {
		name   string
		pretty bool
		want   string
	}{
		{
			name: "compact",
			want: `{"a":1,"b":[true,null]}` + "\n",
		},
		{
			name:   "pretty",
			pretty: true,
			want:   "{\n  \"a\": 1,\n  \"b\": [\n    true,\n    null\n  ]\n}\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			if err := decodeData(data, &output, cfg.BridgeOptions(test.pretty), discard); err != nil {
				t.Fatalf("decodeData: %v", err)
			}
			if output.String() != test.want {
				t.Errorf("output = %q, want %q", output.String(), test.want)
			}
		})
	}
}

func TestDecodeData_Errors(t *testing.T) {
	cfg := config.Default()

	t.Run("malformed input", func(t *testing.T) {
		err := decodeData([]byte{0x1c}, io.Discard, cfg.BridgeOptions(false), discard)
		requireCategory(t, err, cli.CategoryValidation)
	})

	t.Run("strict rejects bare value", func(t *testing.T) {
		options := cfg.BridgeOptions(false)
		options.Decode = strictDecode(options.Decode)
		err := decodeData([]byte{0x01}, io.Discard, options, discard)
		requireCategory(t, err, cli.CategoryValidation)
		if !errors.Is(err, codec.ErrMessageExpected) {
			t.Errorf("error = %v, want ErrMessageExpected", err)
		}
	})

	t.Run("integer beyond JSON range", func(t *testing.T) {
		err := decodeData(mustMarshal(t, uint64(1)<<60), io.Discard, cfg.BridgeOptions(false), discard)
		if !errors.Is(err, jsonbridge.ErrNumberOutOfRange) {
			t.Errorf("error = %v, want ErrNumberOutOfRange", err)
		}
	})
}

func TestEncodeData(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name   string
		modify func(*jsonbridge.Options)
		input  string
		want   []byte
	}{
		{
			name:  "enveloped map",
			input: `{"a":1}`,
			want:  []byte{0xd8, 0x5a, 0x00, 0x00, 0x00, 0x05, 0xbf, 0x61, 0x61, 0x01, 0xff},
		},
		{
			name:   "plain map",
			modify: func(o *jsonbridge.Options) { o.Encoder.EnvelopeContainers = false },
			input:  `{"a":1}`,
			want:   []byte{0xbf, 0x61, 0x61, 0x01, 0xff},
		},
		{
			name:  "comments accepted by default",
			input: "// note\ntrue",
			want:  []byte{0xf5},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			options := cfg.BridgeOptions(false)
			if test.modify != nil {
				test.modify(&options)
			}
			var output bytes.Buffer
			if err := encodeData([]byte(test.input), &output, options, discard); err != nil {
				t.Fatalf("encodeData: %v", err)
			}
			if !bytes.Equal(output.Bytes(), test.want) {
				t.Errorf("output = % x, want % x", output.Bytes(), test.want)
			}
		})
	}
}

func TestEncodeData_Errors(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name   string
		input  string
		strict bool
	}{
		{name: "unterminated", input: `{"a":`},
		{name: "trailing value", input: `1 2`},
		{name: "comment when disallowed", input: "// note\ntrue", strict: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			options := cfg.BridgeOptions(false)
			if test.strict {
				options.AllowComments = false
			}
			err := encodeData([]byte(test.input), io.Discard, options, discard)
			requireCategory(t, err, cli.CategoryValidation)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	input := `{"count":42,"name":"cafe","ratio":0.5,"tags":["x","y"]}`

	var binary bytes.Buffer
	if err := encodeData([]byte(input), &binary, cfg.BridgeOptions(false), discard); err != nil {
		t.Fatalf("encodeData: %v", err)
	}
	var text bytes.Buffer
	if err := decodeData(binary.Bytes(), &text, cfg.BridgeOptions(false), discard); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if got := strings.TrimSpace(text.String()); got != input {
		t.Errorf("round trip = %s, want %s", got, input)
	}
}

func TestDiagData(t *testing.T) {
	var output bytes.Buffer
	if err := diagData(mustMarshal(t, map[string]any{"action": "status"}), &output); err != nil {
		t.Fatalf("diagData: %v", err)
	}
	notation := output.String()
	if !strings.HasPrefix(notation, "24(") {
		t.Errorf("notation = %q, want an envelope shown as tag 24", notation)
	}
	if !strings.Contains(notation, `"action"`) || !strings.Contains(notation, `"status"`) {
		t.Errorf("notation = %q, want the map contents", notation)
	}

	err := diagData([]byte{0x9f, 0x01}, io.Discard)
	requireCategory(t, err, cli.CategoryValidation)
}

func TestValidateData(t *testing.T) {
	message := mustMarshal(t, map[string]any{"a": []any{1, 2}})
	plain, err := codec.MarshalWith(map[string]any{"a": 1}, codec.EncoderOptions{})
	if err != nil {
		t.Fatalf("MarshalWith: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		options  codec.DecodeOptions
		standard bool
		valid    bool
	}{
		{name: "message", data: message, valid: true},
		{name: "strict message", data: message, options: strictDecode(codec.DecodeOptions{}), valid: true},
		{name: "bare scalar", data: []byte{0x01}, valid: true},
		{name: "strict bare scalar", data: []byte{0x01}, options: strictDecode(codec.DecodeOptions{}), valid: false},
		{name: "truncated", data: message[:len(message)-1], valid: false},
		{name: "trailing data", data: append(bytes.Clone(message), 0x01), valid: false},
		{name: "standard plain", data: plain, standard: true, valid: true},
		{name: "standard rejects raw envelopes", data: message, standard: true, valid: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			err := validateData(test.data, &output, test.options, test.standard, discard)
			if test.valid {
				if err != nil {
					t.Fatalf("validateData: %v (output %q)", err, output.String())
				}
				if output.String() != "valid\n" {
					t.Errorf("output = %q, want valid", output.String())
				}
				return
			}
			var exitErr *cli.ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != 1 {
				t.Fatalf("error = %v, want ExitError code 1", err)
			}
			if !strings.HasPrefix(output.String(), "invalid: ") {
				t.Errorf("output = %q, want an invalid report", output.String())
			}
		})
	}
}

func TestListFields(t *testing.T) {
	data := mustMarshal(t, map[string]any{"a": 1, "b": []any{true}})

	entries, err := listFields(data, codec.DecodeOptions{})
	if err != nil {
		t.Fatalf("listFields: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Key != "a" || entries[0].Size != 1 {
		t.Errorf("entries[0] = %+v, want key a with a 1-byte value", entries[0])
	}
	// An envelope header, the array start, true and the stop byte.
	if entries[1].Key != "b" || entries[1].Size != codec.EnvelopeHeaderSize+3 {
		t.Errorf("entries[1] = %+v, want key b with a 9-byte value", entries[1])
	}
	for _, entry := range entries {
		raw := data[entry.Offset : entry.Offset+entry.Size]
		if want := digest.Value(raw).String(); entry.Digest != want {
			t.Errorf("digest of %q = %s, want %s", entry.Key, entry.Digest, want)
		}
	}

	var table bytes.Buffer
	if err := writeFieldTable(&table, entries); err != nil {
		t.Fatalf("writeFieldTable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "KEY") {
		t.Fatalf("table = %q, want a header and two rows", table.String())
	}
	short, _ := digest.Parse(entries[0].Digest)
	if !strings.Contains(lines[1], short.Short()) {
		t.Errorf("row %q should carry the short digest %s", lines[1], short.Short())
	}

	params := fieldsParams{JSONOutput: cli.JSONOutput{OutputJSON: true}}
	var jsonOutput bytes.Buffer
	if done, err := params.EmitJSON(&jsonOutput, entries); !done || err != nil {
		t.Fatalf("EmitJSON = (%v, %v)", done, err)
	}
	var decoded []fieldEntry
	if err := json.Unmarshal(jsonOutput.Bytes(), &decoded); err != nil {
		t.Fatalf("parse JSON output: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Digest != entries[1].Digest {
		t.Errorf("JSON output = %+v", decoded)
	}
}

func TestListFields_NotMessage(t *testing.T) {
	_, err := listFields(mustMarshal(t, []any{1}), codec.DecodeOptions{})
	requireCategory(t, err, cli.CategoryValidation)
}

func TestLookupField(t *testing.T) {
	data := mustMarshal(t, map[string]any{"action": "status", "args": []any{true}})
	cfg := config.Default()

	raw, err := lookupField(data, "args", cfg.DecodeOptions())
	if err != nil {
		t.Fatalf("lookupField: %v", err)
	}
	var output bytes.Buffer
	if err := decodeData(raw, &output, cfg.BridgeOptions(false), discard); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if output.String() != "[true]\n" {
		t.Errorf("args = %q, want [true]", output.String())
	}

	_, err = lookupField(data, "missing", cfg.DecodeOptions())
	requireCategory(t, err, cli.CategoryNotFound)
}

func TestDigestData(t *testing.T) {
	message := mustMarshal(t, map[string]any{"a": 1})
	scalar := mustMarshal(t, "a")
	array := mustMarshal(t, []any{1, 2})
	wrappedScalar, err := codec.AppendEnvelope(nil, scalar)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		want digest.Digest
	}{
		{name: "message", data: message, want: digest.Message(message)},
		{name: "value", data: scalar, want: digest.Value(scalar)},
		{name: "enveloped array", data: array, want: digest.Value(array)},
		{name: "enveloped scalar", data: wrappedScalar, want: digest.Value(wrappedScalar)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			if err := digestData(test.data, &output, codec.DecodeOptions{}); err != nil {
				t.Fatalf("digestData: %v", err)
			}
			if want := fmt.Sprintln(test.want); output.String() != want {
				t.Errorf("output = %q, want %q", output.String(), want)
			}
		})
	}

	err = digestData([]byte{0x61}, io.Discard, codec.DecodeOptions{})
	requireCategory(t, err, cli.CategoryValidation)
}

func TestFailure(t *testing.T) {
	inputErr := &codec.DecodeError{Err: codec.ErrTruncatedInput, Offset: 3}
	requireCategory(t, failure("decode", inputErr), cli.CategoryValidation)
	requireCategory(t, failure("decode", io.ErrClosedPipe), cli.CategoryInternal)

	err := failure("decode", inputErr)
	if !errors.Is(err, codec.ErrTruncatedInput) {
		t.Errorf("failure should keep the chain: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "decode: ") {
		t.Errorf("error = %q, want the action prefix", err)
	}
}
