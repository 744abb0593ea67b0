// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestFieldsOfEnvelopedMessage(t *testing.T) {
	message, err := Marshal(map[string]any{
		"a": int64(1),
		"b": []any{"x", map[string]any{"y": true}},
		"c": "text",
	})
	if err != nil {
		t.Fatal(err)
	}

	fields, err := Fields(message, DecodeOptions{})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	var keys []string
	for _, field := range fields {
		keys = append(keys, field.Key)
		if !bytes.Equal(message[field.Offset:field.Offset+len(field.Raw)], field.Raw) {
			t.Errorf("field %q: Raw does not match the message at offset %d", field.Key, field.Offset)
		}
	}
	if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Fatalf("keys = %v", keys)
	}

	if !bytes.Equal(fields[0].Raw, []byte{0x01}) {
		t.Errorf("a = %x, want 01", fields[0].Raw)
	}
	if fields[1].Raw[0] != 0xd8 {
		t.Errorf("b should be an envelope, got %x", fields[1].Raw)
	}
	value, err := Unmarshal(fields[1].Raw)
	if err != nil {
		t.Fatalf("Unmarshal(b): %v", err)
	}
	want := []any{"x", map[string]any{"y": true}}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("b = %#v, want %#v", value, want)
	}
}

func TestFieldsSkipsEnvelopesUnseen(t *testing.T) {
	// The value of "skip" is an envelope whose contents are garbage.
	// Fields must not look inside it.
	encoder := NewEncoder(EncoderOptions{})
	encoder.MapStart()
	encoder.Key("skip")
	garbage, err := AppendEnvelope(nil, []byte{0xff, 0xff, 0x1c})
	if err != nil {
		t.Fatal(err)
	}
	encoder.Raw(garbage)
	encoder.Key("after")
	encoder.Null()
	encoder.MapEnd()
	data, err := encoder.Finish()
	if err != nil {
		t.Fatal(err)
	}

	fields, err := Fields(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 2 || !bytes.Equal(fields[0].Raw, garbage) || fields[1].Key != "after" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestFieldsOfBareMap(t *testing.T) {
	data, err := MarshalWith(map[string]any{"list": []any{int64(1), int64(2)}, "n": nil}, EncoderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	fields, err := Fields(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields", len(fields))
	}
	if want := []byte{0x9f, 0x01, 0x02, 0xff}; !bytes.Equal(fields[0].Raw, want) {
		t.Errorf("list = %x, want %x", fields[0].Raw, want)
	}
	if !bytes.Equal(fields[1].Raw, []byte{0xf6}) {
		t.Errorf("n = %x", fields[1].Raw)
	}
}

func TestFieldsRejectsNonMessages(t *testing.T) {
	array, err := Marshal([]any{int64(1)})
	if err != nil {
		t.Fatal(err)
	}
	for _, data := range [][]byte{{0x01}, array, {0x9f, 0xff}} {
		if _, err := Fields(data, DecodeOptions{}); !errors.Is(err, ErrMessageExpected) {
			t.Errorf("Fields(%x) error = %v, want ErrMessageExpected", data, err)
		}
	}
}

func TestLookup(t *testing.T) {
	message, err := Marshal(map[string]any{"id": "abc", "n": int64(2)})
	if err != nil {
		t.Fatal(err)
	}
	raw, found, err := Lookup(message, "n", DecodeOptions{})
	if err != nil || !found || !bytes.Equal(raw, []byte{0x02}) {
		t.Errorf("Lookup(n) = %x, %v, %v", raw, found, err)
	}
	if _, found, err := Lookup(message, "absent", DecodeOptions{}); err != nil || found {
		t.Errorf("Lookup(absent) = %v, %v", found, err)
	}
}
