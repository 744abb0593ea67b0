// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"testing"

	"github.com/bureau-foundation/envcodec/lib/codec"
)

func TestValueDeterministic(t *testing.T) {
	encoded, err := codec.Marshal(map[string]any{"a": []any{int64(1), "two"}})
	if err != nil {
		t.Fatal(err)
	}
	if Value(encoded) != Value(append([]byte(nil), encoded...)) {
		t.Error("equal bytes produced different digests")
	}
}

func TestDomainsDiffer(t *testing.T) {
	encoded := codec.AppendString(nil, "same bytes")
	if Value(encoded) == Message(encoded) {
		t.Error("value and message domains collide")
	}
}

func TestDistinctValues(t *testing.T) {
	first := Value(codec.AppendInt(nil, 1))
	second := Value(codec.AppendInt(nil, 2))
	if first == second {
		t.Error("different values share a digest")
	}
}

func TestParseRoundTrip(t *testing.T) {
	digest := Value([]byte{0xf6})
	parsed, err := Parse(digest.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != digest {
		t.Errorf("Parse(%s) = %s", digest, parsed)
	}
	if len(digest.String()) != 64 || len(digest.Short()) != 12 {
		t.Errorf("unexpected lengths: %q %q", digest.String(), digest.Short())
	}
	if digest.String()[:12] != digest.Short() {
		t.Errorf("Short %q is not a prefix of %q", digest.Short(), digest)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "zz", "abcd"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded", input)
		}
	}
}
