// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest names encoded values by content. A digest is a BLAKE3
// keyed hash of the exact wire bytes of a value, envelope included, so
// a sub-tree that was forwarded without being decoded can still be
// identified and deduplicated.
package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// domainKey separates digests of single values from digests of whole
// messages. The bytes are the ASCII domain name, zero-padded.
type domainKey [32]byte

var (
	valueDomainKey = domainKey{
		'e', 'n', 'v', 'c', 'o', 'd', 'e', 'c', '.', 'v', 'a', 'l', 'u', 'e',
	}

	messageDomainKey = domainKey{
		'e', 'n', 'v', 'c', 'o', 'd', 'e', 'c', '.', 'm', 'e', 's', 's', 'a', 'g', 'e',
	}
)

// Value digests the encoded bytes of one value.
func Value(encoded []byte) Digest {
	return keyedHash(valueDomainKey, encoded)
}

// Message digests a complete top-level message.
func Message(encoded []byte) Digest {
	return keyedHash(messageDomainKey, encoded)
}

// String returns the hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short is the first 12 hex characters, for display.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

// Parse reads a 64-character hex digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}

func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
