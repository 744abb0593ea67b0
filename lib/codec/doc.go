// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec implements a binary wire format that is a strict
// profile of CBOR (RFC 8949) extended with skippable envelopes.
//
// The profile uses a small set of items:
//
//   - unsigned and negative integers, always in the smallest width
//   - text strings and byte strings with definite lengths
//   - TAG(22) byte strings, rendered as base64 by the JSON bridge
//   - 64-bit doubles, never narrowed, so every bit pattern survives
//   - true, false and null
//   - indefinite-length arrays and maps closed by a stop byte
//   - envelopes: the byte d8 followed by a byte string with a fixed
//     4-byte length (d8 5a LL LL LL LL)
//
// An envelope holds exactly one encoded value. Its length is written
// as a placeholder when the envelope starts and patched when it ends,
// so an encoder never makes a second pass, and a reader that is not
// interested in the contents advances past them in constant time.
// [Encoder] wraps every container in an envelope by default.
//
// Building values:
//
//	encoder := codec.NewEncoder(codec.DefaultEncoderOptions())
//	encoder.MapStart()
//	encoder.Key("id")
//	encoder.Int(7)
//	encoder.MapEnd()
//	data, err := encoder.Finish()
//
// or with Go values:
//
//	data, err := codec.Marshal(map[string]any{"id": 7})
//	tree, err := codec.Unmarshal(data)
//
// [Decode] walks input in a single forward pass. Open containers live
// on an explicit stack bounded by [DecodeOptions].MaxDepth, so input
// from a peer cannot drive recursion. Events go to the callbacks of a
// [Handler]; the Envelope callback chooses per envelope whether to
// enter or skip it. [Fields] uses that to index a message without
// decoding its sub-trees.
//
// Because the bare d8 marker is not tag 24 in standard CBOR, general
// tools need [Standardize] first. [Diagnose] and [Wellformed] do that
// and then hand the result to github.com/fxamacker/cbor.
package codec
