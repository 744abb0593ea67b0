// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the envcodec subcommands for converting,
// inspecting and validating envelope-encoded binary data.
//
// Subcommands:
//
//   - decode: binary to JSON through the JSON bridge.
//   - encode: JSON to binary, envelope-wrapping containers by default.
//   - diag: RFC 8949 diagnostic notation of the standardized form.
//   - validate: profile checks, then an independent CBOR check.
//   - fields: list the top-level fields of a message with digests.
//   - lookup: extract one field of a message without decoding the rest.
//   - standardize: rewrite envelopes as tag 24 for general CBOR tools.
//   - digest: the BLAKE3 content digest of a value or message.
//
// All subcommands read from stdin or from a trailing file path
// argument. The --hex flag treats binary input as hex text, with
// whitespace ignored, for pasting wire dumps.
package wire
