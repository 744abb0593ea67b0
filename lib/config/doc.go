// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for envcodec.
//
// Configuration comes from a single file named either by the
// ENVCODEC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search; without a file the built-in defaults apply.
//
// The file may carry a strict section that replaces base values when
// [Config].Profile is strict. A strict profile with no such section
// turns on minimal-encoding and message checks.
//
// Key exports:
//
//   - [Config] -- master struct with Decode, Encode, JSON
//   - [Default] -- the permissive defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.DecodeOptions], [Config.EncoderOptions],
//     [Config.BridgeOptions] -- settings for the codec and bridge
package config
