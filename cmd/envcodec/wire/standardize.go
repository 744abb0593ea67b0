// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/codec"
	"github.com/bureau-foundation/envcodec/lib/digest"
)

type standardizeParams struct {
	commonParams
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex text"`
}

func standardizeCommand() *cli.Command {
	var params standardizeParams

	return &cli.Command{
		Name:    "standardize",
		Summary: "Rewrite envelopes as standard CBOR tag 24",
		Description: `Read one encoded value and write it with every envelope rewritten as
RFC 8949 tag 24 (embedded CBOR) over the same contents. The result is
plain CBOR that general tools such as cbor.me or cbor-diag can read.
Enclosing envelope lengths grow by one byte per nested envelope.`,
		Usage:  "envcodec standardize [-x] [file]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, logger, err := params.setup("standardize")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("standardize", remainingArgs); err != nil {
				return err
			}

			standard, err := codec.Standardize(data, cfg.DecodeOptions())
			if err != nil {
				return failure("standardize", err)
			}
			logger.Debug("standardized", "input_bytes", len(data), "output_bytes", len(standard))
			if _, err := os.Stdout.Write(standard); err != nil {
				return cli.Internal("write output: %w", err)
			}
			return nil
		},
	}
}

type digestParams struct {
	commonParams
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex text"`
}

func digestCommand() *cli.Command {
	var params digestParams

	return &cli.Command{
		Name:    "digest",
		Summary: "Print the BLAKE3 digest of a value",
		Description: `Read one encoded value, check that it is well-formed, and print its
keyed BLAKE3 digest in hex. Envelope-wrapped messages and other values
hash under separate keys, so a message and a bare value that share
bytes never share a digest.`,
		Usage:  "envcodec digest [-x] [file]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			cfg, _, err := params.setup("digest")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("digest", remainingArgs); err != nil {
				return err
			}
			return digestData(data, os.Stdout, cfg.DecodeOptions())
		},
	}
}

func digestData(data []byte, w io.Writer, options codec.DecodeOptions) error {
	if err := codec.Decode(data, codec.Handler{}, options); err != nil {
		return failure("digest", err)
	}
	sum := digest.Value(data)
	if codec.IsMessage(data) {
		sum = digest.Message(data)
	}
	if _, err := fmt.Fprintln(w, sum); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
