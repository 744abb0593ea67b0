// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/jsonbridge"
)

type decodeParams struct {
	commonParams
	Compact  bool `json:"compact"   flag:"compact,c" desc:"compact output (no indentation)"`
	HexInput bool `json:"hex_input" flag:"hex,x"     desc:"treat input as hex text"`
	Strict   bool `json:"strict"    flag:"strict"    desc:"require minimal headers and an envelope-wrapped message"`
}

// DecodeCommand returns the "decode" command. The root command also runs
// it when no subcommand is named.
func DecodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert binary data to JSON",
		Description: `Read one encoded value and write the equivalent JSON to stdout.

Envelopes are entered transparently. Integers up to 2^53-1 in magnitude
are written exactly; larger ones fail rather than lose precision.
Doubles that are NaN or infinite become null. Byte strings tagged as
binary are written as base64, and every character outside printable
ASCII is written as a \u escape.

By default output is indented per the configuration (two spaces). Use
-c for compact single-line output.`,
		Usage:  "envcodec decode [-c] [-x] [--strict] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Decode a message file to pretty JSON",
				Command:     "envcodec decode message.bin",
			},
			{
				Description: "Decode a hex dump",
				Command:     "echo 'd8 5a 00 00 00 06 bf 61 61 01 ff' | envcodec decode -x -c",
			},
		},
		Run: func(args []string) error {
			cfg, logger, err := params.setup("decode")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("decode", remainingArgs); err != nil {
				return err
			}

			options := cfg.BridgeOptions(!params.Compact)
			if params.Strict {
				options.Decode = strictDecode(options.Decode)
			}
			return decodeData(data, os.Stdout, options, logger)
		},
	}
}

// decodeData converts one binary value to JSON and writes it to w with a
// trailing newline.
func decodeData(data []byte, w io.Writer, options jsonbridge.Options, logger *slog.Logger) error {
	output, err := jsonbridge.New(nil, options).ToJSON(data)
	if err != nil {
		return failure("decode", err)
	}
	logger.Debug("decoded", "input_bytes", len(data), "output_bytes", len(output))

	if _, err := fmt.Fprintf(w, "%s\n", output); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
