// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/jsonbridge"
)

type encodeParams struct {
	commonParams
	NoEnvelopes bool `json:"no_envelopes" flag:"no-envelopes" desc:"write plain containers, readable by any CBOR decoder"`
	NoComments  bool `json:"no_comments"  flag:"no-comments"  desc:"reject comments and trailing commas in the JSON input"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON to binary data",
		Description: `Read one JSON value from stdin (or a file argument) and write its
binary encoding to stdout.

Every array and map is wrapped in an envelope unless --no-envelopes is
given or the configuration turns envelopes off. Integers within 2^53-1
in magnitude stay integers; every other number becomes a double.
Comments and trailing commas are accepted unless --no-comments is set.

The output is binary. Pipe to "envcodec diag" or "xxd" to inspect.`,
		Usage:  "envcodec encode [--no-envelopes] [--no-comments] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Encode JSON to binary",
				Command:     "echo '{\"action\":\"status\"}' | envcodec encode > request.bin",
			},
			{
				Description: "Round-trip: encode then decode",
				Command:     "echo '{\"count\":42}' | envcodec encode | envcodec decode",
			},
		},
		Run: func(args []string) error {
			cfg, logger, err := params.setup("encode")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, false, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("encode", remainingArgs); err != nil {
				return err
			}

			options := cfg.BridgeOptions(false)
			if params.NoEnvelopes {
				options.Encoder.EnvelopeContainers = false
			}
			if params.NoComments {
				options.AllowComments = false
			}
			return encodeData(data, os.Stdout, options, logger)
		},
	}
}

// encodeData converts one JSON value to binary and writes it to w.
func encodeData(text []byte, w io.Writer, options jsonbridge.Options, logger *slog.Logger) error {
	output, err := jsonbridge.New(nil, options).FromJSON(text)
	if err != nil {
		return failure("encode", err)
	}
	logger.Debug("encoded",
		"input_bytes", len(text),
		"output_bytes", len(output),
		"envelopes", options.Encoder.EnvelopeContainers,
	)

	if _, err := w.Write(output); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
