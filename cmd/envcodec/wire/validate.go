// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/codec"
)

type validateParams struct {
	commonParams
	HexInput bool `json:"hex_input" flag:"hex,x"    desc:"treat input as hex text"`
	Strict   bool `json:"strict"    flag:"strict"   desc:"require minimal headers and an envelope-wrapped message"`
	Standard bool `json:"standard"  flag:"standard" desc:"check as general CBOR without the envelope profile"`
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that input is well-formed",
		Description: `Read one encoded value and check it. Prints "valid" and exits 0, or
prints "invalid:" with the reason and byte offset and exits 1.

The profile decoder checks structure first: balanced containers,
envelopes that hold exactly one value and end at their boundary, string
map keys, and no trailing data. The standardized form is then checked
again by an independent general CBOR decoder.

With --strict, headers must also use the minimal width and the input
must be an envelope-wrapped map. With --standard, the input is checked
only as general CBOR, for output of "envcodec standardize" or of
"envcodec encode --no-envelopes".`,
		Usage:  "envcodec validate [-x] [--strict | --standard] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Validate output of the encoder",
				Command:     "echo '{\"count\":42}' | envcodec encode | envcodec validate --strict",
			},
			{
				Description: "Validate a hex dump",
				Command:     "echo 'd8 5a 00 00 00 02 bf ff' | envcodec validate -x",
			},
		},
		Run: func(args []string) error {
			if params.Strict && params.Standard {
				return cli.Validation("--strict and --standard are mutually exclusive")
			}
			cfg, logger, err := params.setup("validate")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("validate", remainingArgs); err != nil {
				return err
			}

			options := cfg.DecodeOptions()
			if params.Strict {
				options = strictDecode(options)
			}
			return validateData(data, os.Stdout, options, params.Standard, logger)
		},
	}
}

// validateData reports on w whether data is well-formed. An invalid
// input prints its reason and returns an ExitError with code 1.
func validateData(data []byte, w io.Writer, options codec.DecodeOptions, standard bool, logger *slog.Logger) error {
	var err error
	if standard {
		err = codec.WellformedStandard(data)
	} else {
		err = codec.Wellformed(data, options)
	}

	if err != nil {
		logger.Debug("validation failed", "bytes", len(data), "error", err)
		fmt.Fprintf(w, "invalid: %v\n", err)
		return &cli.ExitError{Code: 1}
	}

	logger.Debug("validation passed", "bytes", len(data), "message", codec.IsMessage(data))
	fmt.Fprintln(w, "valid")
	return nil
}
