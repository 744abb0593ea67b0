// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/codec"
)

type diagParams struct {
	commonParams
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex text"`
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Show RFC 8949 diagnostic notation",
		Description: `Read one encoded value and write RFC 8949 diagnostic notation to stdout.

Unlike JSON output, diagnostic notation preserves every type: integer
vs double, byte strings vs text strings, and indefinite-length
containers. Envelopes are shown as tag 24 around an embedded item:

  24(<<{_ "action": "status"}>>)       an envelope holding a map
  22(h'00010203')                      a binary byte string`,
		Usage:  "envcodec diag [-x] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Encode JSON and inspect the binary structure",
				Command:     "echo '{\"count\":42}' | envcodec encode | envcodec diag",
			},
		},
		Run: func(args []string) error {
			if _, _, err := params.setup("diag"); err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("diag", remainingArgs); err != nil {
				return err
			}
			return diagData(data, os.Stdout)
		},
	}
}

// diagData writes the diagnostic notation of data to w.
func diagData(data []byte, w io.Writer) error {
	notation, err := codec.Diagnose(data)
	if err != nil {
		return failure("diagnose", err)
	}
	if _, err := fmt.Fprintln(w, notation); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
