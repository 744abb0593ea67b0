// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete envcodec command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/cmd/envcodec/wire"
	"github.com/bureau-foundation/envcodec/lib/version"
)

// Root builds and returns the envcodec command tree. With no subcommand
// name the root decodes, so "envcodec < message.bin" prints JSON.
func Root() *cli.Command {
	subcommands := append(wire.Commands(), versionCommand())

	root := &cli.Command{
		Name: "envcodec",
		Description: `envcodec: convert and inspect envelope-encoded binary data.

The binary format is a profile of CBOR in which arrays, maps and
messages are wrapped in skippable envelopes. Without a subcommand,
input is decoded to JSON (equivalent to "envcodec decode").

Configuration is read from the YAML file named by --config or by the
ENVCODEC_CONFIG environment variable.`,
		Subcommands: subcommands,
	}
	root.Run = func(args []string) error {
		return wire.DecodeCommand().Execute(args)
	}
	return root
}

func versionCommand() *cli.Command {
	var params struct {
		Full bool `flag:"full" desc:"include Go version and platform"`
	}
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Usage:   "envcodec version [--full]",
		Params:  func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments, got %q", args[0])
			}
			text := version.Info()
			if params.Full {
				text = version.Full()
			}
			fmt.Fprintln(os.Stdout, "envcodec "+text)
			return nil
		},
	}
}
