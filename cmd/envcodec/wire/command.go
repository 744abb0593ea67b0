// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "github.com/bureau-foundation/envcodec/cmd/envcodec/cli"

// Commands returns the data subcommands in help order.
func Commands() []*cli.Command {
	return []*cli.Command{
		DecodeCommand(),
		encodeCommand(),
		diagCommand(),
		validateCommand(),
		fieldsCommand(),
		lookupCommand(),
		standardizeCommand(),
		digestCommand(),
	}
}
