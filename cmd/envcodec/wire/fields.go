// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/codec"
	"github.com/bureau-foundation/envcodec/lib/digest"
)

type fieldsParams struct {
	commonParams
	cli.JSONOutput
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex text"`
}

// fieldEntry is one row of "fields" output.
type fieldEntry struct {
	Key    string `json:"key"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Digest string `json:"digest"`
}

func fieldsCommand() *cli.Command {
	var params fieldsParams

	return &cli.Command{
		Name:    "fields",
		Summary: "List the top-level fields of a message",
		Description: `Read a message (a map, bare or envelope-wrapped) and list its
top-level fields: key, byte offset of the value, encoded size, and the
BLAKE3 digest of the encoded value.

Field values that are envelopes are skipped in constant time without
being decoded, so listing a large message costs little more than
reading its keys.`,
		Usage:  "envcodec fields [-x] [--json] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "List fields as a table",
				Command:     "envcodec fields message.bin",
			},
			{
				Description: "List fields as JSON",
				Command:     "envcodec fields --json message.bin",
			},
		},
		Run: func(args []string) error {
			cfg, _, err := params.setup("fields")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("fields", remainingArgs); err != nil {
				return err
			}

			entries, err := listFields(data, cfg.DecodeOptions())
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, entries); done {
				return err
			}
			return writeFieldTable(os.Stdout, entries)
		},
	}
}

func listFields(data []byte, options codec.DecodeOptions) ([]fieldEntry, error) {
	fields, err := codec.Fields(data, options)
	if err != nil {
		return nil, failure("list fields", err)
	}
	entries := make([]fieldEntry, 0, len(fields))
	for _, field := range fields {
		entries = append(entries, fieldEntry{
			Key:    field.Key,
			Offset: field.Offset,
			Size:   len(field.Raw),
			Digest: digest.Value(field.Raw).String(),
		})
	}
	return entries, nil
}

func writeFieldTable(w io.Writer, entries []fieldEntry) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tOFFSET\tSIZE\tDIGEST")
	for _, entry := range entries {
		short := entry.Digest
		if parsed, err := digest.Parse(entry.Digest); err == nil {
			short = parsed.Short()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", entry.Key, entry.Offset, entry.Size, short)
	}
	if err := tw.Flush(); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

type lookupParams struct {
	commonParams
	Compact  bool `json:"compact"    flag:"compact,c"    desc:"compact output (no indentation)"`
	HexInput bool `json:"hex_input"  flag:"hex,x"        desc:"treat input as hex text"`
	Binary   bool `json:"binary"     flag:"binary,b"     desc:"write the field's encoded bytes instead of JSON"`
}

func lookupCommand() *cli.Command {
	var params lookupParams

	return &cli.Command{
		Name:    "lookup",
		Summary: "Extract one field of a message",
		Description: `Read a message and write the value stored under KEY. Other fields
are skipped without being decoded.

By default the value is written as JSON. With --binary the encoded
bytes are written unchanged, envelope included, so they can be
forwarded into another message.`,
		Usage:  "envcodec lookup [-c] [-x] [--binary] KEY [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Show the action field of a request",
				Command:     "envcodec lookup action request.bin",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("lookup requires a KEY argument")
			}
			key := args[0]
			cfg, logger, err := params.setup("lookup")
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args[1:], params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			if err := noArguments("lookup", remainingArgs); err != nil {
				return err
			}

			raw, err := lookupField(data, key, cfg.DecodeOptions())
			if err != nil {
				return err
			}
			logger.Debug("field found", "key", key, "size", len(raw))

			if params.Binary {
				if _, err := os.Stdout.Write(raw); err != nil {
					return cli.Internal("write output: %w", err)
				}
				return nil
			}
			options := cfg.BridgeOptions(!params.Compact)
			// A field value need not be a message itself.
			options.Decode.RequireMessage = false
			return decodeData(raw, os.Stdout, options, logger)
		},
	}
}

func lookupField(data []byte, key string, options codec.DecodeOptions) ([]byte, error) {
	raw, found, err := codec.Lookup(data, key, options)
	if err != nil {
		return nil, failure("lookup", err)
	}
	if !found {
		return nil, cli.NotFound("key %q not in message", key)
	}
	return raw, nil
}

