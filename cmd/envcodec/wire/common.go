// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/envcodec/cmd/envcodec/cli"
	"github.com/bureau-foundation/envcodec/lib/codec"
	"github.com/bureau-foundation/envcodec/lib/config"
	"github.com/bureau-foundation/envcodec/lib/jsonbridge"
)

// commonParams are the flags every subcommand accepts.
type commonParams struct {
	ConfigPath string `json:"config"  flag:"config"    desc:"YAML configuration file (default: $ENVCODEC_CONFIG)"`
	Verbose    bool   `json:"verbose" flag:"verbose,v" desc:"log debug detail to stderr"`
}

// setup loads configuration and builds the command's logger.
func (p *commonParams) setup(command string) (*config.Config, *slog.Logger, error) {
	logger := cli.NewCommandLogger(p.Verbose).With("command", command)

	var (
		cfg *config.Config
		err error
	)
	if p.ConfigPath != "" {
		cfg, err = config.LoadFile(p.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, cli.Validation("load configuration: %w", err)
	}

	logger.Debug("configuration loaded",
		"profile", cfg.Profile,
		"max_depth", cfg.Decode.MaxDepth,
		"require_minimal", cfg.Decode.RequireMinimal,
		"require_message", cfg.Decode.RequireMessage,
	)
	return cfg, logger, nil
}

// strictDecode turns on both input checks of the strict profile.
func strictDecode(options codec.DecodeOptions) codec.DecodeOptions {
	options.RequireMinimal = true
	options.RequireMessage = true
	return options
}

// failure classifies err: problems with the input are validation errors,
// anything else is internal.
func failure(action string, err error) error {
	var (
		decodeErr *codec.DecodeError
		jsonErr   *jsonbridge.Error
	)
	if errors.As(err, &decodeErr) || errors.As(err, &jsonErr) ||
		errors.Is(err, codec.ErrMessageExpected) {
		return &cli.ToolError{Category: cli.CategoryValidation, Err: fmt.Errorf("%s: %w", action, err)}
	}
	return cli.Internal("%s: %w", action, err)
}

// noArguments rejects positional arguments left after the input file.
func noArguments(command string, args []string) error {
	if len(args) > 0 {
		return cli.Validation("%s takes no positional arguments besides an optional file path, got %q", command, args[0])
	}
	return nil
}
