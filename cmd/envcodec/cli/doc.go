// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the envcodec tool.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], flags bound either from a
// [pflag.FlagSet] factory or from a tagged params struct ([BindFlags]),
// and a Run function. [Command.Execute] handles flag parsing, subcommand
// routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned by commands are usually [ToolError] values, whose
// category selects the process exit code. [ExitError] exits quietly
// after a command has printed its own report. [NewCommandLogger] builds
// the slog logger every command writes diagnostics through.
package cli
