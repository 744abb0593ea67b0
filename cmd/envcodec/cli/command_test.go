// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "envcodec",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "decode",
				Run: func(args []string) error {
					called = "decode"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"decode"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "decode" {
		t.Errorf("dispatched to %q, want %q", called, "decode")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "envcodec",
		Subcommands: []*Command{
			{
				Name: "message",
				Subcommands: []*Command{
					{
						Name: "fields",
						Run: func(args []string) error {
							called = "message fields"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"message", "fields", "input.bin"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "message fields" {
		t.Errorf("dispatched to %q, want %q", called, "message fields")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "input.bin" {
		t.Errorf("args = %v, want [input.bin]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var indent string
	var target string

	command := &Command{
		Name: "decode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.StringVar(&indent, "indent", "  ", "indentation")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--indent", "\t", "message.bin"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if indent != "\t" {
		t.Errorf("indent = %q, want tab", indent)
	}
	if target != "message.bin" {
		t.Errorf("target = %q, want %q", target, "message.bin")
	}
}

func TestCommand_Execute_Params(t *testing.T) {
	type decodeParams struct {
		Compact bool `flag:"compact,c" desc:"compact output"`
	}
	var params decodeParams
	var ran bool

	command := &Command{
		Name:   "decode",
		Params: func() any { return &params },
		Run: func(args []string) error {
			ran = true
			return nil
		},
	}

	if err := command.Execute([]string{"-c"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !ran || !params.Compact {
		t.Errorf("ran = %v, Compact = %v, want both true", ran, params.Compact)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "decode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.Bool("compact", false, "compact output")
			flagSet.Bool("strict", false, "strict checks")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--compcat"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --compact") {
		t.Errorf("error = %q, want suggestion for '--compact'", errStr)
	}
	if !strings.Contains(errStr, "compcat") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error = %#v, want a validation ToolError", err)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "decode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.Bool("compact", false, "compact output")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "envcodec",
		Subcommands: []*Command{
			{Name: "decode"},
			{Name: "encode"},
			{Name: "validate"},
		},
	}

	err := root.Execute([]string{"valdate"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"validate\"") {
		t.Errorf("error = %q, want suggestion for 'validate'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "envcodec",
		Subcommands: []*Command{
			{Name: "decode"},
			{Name: "encode"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_RunFallbackTakesPositional(t *testing.T) {
	var received []string
	root := &Command{
		Name:        "envcodec",
		Subcommands: []*Command{{Name: "decode"}},
		Run: func(args []string) error {
			received = args
			return nil
		},
	}

	if err := root.Execute([]string{"message.bin"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(received) != 1 || received[0] != "message.bin" {
		t.Errorf("args = %v, want [message.bin]", received)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "envcodec",
		Subcommands: []*Command{{Name: "decode"}},
	}
	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute(nil) = %v, want subcommand required", err)
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			ran := false
			command := &Command{
				Name: "decode",
				Run: func(args []string) error {
					ran = true
					return nil
				},
			}
			if err := command.Execute([]string{helpArg}); err != nil {
				t.Fatalf("Execute(%q) error: %v", helpArg, err)
			}
			if ran {
				t.Errorf("Execute(%q) ran the command instead of printing help", helpArg)
			}
		})
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	type params struct {
		Hex bool `flag:"hex,x" desc:"treat input as hex"`
	}
	root := &Command{Name: "envcodec"}
	command := &Command{
		Name:        "diag",
		Description: "Show diagnostic notation.",
		Usage:       "envcodec diag [-x] [file]",
		Params:      func() any { return &params{} },
		Examples: []Example{
			{Description: "Inspect a file", Command: "envcodec diag message.bin"},
		},
		parent: root,
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Show diagnostic notation.",
		"envcodec diag [-x] [file]",
		"--hex",
		"treat input as hex",
		"# Inspect a file",
		"envcodec diag message.bin",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_ListsSubcommands(t *testing.T) {
	root := &Command{
		Name: "envcodec",
		Subcommands: []*Command{
			{Name: "decode", Summary: "Binary to JSON"},
			{Name: "encode", Summary: "JSON to binary"},
		},
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{"Commands:", "decode", "Binary to JSON", "encode", "envcodec <command> --help"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}
