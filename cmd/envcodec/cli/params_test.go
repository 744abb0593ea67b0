// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

type sharedParams struct {
	ConfigPath string `flag:"config"    desc:"configuration file"`
	Verbose    bool   `flag:"verbose,v" desc:"debug logging"`
}

type testParams struct {
	sharedParams
	JSONOutput
	Hex      bool     `flag:"hex,x"     desc:"hex input"`
	Indent   string   `flag:"indent"    desc:"indentation" default:"  "`
	Depth    int      `flag:"max-depth" desc:"nesting limit" default:"600"`
	Keys     []string `flag:"key"       desc:"keys to show"`
	Untagged string
}

func TestBindFlags_Defaults(t *testing.T) {
	var params testParams
	flagSet := FlagsFromParams("test", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Indent != "  " {
		t.Errorf("Indent = %q, want two spaces", params.Indent)
	}
	if params.Depth != 600 {
		t.Errorf("Depth = %d, want 600", params.Depth)
	}
	if params.Hex || params.Verbose || params.OutputJSON {
		t.Error("bools should default to false")
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field should not become a flag")
	}
}

func TestBindFlags_Parse(t *testing.T) {
	var params testParams
	flagSet := FlagsFromParams("test", &params)

	args := []string{"-x", "-v", "--json", "--config", "/etc/envcodec.yaml",
		"--max-depth", "32", "--key", "a,b", "--key", "c", "input.bin"}
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !params.Hex || !params.Verbose || !params.OutputJSON {
		t.Errorf("bools not set: %+v", params)
	}
	if params.ConfigPath != "/etc/envcodec.yaml" {
		t.Errorf("ConfigPath = %q", params.ConfigPath)
	}
	if params.Depth != 32 {
		t.Errorf("Depth = %d, want 32", params.Depth)
	}
	if strings.Join(params.Keys, " ") != "a b c" {
		t.Errorf("Keys = %v, want [a b c]", params.Keys)
	}
	if remaining := flagSet.Args(); len(remaining) != 1 || remaining[0] != "input.bin" {
		t.Errorf("Args() = %v, want [input.bin]", remaining)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{
			name:   "not a pointer",
			params: testParams{},
			want:   "pointer to a struct",
		},
		{
			name: "unsupported type",
			params: &struct {
				Ratio float32 `flag:"ratio"`
			}{},
			want: "unsupported type",
		},
		{
			name: "bad bool default",
			params: &struct {
				Strict bool `flag:"strict" default:"maybe"`
			}{},
			want: "default for --strict",
		},
		{
			name: "bad int default",
			params: &struct {
				Depth int `flag:"depth" default:"deep"`
			}{},
			want: "default for --depth",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := BindFlags(test.params, pflag.NewFlagSet("test", pflag.ContinueOnError))
			if err == nil {
				t.Fatal("BindFlags() = nil, want error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %q, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestFlagsFromParams_PanicsOnBadParams(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams should panic on a non-pointer")
		}
	}()
	FlagsFromParams("test", testParams{})
}
