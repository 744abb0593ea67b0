// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/envcodec/lib/codec"
	"github.com/bureau-foundation/envcodec/lib/jsonbridge"
)

// EnvironmentVariable names the configuration file read by [Load].
const EnvironmentVariable = "ENVCODEC_CONFIG"

// maxDepthLimit caps configured nesting limits.
const maxDepthLimit = 1 << 16

// Profile selects how strictly input is checked.
type Profile string

const (
	// Permissive accepts any sufficient header width and any top-level
	// value.
	Permissive Profile = "permissive"
	// Strict demands minimal headers and envelope-wrapped messages.
	Strict Profile = "strict"
)

// Config is the complete envcodec configuration.
type Config struct {
	// Profile is permissive or strict.
	Profile Profile `yaml:"profile"`

	// Decode configures reading of binary input.
	Decode DecodeConfig `yaml:"decode"`

	// Encode configures binary output.
	Encode EncodeConfig `yaml:"encode"`

	// JSON configures the JSON bridge.
	JSON JSONConfig `yaml:"json"`

	// StrictOverrides replace base values when Profile is strict.
	StrictOverrides *Overrides `yaml:"strict,omitempty"`
}

// Overrides holds fields a profile section may replace. Nil fields
// keep the base value.
type Overrides struct {
	MaxDepth       *int  `yaml:"max_depth,omitempty"`
	RequireMinimal *bool `yaml:"require_minimal,omitempty"`
	RequireMessage *bool `yaml:"require_message,omitempty"`
	AllowComments  *bool `yaml:"allow_comments,omitempty"`
}

// DecodeConfig configures the binary decoder.
type DecodeConfig struct {
	// MaxDepth bounds open containers plus entered envelopes.
	// Default: 600
	MaxDepth int `yaml:"max_depth"`

	// RequireMinimal rejects non-minimal integer and length headers.
	// Default: false
	RequireMinimal bool `yaml:"require_minimal"`

	// RequireMessage demands an envelope-wrapped map at top level.
	// Default: false
	RequireMessage bool `yaml:"require_message"`
}

// EncodeConfig configures the binary encoder.
type EncodeConfig struct {
	// EnvelopeContainers wraps every array and map in an envelope.
	// Default: true
	EnvelopeContainers bool `yaml:"envelope_containers"`
}

// JSONConfig configures the JSON bridge.
type JSONConfig struct {
	// AllowComments accepts comments and trailing commas in input.
	// Default: true
	AllowComments bool `yaml:"allow_comments"`

	// Indent is the per-level indentation of pretty output. Only spaces
	// and tabs are allowed.
	// Default: "  "
	Indent string `yaml:"indent"`

	// MaxDepth bounds JSON input nesting.
	// Default: 300
	MaxDepth int `yaml:"max_depth"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Profile: Permissive,
		Decode: DecodeConfig{
			MaxDepth: codec.DefaultMaxDepth,
		},
		Encode: EncodeConfig{
			EnvelopeContainers: true,
		},
		JSON: JSONConfig{
			AllowComments: true,
			Indent:        "  ",
			MaxDepth:      jsonbridge.DefaultMaxDepth,
		},
	}
}

// Load loads configuration from the file named by ENVCODEC_CONFIG. If
// the variable is unset the defaults are returned; there is no search
// for a file anywhere else.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults, applies the
// profile section and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyProfile()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyProfile applies the strict section. A strict profile without
// one turns on both strict checks.
func (c *Config) applyProfile() {
	if c.Profile != Strict {
		return
	}
	overrides := c.StrictOverrides
	if overrides == nil {
		enabled := true
		overrides = &Overrides{RequireMinimal: &enabled, RequireMessage: &enabled}
	}

	if overrides.MaxDepth != nil {
		c.Decode.MaxDepth = *overrides.MaxDepth
	}
	if overrides.RequireMinimal != nil {
		c.Decode.RequireMinimal = *overrides.RequireMinimal
	}
	if overrides.RequireMessage != nil {
		c.Decode.RequireMessage = *overrides.RequireMessage
	}
	if overrides.AllowComments != nil {
		c.JSON.AllowComments = *overrides.AllowComments
	}
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Profile != Permissive && c.Profile != Strict {
		errs = append(errs, fmt.Errorf("invalid profile: %q (want %s or %s)", c.Profile, Permissive, Strict))
	}

	if c.Decode.MaxDepth < 1 || c.Decode.MaxDepth > maxDepthLimit {
		errs = append(errs, fmt.Errorf("decode.max_depth must be between 1 and %d, got %d", maxDepthLimit, c.Decode.MaxDepth))
	}

	if c.JSON.MaxDepth < 1 || c.JSON.MaxDepth > maxDepthLimit {
		errs = append(errs, fmt.Errorf("json.max_depth must be between 1 and %d, got %d", maxDepthLimit, c.JSON.MaxDepth))
	}

	if strings.Trim(c.JSON.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("json.indent may only contain spaces and tabs, got %q", c.JSON.Indent))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DecodeOptions returns the decoder settings.
func (c *Config) DecodeOptions() codec.DecodeOptions {
	return codec.DecodeOptions{
		MaxDepth:       c.Decode.MaxDepth,
		RequireMinimal: c.Decode.RequireMinimal,
		RequireMessage: c.Decode.RequireMessage,
	}
}

// EncoderOptions returns the encoder settings.
func (c *Config) EncoderOptions() codec.EncoderOptions {
	return codec.EncoderOptions{EnvelopeContainers: c.Encode.EnvelopeContainers}
}

// BridgeOptions returns JSON bridge settings. Pretty output is the
// caller's choice, so Indent is only filled in when pretty is true.
func (c *Config) BridgeOptions(pretty bool) jsonbridge.Options {
	options := jsonbridge.Options{
		AllowComments: c.JSON.AllowComments,
		MaxDepth:      c.JSON.MaxDepth,
		Encoder:       c.EncoderOptions(),
		Decode:        c.DecodeOptions(),
	}
	if pretty {
		options.Indent = c.JSON.Indent
	}
	return options
}
