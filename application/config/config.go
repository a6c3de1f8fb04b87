// Package config defines the runtime and CLI configuration and how it is
// loaded from raw key/value trees.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/reglet-dev/scriptbridge/application/validation"
	"github.com/reglet-dev/scriptbridge/domain/ports"
)

// LogConfig selects the logger built by package log.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level" json:"level" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Encoding    string `mapstructure:"encoding" yaml:"encoding" json:"encoding" validate:"oneof=console json" jsonschema:"enum=console,enum=json,default=console"`
	Development bool   `mapstructure:"development" yaml:"development" json:"development"`
}

// Config configures a script runtime.
type Config struct {
	// Coercion is the policy for script values that disagree with a
	// declared kind: "strict" or "lenient".
	Coercion string `mapstructure:"coercion" yaml:"coercion" json:"coercion" validate:"coercion_policy" jsonschema:"enum=strict,enum=lenient,default=strict"`

	// EnableConsole installs a console global that writes to the logger.
	EnableConsole bool `mapstructure:"enable_console" yaml:"enable_console" json:"enable_console"`

	// FailOnLeak makes the CLI exit non-zero when handles are left live.
	FailOnLeak bool `mapstructure:"fail_on_leak" yaml:"fail_on_leak" json:"fail_on_leak" jsonschema:"default=true"`

	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Coercion:   "strict",
		FailOnLeak: true,
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Decode overlays raw on the defaults and validates the result. Unknown keys
// are rejected.
func Decode(raw Values) (Config, error) {
	cfg := Default()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(raw)); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validation.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load parses data with p, applies overrides on top and decodes the result.
func Load(p ports.ConfigParser, data []byte, overrides Values) (Config, error) {
	raw, err := p.Parse(data)
	if err != nil {
		return Config{}, err
	}
	merged := Values(raw)
	merged.Merge(overrides)
	return Decode(merged)
}
