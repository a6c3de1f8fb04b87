// Package log builds the zap loggers used by the runtime and the CLI.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/reglet-dev/scriptbridge/application/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option configures a logger built by New.
type Option func(*loggerConfig)

type loggerConfig struct {
	output      io.Writer
	level       zapcore.Level
	encoding    string
	development bool
}

// defaultLoggerConfig returns the default configuration.
func defaultLoggerConfig() loggerConfig {
	return loggerConfig{
		output:   os.Stderr,
		level:    zapcore.InfoLevel,
		encoding: "console",
	}
}

// WithLevel sets the minimum level to report.
func WithLevel(level zapcore.Level) Option {
	return func(c *loggerConfig) {
		c.level = level
	}
}

// WithEncoding selects "console" or "json" output.
func WithEncoding(encoding string) Option {
	return func(c *loggerConfig) {
		c.encoding = encoding
	}
}

// WithDevelopment enables caller annotations and DPanic panics.
func WithDevelopment(enabled bool) Option {
	return func(c *loggerConfig) {
		c.development = enabled
	}
}

// WithOutput redirects log output. The default is stderr.
func WithOutput(w io.Writer) Option {
	return func(c *loggerConfig) {
		c.output = w
	}
}

// FromConfig translates a LogConfig into options.
func FromConfig(cfg config.LogConfig) ([]Option, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return []Option{
		WithLevel(level),
		WithEncoding(cfg.Encoding),
		WithDevelopment(cfg.Development),
	}, nil
}

// New creates a logger with the given options.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	encCfg := zap.NewProductionEncoderConfig()
	if cfg.development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch cfg.encoding {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log encoding %q", cfg.encoding)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(cfg.output), cfg.level)

	var zopts []zap.Option
	if cfg.development {
		zopts = append(zopts, zap.Development(), zap.AddCaller())
	}
	return zap.New(core, zopts...), nil
}
