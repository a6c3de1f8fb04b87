package main

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/reglet-dev/scriptbridge/application/config"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
	"github.com/reglet-dev/scriptbridge/host"
	"github.com/reglet-dev/scriptbridge/infrastructure/parser"
	applog "github.com/reglet-dev/scriptbridge/log"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type runOptions struct {
	configPath string
	variant    string
	coercion   string
	logLevel   string
	console    bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [flags] <file.js>",
		Short: "Execute a script and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runScript(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, string(src), opts.variant)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.variant, "variant", "void", "result kind: void, int32, float64, bool, string, object or array")
	cmd.Flags().StringVar(&opts.coercion, "coercion", "", "override the coercion policy (strict or lenient)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override the log level")
	cmd.Flags().BoolVar(&opts.console, "console", false, "enable the console global")
	return cmd
}

// loadConfig reads the config file, if any, with command line flags applied on top.
func loadConfig(cmd *cobra.Command, opts runOptions) (config.Config, error) {
	var data []byte
	if opts.configPath != "" {
		var err error
		if data, err = os.ReadFile(opts.configPath); err != nil {
			return config.Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	overrides := config.Values{}
	if cmd.Flags().Changed("coercion") {
		overrides.Set("coercion", opts.coercion)
	}
	if cmd.Flags().Changed("log-level") {
		overrides.Set("log.level", opts.logLevel)
	}
	if cmd.Flags().Changed("console") {
		overrides.Set("enable_console", opts.console)
	}
	return config.Load(parser.NewYamlConfigParser(), data, overrides)
}

func runScript(stdout, stderr io.Writer, cfg config.Config, src, variantName string) (err error) {
	variant, err := entities.ParseKind(variantName)
	if err != nil {
		return err
	}

	logOpts, err := applog.FromConfig(cfg.Log)
	if err != nil {
		return err
	}
	logger, err := applog.New(append(logOpts, applog.WithOutput(stderr))...)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rt, err := host.New(host.WithConfig(cfg), host.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, teardown(rt, cfg, logger))
	}()

	if err := newHostAPI(stdout).install(rt); err != nil {
		return err
	}

	result, err := rt.Execute(src, variant)
	if err != nil {
		return err
	}
	return printResult(stdout, result)
}

// teardown releases the runtime. Leaks are reported and only fail the run
// when the config asks for it.
func teardown(rt *host.Runtime, cfg config.Config, logger *zap.Logger) error {
	err := rt.Release()
	var leak *errors.LeakError
	if stdErrors.As(err, &leak) && !cfg.FailOnLeak {
		logger.Warn("script left handles live", zap.Int("outstanding", leak.Outstanding()))
		return nil
	}
	return err
}

// printResult writes result and releases it if it is a handle.
func printResult(w io.Writer, result any) error {
	var value any
	switch r := result.(type) {
	case nil:
		return nil
	case *host.Object:
		exported, err := r.Export()
		if err != nil {
			return err
		}
		value = exported
		if err := r.Release(); err != nil {
			return err
		}
	case *host.Array:
		exported, err := r.Export()
		if err != nil {
			return err
		}
		value = exported
		if err := r.Release(); err != nil {
			return err
		}
	default:
		_, err := fmt.Fprintln(w, r)
		return err
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
