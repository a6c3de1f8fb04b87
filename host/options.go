package host

import (
	"github.com/reglet-dev/scriptbridge/application/config"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/hostfuncs"
	"go.uber.org/zap"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for lifecycle events and dispatch logging.
func WithLogger(logger *zap.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithMiddleware adds middleware around every host function dispatch.
// Middleware runs outside the built-in logging and panic recovery.
func WithMiddleware(mw ...hostfuncs.Middleware) Option {
	return func(rt *Runtime) {
		rt.middleware = append(rt.middleware, mw...)
	}
}

// WithCoercion sets how script values that disagree with a declared kind are
// handled. The default is entities.CoercionStrict.
func WithCoercion(policy entities.CoercionPolicy) Option {
	return func(rt *Runtime) {
		rt.coercion = policy
	}
}

// WithConsole installs a console global whose output goes to the runtime logger.
func WithConsole(enabled bool) Option {
	return func(rt *Runtime) {
		rt.console = enabled
	}
}

// WithConfig applies a validated configuration.
func WithConfig(cfg config.Config) Option {
	return func(rt *Runtime) {
		policy, err := entities.ParseCoercionPolicy(cfg.Coercion)
		if err != nil {
			rt.optErr = err
			return
		}
		rt.coercion = policy
		rt.console = cfg.EnableConsole
	}
}
