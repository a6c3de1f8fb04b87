package hostfuncs

import (
	"fmt"
	"reflect"
	"time"

	"github.com/reglet-dev/scriptbridge/domain/errors"
	"go.uber.org/zap"
)

// Middleware is a function that wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	countingMiddleware := func(next Handler) Handler {
//	    return func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
//	        calls[ctx.FunctionName()]++
//	        return next(ctx, args)
//	    }
//	}
type Middleware func(next Handler) Handler

// PanicRecoveryMiddleware returns a middleware that catches panics raised by a
// host callable and reports them as a RuntimeError instead of crashing the
// engine. The message is the panic value's text.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx HostContext, args []reflect.Value) (v reflect.Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					v = reflect.Value{}
					err = panicError(ctx.FunctionName(), r)
				}
			}()
			return next(ctx, args)
		}
	}
}

func panicError(scriptName string, r any) *errors.RuntimeError {
	var cause error
	switch p := r.(type) {
	case error:
		cause = p
	case string:
		cause = fmt.Errorf("%s", p)
	default:
		cause = fmt.Errorf("%v", p)
	}
	rte := errors.NewRuntimeError(scriptName, cause)
	rte.Panicked = true
	return rte
}

// LoggingMiddleware returns a middleware that logs every dispatch. Failures
// are logged with their structured ErrorDetail.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
			start := time.Now()
			log := logger.With(
				zap.String("binding", ctx.FunctionName()),
				zap.String("scope", ctx.Binding().Scope()),
			)
			log.Debug("invoking host function", zap.Int("args", len(args)))

			v, err := next(ctx, args)
			if err != nil {
				log.Warn("host function failed",
					zap.Duration("duration", time.Since(start)),
					zap.Any("error", errors.ToErrorDetail(err)))
				return v, err
			}
			log.Debug("host function completed", zap.Duration("duration", time.Since(start)))
			return v, nil
		}
	}
}
