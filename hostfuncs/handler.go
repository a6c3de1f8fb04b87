package hostfuncs

import (
	"context"
	"reflect"

	"github.com/reglet-dev/scriptbridge/domain/errors"
)

// Handler runs the host side of one dispatch with already-marshalled
// arguments. The binding is available from ctx.
type Handler func(ctx HostContext, args []reflect.Value) (reflect.Value, error)

// CallBinding is the innermost Handler: it calls the bound Go callable.
func CallBinding(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
	return ctx.Binding().Call(args)
}

// Chain wraps core with middleware. The first middleware is the outermost.
func Chain(core Handler, mw ...Middleware) Handler {
	h := core
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// State is the terminal state of a dispatch.
type State uint8

const (
	Succeeded State = iota + 1
	Failed
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "invoking"
	}
}

// Outcome is the result of one dispatch: a value when Succeeded, a
// RuntimeError carrying the original message when Failed.
type Outcome struct {
	Value reflect.Value
	Err   *errors.RuntimeError
}

// State reports whether the dispatch succeeded or failed.
func (o Outcome) State() State {
	if o.Err != nil {
		return Failed
	}
	return Succeeded
}

// Invoke dispatches b through h. Host failures never escape as panics or
// foreign error types: they are folded into the Outcome.
func Invoke(ctx context.Context, h Handler, b *Binding, args []reflect.Value) Outcome {
	hctx := HostContextFrom(ctx, b)

	v, err := h(hctx, args)
	if err != nil {
		// Only an unwrapped RuntimeError is reused; a wrapping error carries
		// its own message.
		rte, ok := err.(*errors.RuntimeError)
		if !ok {
			rte = errors.NewRuntimeError(b.scriptName, err)
		}
		return Outcome{Err: rte}
	}
	return Outcome{Value: v}
}
