package host

import (
	stdErrors "errors"
	"reflect"

	"github.com/dop251/goja"
	"github.com/reglet-dev/scriptbridge/domain/errors"
	"github.com/reglet-dev/scriptbridge/hostfuncs"
	"go.uber.org/zap"
)

// InvokeBinding dispatches b with raw script arguments: arguments are
// coerced, the callable runs through the middleware chain and its result is
// converted back. Script calls to a bound name go through here.
//
// b must be the binding currently registered on rt under its scope and name;
// bindings of another runtime and replaced bindings are refused.
func (rt *Runtime) InvokeBinding(b *hostfuncs.Binding, args ...goja.Value) (goja.Value, error) {
	op := "invoke " + b.ScriptName()
	if err := rt.checkAlive(op); err != nil {
		return nil, err
	}
	if cur, ok := rt.registry.Lookup(b.Scope(), b.ScriptName()); !ok || cur != b {
		return nil, &errors.MisuseError{Op: op, Subject: rt.id, Err: errors.ErrBindingNotRegistered}
	}

	hostArgs, scoped, err := rt.marshalArgs(b, args)
	if err != nil {
		return nil, err
	}
	defer rt.releaseScoped(scoped)

	out := rt.invoke(b, hostArgs)
	if out.State() == hostfuncs.Failed {
		return nil, out.Err
	}
	return rt.marshalResult(b, out.Value)
}

func (rt *Runtime) invoke(b *hostfuncs.Binding, args []reflect.Value) hostfuncs.Outcome {
	rt.depth++
	defer rt.leave()
	return hostfuncs.Invoke(rt.ctx, rt.handler, b, args)
}

// nativeFunc is the engine-facing trampoline for a binding. The binding is
// looked up on every call so a re-registered name takes effect at once.
func (rt *Runtime) nativeFunc(scope, name string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		b, ok := rt.registry.Lookup(scope, name)
		if !ok {
			panic(rt.vm.NewTypeError("%s is not a function", name))
		}

		v, err := rt.InvokeBinding(b, call.Arguments...)
		if err != nil {
			panic(rt.throw(err))
		}
		return v
	}
}

// throw turns a Go error into a script exception and remembers the pairing so
// the original error can be returned if the script does not catch it.
func (rt *Runtime) throw(err error) *goja.Object {
	var exc *goja.Object
	if _, ok := err.(*errors.TypeCoercionError); ok {
		exc = rt.vm.NewTypeError("%s", err.Error())
	} else {
		exc = rt.vm.NewGoError(err)
	}
	rt.thrown[exc] = err
	return exc
}

// surface converts an engine failure into the error returned to the host.
func (rt *Runtime) surface(err error) error {
	var exc *goja.Exception
	if !stdErrors.As(err, &exc) {
		return &errors.ScriptError{Err: err, Message: err.Error()}
	}

	val := exc.Value()
	if obj, ok := val.(*goja.Object); ok {
		if orig, ok := rt.thrown[obj]; ok {
			return orig
		}
	}

	msg := exc.Error()
	if val != nil {
		msg = val.String()
	}
	rt.logger.Debug("uncaught script exception", zap.String("message", msg))
	return &errors.ScriptError{Err: err, Message: msg}
}

// enter marks the start of an execution. Exceptions thrown from host
// functions are tracked until the outermost execution finishes.
func (rt *Runtime) enter(op string) error {
	if err := rt.checkAlive(op); err != nil {
		return err
	}
	rt.depth++
	return nil
}

func (rt *Runtime) leave() {
	rt.depth--
	if rt.depth == 0 {
		clear(rt.thrown)
	}
}
