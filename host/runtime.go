package host

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/google/uuid"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
	"github.com/reglet-dev/scriptbridge/hostfuncs"
	"go.uber.org/zap"
)

var handleTypes = hostfuncs.HandleTypes{
	Object: reflect.TypeOf((*Object)(nil)),
	Array:  reflect.TypeOf((*Array)(nil)),
}

// Runtime is one embedded script engine together with its bindings and the
// handles it has created.
type Runtime struct {
	ctx        context.Context
	vm         *goja.Runtime
	logger     *zap.Logger
	registry   *hostfuncs.Registry
	handles    *handleTable
	handler    hostfuncs.Handler
	optErr     error
	scopes     map[*goja.Object]string
	thrown     map[*goja.Object]error
	id         string
	middleware []hostfuncs.Middleware
	nextScope  int
	depth      int
	coercion   entities.CoercionPolicy
	console    bool
	released   bool
}

// New creates a Runtime and counts it as active until it is released.
func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		ctx:      context.Background(),
		id:       uuid.NewString(),
		logger:   zap.NewNop(),
		registry: hostfuncs.NewRegistry(),
		handles:  newHandleTable(),
		scopes:   make(map[*goja.Object]string),
		thrown:   make(map[*goja.Object]error),
		coercion: entities.CoercionStrict,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.optErr != nil {
		return nil, fmt.Errorf("failed to configure runtime: %w", rt.optErr)
	}

	rt.logger = rt.logger.With(zap.String("runtime", rt.id))
	rt.vm = goja.New()
	if rt.console {
		reg := require.NewRegistry()
		reg.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(consolePrinter{rt.logger.Named("console")}))
		reg.Enable(rt.vm)
		console.Enable(rt.vm)
	}

	// Recovery runs both outermost, for panics in user middleware, and
	// innermost, so middleware sees a callable's panic as an error.
	mw := []hostfuncs.Middleware{hostfuncs.PanicRecoveryMiddleware()}
	mw = append(mw, rt.middleware...)
	mw = append(mw, hostfuncs.LoggingMiddleware(rt.logger), hostfuncs.PanicRecoveryMiddleware())
	rt.handler = hostfuncs.Chain(hostfuncs.CallBinding, mw...)

	runtimes.add(rt)
	rt.logger.Debug("runtime created",
		zap.Stringer("coercion", rt.coercion),
		zap.Bool("console", rt.console))
	return rt, nil
}

// ID returns the unique id of the runtime.
func (rt *Runtime) ID() string {
	return rt.id
}

// IsReleased reports whether Release has completed.
func (rt *Runtime) IsReleased() bool {
	return rt.released
}

// Coercion returns the coercion policy in effect.
func (rt *Runtime) Coercion() entities.CoercionPolicy {
	return rt.coercion
}

// HandleCount returns the number of live handles owned by the host.
func (rt *Runtime) HandleCount() int {
	return rt.handles.len()
}

// Bindings describes every registered binding, global ones first.
func (rt *Runtime) Bindings() []entities.BindingDescriptor {
	return rt.registry.Descriptors()
}

// Release tears the runtime down. It fails with a LeakError while handles
// are still live; the runtime then stays usable so the leak can be fixed and
// Release retried.
func (rt *Runtime) Release() error {
	if rt.released {
		return &errors.MisuseError{Op: "release runtime", Subject: rt.id, Err: errors.ErrRuntimeReleased}
	}
	if rt.depth > 0 {
		return &errors.MisuseError{Op: "release runtime", Subject: rt.id, Err: errors.ErrRuntimeBusy}
	}

	if rt.handles.len() > 0 {
		objects, arrays := rt.handles.counts()
		err := &errors.LeakError{RuntimeID: rt.id, Objects: objects, Arrays: arrays}
		rt.logger.Warn("runtime release refused", zap.Any("error", errors.ToErrorDetail(err)))
		return err
	}

	bindings := rt.registry.Len()
	rt.registry.Clear()
	clear(rt.scopes)
	clear(rt.thrown)
	rt.vm = nil
	rt.released = true
	runtimes.remove(rt)

	rt.logger.Debug("runtime released", zap.Int("bindings", bindings))
	return nil
}

func (rt *Runtime) checkAlive(op string) error {
	if rt.released {
		return &errors.MisuseError{Op: op, Err: errors.ErrRuntimeReleased}
	}
	return nil
}

// NewObject creates an empty script object owned by the host.
func (rt *Runtime) NewObject() (*Object, error) {
	if err := rt.checkAlive("new object"); err != nil {
		return nil, err
	}
	return rt.wrapObject(rt.vm.NewObject()), nil
}

// NewArray creates a script array holding items, owned by the host.
func (rt *Runtime) NewArray(items ...any) (*Array, error) {
	if err := rt.checkAlive("new array"); err != nil {
		return nil, err
	}

	values := make([]any, len(items))
	for i, item := range items {
		v, err := rt.toScript(item, fmt.Sprintf("element %d", i))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return rt.wrapArray(rt.vm.NewArray(values...)), nil
}

// SetGlobal assigns a global script variable. Handles stay owned by the host.
func (rt *Runtime) SetGlobal(name string, value any) error {
	op := "set global " + name
	if err := rt.checkAlive(op); err != nil {
		return err
	}
	v, err := rt.toScript(value, op)
	if err != nil {
		return err
	}
	return rt.vm.Set(name, v)
}

// Register binds method of target to scriptName in the global scope. The
// parameter kinds must match the method's inputs.
func (rt *Runtime) Register(target any, method, scriptName string, params ...entities.Kind) (*hostfuncs.Binding, error) {
	if err := rt.checkAlive("register " + scriptName); err != nil {
		return nil, err
	}
	b, err := hostfuncs.Resolve(target, method, entities.GlobalScope, scriptName, params, handleTypes)
	if err != nil {
		return nil, err
	}
	return rt.install(nil, b)
}

// RegisterFunc binds a Go function to scriptName in the global scope.
func (rt *Runtime) RegisterFunc(scriptName string, fn any, params ...entities.Kind) (*hostfuncs.Binding, error) {
	if err := rt.checkAlive("register " + scriptName); err != nil {
		return nil, err
	}
	b, err := hostfuncs.ResolveFunc(fn, entities.GlobalScope, scriptName, params, handleTypes)
	if err != nil {
		return nil, err
	}
	return rt.install(nil, b)
}

// install records b and exposes it on holder, or globally when holder is nil.
func (rt *Runtime) install(holder *goja.Object, b *hostfuncs.Binding) (*hostfuncs.Binding, error) {
	fn := rt.nativeFunc(b.Scope(), b.ScriptName())

	var err error
	if holder == nil {
		err = rt.vm.Set(b.ScriptName(), fn)
	} else {
		err = holder.Set(b.ScriptName(), fn)
	}
	if err != nil {
		return nil, &errors.ConfigurationError{
			Err:        err,
			Method:     b.Method(),
			ScriptName: b.ScriptName(),
			Reason:     "cannot install binding",
		}
	}

	replaced := rt.registry.Put(b)
	rt.logger.Debug("binding registered",
		zap.String("binding", b.ScriptName()),
		zap.String("scope", b.Scope()),
		zap.Stringer("signature", b),
		zap.Bool("replaced", replaced != nil))
	return b, nil
}

// scopeOf returns the binding scope id of an engine object, assigning one on
// first use.
func (rt *Runtime) scopeOf(obj *goja.Object) string {
	if id, ok := rt.scopes[obj]; ok {
		return id
	}
	rt.nextScope++
	id := fmt.Sprintf("object-%d", rt.nextScope)
	rt.scopes[obj] = id
	return id
}

type consolePrinter struct {
	logger *zap.Logger
}

func (p consolePrinter) Log(s string)   { p.logger.Info(s) }
func (p consolePrinter) Warn(s string)  { p.logger.Warn(s) }
func (p consolePrinter) Error(s string) { p.logger.Error(s) }
