package hostfuncs

import (
	"fmt"
	"reflect"

	"github.com/reglet-dev/scriptbridge/application/validation"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// HandleTypes names the Go types that stand for engine objects and arrays in
// host signatures.
type HandleTypes struct {
	Object reflect.Type
	Array  reflect.Type
}

// Binding is the immutable record of one registered callable: the bound
// method value plus its declared script signature.
type Binding struct {
	fn         reflect.Value
	in         []reflect.Type
	params     []entities.Kind
	scope      string
	scriptName string
	method     string
	ret        entities.Kind
	nullable   bool
	returnsErr bool
}

// Resolve looks up method on target and checks it against the declared
// parameter kinds. Resolution happens once; the result is reused for every call.
func Resolve(target any, method, scope, scriptName string, params []entities.Kind, types HandleTypes) (*Binding, error) {
	if target == nil {
		return nil, &errors.ConfigurationError{Method: method, ScriptName: scriptName, Reason: "registration target is nil"}
	}

	tv := reflect.ValueOf(target)
	m := tv.MethodByName(method)
	if !m.IsValid() {
		return nil, &errors.ConfigurationError{
			Target:     tv.Type().String(),
			Method:     method,
			ScriptName: scriptName,
			Reason:     fmt.Sprintf("no method %s on %s", method, tv.Type()),
		}
	}

	return resolve(m, tv.Type().String(), method, scope, scriptName, params, types)
}

// ResolveFunc is Resolve for a bare Go function.
func ResolveFunc(fn any, scope, scriptName string, params []entities.Kind, types HandleTypes) (*Binding, error) {
	fv := reflect.ValueOf(fn)
	if fn == nil || fv.Kind() != reflect.Func {
		return nil, &errors.ConfigurationError{
			ScriptName: scriptName,
			Reason:     fmt.Sprintf("expected a function, got %T", fn),
		}
	}
	return resolve(fv, fv.Type().String(), "", scope, scriptName, params, types)
}

func resolve(fn reflect.Value, target, method, scope, scriptName string, params []entities.Kind, types HandleTypes) (*Binding, error) {
	cfgErr := func(reason string) error {
		return &errors.ConfigurationError{Target: target, Method: method, ScriptName: scriptName, Reason: reason}
	}

	desc := entities.BindingDescriptor{Scope: scope, ScriptName: scriptName, Method: method, Params: params}
	if err := validation.Struct(desc); err != nil {
		return nil, &errors.ConfigurationError{Target: target, Method: method, ScriptName: scriptName, Reason: "invalid binding", Err: err}
	}

	ft := fn.Type()

	// The return type is checked before parameters so an unsupported result
	// is always reported the same way.
	ret, nullable, returnsErr, ok := resultKind(ft, types)
	if !ok {
		return nil, cfgErr(errors.ReasonUnsupportedReturnType)
	}

	if ft.IsVariadic() {
		return nil, cfgErr("variadic callables are not supported")
	}
	if ft.NumIn() != len(params) {
		return nil, cfgErr(fmt.Sprintf("%s takes %d parameters, %d declared", displayName(method, scriptName), ft.NumIn(), len(params)))
	}

	in := make([]reflect.Type, len(params))
	for i, k := range params {
		pt := ft.In(i)
		if !acceptsParam(k, pt, types) {
			return nil, cfgErr(fmt.Sprintf("parameter %d: %s cannot receive %s", i, pt, k))
		}
		in[i] = pt
	}

	return &Binding{
		fn:         fn,
		in:         in,
		params:     append([]entities.Kind(nil), params...),
		scope:      scope,
		scriptName: scriptName,
		method:     method,
		ret:        ret,
		nullable:   nullable,
		returnsErr: returnsErr,
	}, nil
}

func displayName(method, scriptName string) string {
	if method != "" {
		return method
	}
	return scriptName
}

func resultKind(ft reflect.Type, types HandleTypes) (k entities.Kind, nullable, returnsErr, ok bool) {
	switch ft.NumOut() {
	case 0:
		return entities.KindVoid, false, false, true
	case 1:
		if ft.Out(0) == errorType {
			return entities.KindVoid, false, true, true
		}
		k, nullable, ok = returnKind(ft.Out(0), types)
		return k, nullable, false, ok
	case 2:
		if ft.Out(1) != errorType {
			return entities.KindVoid, false, false, false
		}
		k, nullable, ok = returnKind(ft.Out(0), types)
		return k, nullable, true, ok
	default:
		return entities.KindVoid, false, false, false
	}
}

// returnKind maps a Go result type onto a kind. Pointers to primitives are the
// nullable form of the same kind.
func returnKind(t reflect.Type, types HandleTypes) (entities.Kind, bool, bool) {
	switch {
	case types.Object != nil && t == types.Object:
		return entities.KindObject, true, true
	case types.Array != nil && t == types.Array:
		return entities.KindArray, true, true
	}

	nullable := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}

	switch t.Kind() {
	case reflect.Int32, reflect.Int:
		return entities.KindInt32, nullable, true
	case reflect.Float64, reflect.Float32:
		return entities.KindFloat64, nullable, true
	case reflect.Bool:
		return entities.KindBool, nullable, true
	case reflect.String:
		return entities.KindString, nullable, true
	default:
		return entities.KindVoid, false, false
	}
}

// acceptsParam reports whether a parameter of type t can receive k. Pointers
// to primitives receive nil for a missing argument.
func acceptsParam(k entities.Kind, t reflect.Type, types HandleTypes) bool {
	switch k {
	case entities.KindObject:
		return types.Object != nil && t == types.Object
	case entities.KindArray:
		return types.Array != nil && t == types.Array
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch k {
	case entities.KindInt32:
		return t.Kind() == reflect.Int32 || t.Kind() == reflect.Int
	case entities.KindFloat64:
		return t.Kind() == reflect.Float64 || t.Kind() == reflect.Float32
	case entities.KindBool:
		return t.Kind() == reflect.Bool
	case entities.KindString:
		return t.Kind() == reflect.String
	default:
		return false
	}
}

// Scope returns entities.GlobalScope or the id of the owning object scope.
func (b *Binding) Scope() string { return b.scope }

// ScriptName returns the script-visible name.
func (b *Binding) ScriptName() string { return b.scriptName }

// Method returns the resolved Go method name, or "" for a bare function.
func (b *Binding) Method() string { return b.method }

// Return returns the declared return kind.
func (b *Binding) Return() entities.Kind { return b.ret }

// Nullable reports whether the Go result may be nil.
func (b *Binding) Nullable() bool { return b.nullable }

// ReturnsError reports whether the Go callable has a trailing error result.
func (b *Binding) ReturnsError() bool { return b.returnsErr }

// Params returns a copy of the declared parameter kinds.
func (b *Binding) Params() []entities.Kind {
	return append([]entities.Kind(nil), b.params...)
}

// ParamType returns the Go type of parameter i.
func (b *Binding) ParamType(i int) reflect.Type {
	return b.in[i]
}

// Descriptor returns the serializable form of the binding.
func (b *Binding) Descriptor() entities.BindingDescriptor {
	return entities.BindingDescriptor{
		Scope:        b.scope,
		ScriptName:   b.scriptName,
		Method:       b.method,
		Params:       b.Params(),
		Return:       b.ret,
		Nullable:     b.nullable,
		ReturnsError: b.returnsErr,
	}
}

// Call invokes the bound callable. The error result, when declared, is split
// off; the returned value is invalid for void callables.
func (b *Binding) Call(args []reflect.Value) (reflect.Value, error) {
	out := b.fn.Call(args)

	if b.returnsErr {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return reflect.Value{}, last.Interface().(error)
		}
	}

	if len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s(%v) %s", b.scriptName, b.params, b.ret)
}
