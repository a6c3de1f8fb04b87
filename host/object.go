package host

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
	"github.com/reglet-dev/scriptbridge/hostfuncs"
)

// Object is a host handle to a script object.
type Object struct {
	handle
}

// Register binds method of target to scriptName as a function property of
// this object only.
func (o *Object) Register(target any, method, scriptName string, params ...entities.Kind) (*hostfuncs.Binding, error) {
	if err := o.use("register " + scriptName); err != nil {
		return nil, err
	}
	b, err := hostfuncs.Resolve(target, method, o.rt.scopeOf(o.obj), scriptName, params, handleTypes)
	if err != nil {
		return nil, err
	}
	return o.rt.install(o.obj, b)
}

// Set assigns a property. Values may be Go numbers, bools, strings, nil or
// handles of the same runtime; handles stay owned by the host.
func (o *Object) Set(key string, value any) error {
	op := fmt.Sprintf("set %q", key)
	if err := o.use(op); err != nil {
		return err
	}
	v, err := o.rt.toScript(value, op)
	if err != nil {
		return err
	}
	return o.obj.Set(key, v)
}

func (o *Object) get(key string, kind entities.Kind) (any, error) {
	where := fmt.Sprintf("property %q", key)
	if err := o.use("get " + where); err != nil {
		return nil, err
	}
	return o.rt.coerce(o.obj.Get(key), kind, where, false)
}

// GetInt32 reads a property as an int32.
func (o *Object) GetInt32(key string) (int32, error) {
	return as[int32](o.get(key, entities.KindInt32))
}

// GetFloat64 reads a property as a float64.
func (o *Object) GetFloat64(key string) (float64, error) {
	return as[float64](o.get(key, entities.KindFloat64))
}

// GetBool reads a property as a bool.
func (o *Object) GetBool(key string) (bool, error) {
	return as[bool](o.get(key, entities.KindBool))
}

// GetString reads a property as a string.
func (o *Object) GetString(key string) (string, error) {
	return as[string](o.get(key, entities.KindString))
}

// GetObject reads a property as a new Object handle, or nil if it is
// undefined or null.
func (o *Object) GetObject(key string) (*Object, error) {
	return as[*Object](o.get(key, entities.KindObject))
}

// GetArray reads a property as a new Array handle, or nil if it is
// undefined or null.
func (o *Object) GetArray(key string) (*Array, error) {
	return as[*Array](o.get(key, entities.KindArray))
}

// Keys returns the object's own enumerable property names.
func (o *Object) Keys() ([]string, error) {
	if err := o.use("keys"); err != nil {
		return nil, err
	}
	return o.obj.Keys(), nil
}

// Contains reports whether the object has a property named key.
func (o *Object) Contains(key string) (bool, error) {
	if err := o.use(fmt.Sprintf("contains %q", key)); err != nil {
		return false, err
	}
	return o.obj.Get(key) != nil, nil
}

// Export returns a Go copy of the object as produced by the engine:
// map[string]any with nested maps, slices and primitive values.
func (o *Object) Export() (any, error) {
	if err := o.use("export"); err != nil {
		return nil, err
	}
	return o.obj.Export(), nil
}

// ExecuteFunction calls the function property name with this object as the
// receiver and converts its result per variant.
func (o *Object) ExecuteFunction(name string, variant entities.Kind, args ...any) (any, error) {
	op := "execute " + name
	if err := o.use(op); err != nil {
		return nil, err
	}
	rt := o.rt

	fn, ok := goja.AssertFunction(o.obj.Get(name))
	if !ok {
		return nil, &errors.ScriptError{Message: fmt.Sprintf("TypeError: %s is not a function", name)}
	}

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		v, err := rt.toScript(arg, fmt.Sprintf("%s: argument %d", op, i+1))
		if err != nil {
			return nil, err
		}
		jsArgs[i] = v
	}

	if err := rt.enter(op); err != nil {
		return nil, err
	}
	defer rt.leave()

	v, err := fn(o.obj, jsArgs...)
	if err != nil {
		return nil, rt.surface(err)
	}
	return rt.result(v, variant)
}

// ExecuteVoidFunction calls name for its effects.
func (o *Object) ExecuteVoidFunction(name string, args ...any) error {
	_, err := o.ExecuteFunction(name, entities.KindVoid, args...)
	return err
}

// ExecuteIntFunction calls name and returns its result as an int32.
func (o *Object) ExecuteIntFunction(name string, args ...any) (int32, error) {
	return as[int32](o.ExecuteFunction(name, entities.KindInt32, args...))
}

// ExecuteDoubleFunction calls name and returns its result as a float64.
func (o *Object) ExecuteDoubleFunction(name string, args ...any) (float64, error) {
	return as[float64](o.ExecuteFunction(name, entities.KindFloat64, args...))
}

// ExecuteBooleanFunction calls name and returns its result as a bool.
func (o *Object) ExecuteBooleanFunction(name string, args ...any) (bool, error) {
	return as[bool](o.ExecuteFunction(name, entities.KindBool, args...))
}

// ExecuteStringFunction calls name and returns its result as a string.
func (o *Object) ExecuteStringFunction(name string, args ...any) (string, error) {
	return as[string](o.ExecuteFunction(name, entities.KindString, args...))
}

// ExecuteObjectFunction calls name and returns its result as an Object the
// caller must release.
func (o *Object) ExecuteObjectFunction(name string, args ...any) (*Object, error) {
	return as[*Object](o.ExecuteFunction(name, entities.KindObject, args...))
}

// ExecuteArrayFunction calls name and returns its result as an Array the
// caller must release.
func (o *Object) ExecuteArrayFunction(name string, args ...any) (*Array, error) {
	return as[*Array](o.ExecuteFunction(name, entities.KindArray, args...))
}
