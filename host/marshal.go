package host

import (
	"fmt"
	"reflect"

	"github.com/dop251/goja"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/hostfuncs"
)

// marshalArgs builds the Go arguments for b from raw script arguments.
// Handles created for object and array arguments are returned so they can be
// released once the callable returns.
func (rt *Runtime) marshalArgs(b *hostfuncs.Binding, raw []goja.Value) ([]reflect.Value, []*handle, error) {
	params := b.Params()
	args := make([]reflect.Value, len(params))
	var scoped []*handle

	for i, kind := range params {
		var v goja.Value
		if i < len(raw) {
			v = raw[i]
		}

		x, err := rt.coerce(v, kind, fmt.Sprintf("argument %d", i+1), true)
		if err != nil {
			rt.releaseScoped(scoped)
			return nil, nil, err
		}

		pt := b.ParamType(i)
		switch val := x.(type) {
		case nil:
			args[i] = reflect.Zero(pt)
		case *Object:
			scoped = append(scoped, &val.handle)
			args[i] = reflect.ValueOf(val)
		case *Array:
			scoped = append(scoped, &val.handle)
			args[i] = reflect.ValueOf(val)
		default:
			args[i] = primitiveArg(val, pt, isMissing(v))
		}
	}
	return args, scoped, nil
}

// primitiveArg converts x to pt. Pointer parameters receive nil for a missing
// argument and a pointer to the converted value otherwise.
func primitiveArg(x any, pt reflect.Type, missing bool) reflect.Value {
	if pt.Kind() != reflect.Pointer {
		return reflect.ValueOf(x).Convert(pt)
	}
	if missing {
		return reflect.Zero(pt)
	}
	p := reflect.New(pt.Elem())
	p.Elem().Set(reflect.ValueOf(x).Convert(pt.Elem()))
	return p
}

// marshalResult converts a callable's result into a script value. Returned
// handles cross into the engine.
func (rt *Runtime) marshalResult(b *hostfuncs.Binding, v reflect.Value) (goja.Value, error) {
	if b.Return() == entities.KindVoid || !v.IsValid() {
		return goja.Undefined(), nil
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return goja.Undefined(), nil
	}

	op := "return from " + b.ScriptName()
	switch b.Return() {
	case entities.KindObject:
		obj, err := rt.cross(&v.Interface().(*Object).handle, op)
		if err != nil {
			return nil, err
		}
		return obj, nil
	case entities.KindArray:
		obj, err := rt.cross(&v.Interface().(*Array).handle, op)
		if err != nil {
			return nil, err
		}
		return obj, nil
	}

	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	switch b.Return() {
	case entities.KindInt32:
		return rt.vm.ToValue(int32(v.Int())), nil
	case entities.KindFloat64:
		return rt.vm.ToValue(v.Float()), nil
	case entities.KindBool:
		return rt.vm.ToValue(v.Bool()), nil
	default:
		return rt.vm.ToValue(v.String()), nil
	}
}

// toScript converts a host value into a script value without transferring
// ownership of handles.
func (rt *Runtime) toScript(x any, where string) (goja.Value, error) {
	switch val := x.(type) {
	case nil:
		return goja.Null(), nil
	case *Object:
		if val == nil {
			return goja.Null(), nil
		}
		return rt.borrowValue(&val.handle, where)
	case *Array:
		if val == nil {
			return goja.Null(), nil
		}
		return rt.borrowValue(&val.handle, where)
	case int:
		return rt.vm.ToValue(val), nil
	case int32:
		return rt.vm.ToValue(val), nil
	case int64:
		return rt.vm.ToValue(val), nil
	case float32:
		return rt.vm.ToValue(float64(val)), nil
	case float64:
		return rt.vm.ToValue(val), nil
	case bool:
		return rt.vm.ToValue(val), nil
	case string:
		return rt.vm.ToValue(val), nil
	default:
		return nil, fmt.Errorf("%s: unsupported host value %T", where, x)
	}
}

func (rt *Runtime) borrowValue(h *handle, where string) (goja.Value, error) {
	obj, err := rt.borrow(h, where)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
