package host

import (
	"math"

	"github.com/dop251/goja"
	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
)

const classArray = "Array"

func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// typeName is the script-side type name used in coercion errors.
func typeName(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	}
	if obj, ok := v.(*goja.Object); ok {
		if obj.ClassName() == classArray {
			return "array"
		}
		if _, ok := goja.AssertFunction(obj); ok {
			return "function"
		}
		return "object"
	}
	switch v.Export().(type) {
	case int64, float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// toInt32 implements ECMAScript ToInt32.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Mod(math.Trunc(f), 1<<32)
	return int32(uint32(int64(f)))
}

// coerce converts a script value into the Go value for kind: int32, float64,
// bool, string, *Object or *Array. Missing values yield the kind's default
// when withDefault is set; missing handles always yield nil.
func (rt *Runtime) coerce(v goja.Value, kind entities.Kind, where string, withDefault bool) (any, error) {
	mismatch := func() error {
		return &errors.TypeCoercionError{Context: where, Want: kind, Got: typeName(v)}
	}

	if isMissing(v) {
		switch {
		case kind.IsHandle():
			return nil, nil
		case withDefault:
			return zeroValue(kind), nil
		default:
			return nil, mismatch()
		}
	}

	lenient := rt.coercion == entities.CoercionLenient
	obj, isObj := v.(*goja.Object)
	var prim any
	if !isObj {
		prim = v.Export()
	}

	switch kind {
	case entities.KindInt32:
		switch n := prim.(type) {
		case int64:
			return int32(n), nil
		case float64:
			return toInt32(n), nil
		}
		if lenient {
			return toInt32(v.ToFloat()), nil
		}
	case entities.KindFloat64:
		switch n := prim.(type) {
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
		if lenient {
			return v.ToFloat(), nil
		}
	case entities.KindBool:
		if b, ok := prim.(bool); ok {
			return b, nil
		}
		if lenient {
			return v.ToBoolean(), nil
		}
	case entities.KindString:
		if s, ok := prim.(string); ok {
			return s, nil
		}
		if lenient {
			return v.String(), nil
		}
	case entities.KindObject:
		if isObj && obj.ClassName() != classArray {
			return rt.wrapObject(obj), nil
		}
	case entities.KindArray:
		if isObj && obj.ClassName() == classArray {
			return rt.wrapArray(obj), nil
		}
	}
	return nil, mismatch()
}

func zeroValue(kind entities.Kind) any {
	switch kind {
	case entities.KindInt32:
		return int32(0)
	case entities.KindFloat64:
		return float64(0)
	case entities.KindBool:
		return false
	case entities.KindString:
		return ""
	default:
		return nil
	}
}

// as narrows a coerced value to its Go type. Missing handles become nil.
func as[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
