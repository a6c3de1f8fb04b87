package host

import (
	"github.com/dop251/goja"
	"github.com/reglet-dev/scriptbridge/domain/entities"
)

// Execute runs source and converts the value of its final expression per
// variant. For KindVoid the value is discarded and the result is nil.
// Object and Array results are new handles owned by the caller.
func (rt *Runtime) Execute(source string, variant entities.Kind) (any, error) {
	if err := rt.enter("execute"); err != nil {
		return nil, err
	}
	defer rt.leave()

	v, err := rt.vm.RunString(source)
	if err != nil {
		return nil, rt.surface(err)
	}
	return rt.result(v, variant)
}

func (rt *Runtime) result(v goja.Value, variant entities.Kind) (any, error) {
	if variant == entities.KindVoid {
		return nil, nil
	}
	return rt.coerce(v, variant, "result", false)
}

// ExecuteVoidScript runs source for its effects.
func (rt *Runtime) ExecuteVoidScript(source string) error {
	_, err := rt.Execute(source, entities.KindVoid)
	return err
}

// ExecuteIntScript runs source and returns its result as an int32.
func (rt *Runtime) ExecuteIntScript(source string) (int32, error) {
	return as[int32](rt.Execute(source, entities.KindInt32))
}

// ExecuteDoubleScript runs source and returns its result as a float64.
func (rt *Runtime) ExecuteDoubleScript(source string) (float64, error) {
	return as[float64](rt.Execute(source, entities.KindFloat64))
}

// ExecuteBooleanScript runs source and returns its result as a bool.
func (rt *Runtime) ExecuteBooleanScript(source string) (bool, error) {
	return as[bool](rt.Execute(source, entities.KindBool))
}

// ExecuteStringScript runs source and returns its result as a string.
func (rt *Runtime) ExecuteStringScript(source string) (string, error) {
	return as[string](rt.Execute(source, entities.KindString))
}

// ExecuteObjectScript runs source and returns its result as an Object the
// caller must release. An undefined or null result returns nil.
func (rt *Runtime) ExecuteObjectScript(source string) (*Object, error) {
	return as[*Object](rt.Execute(source, entities.KindObject))
}

// ExecuteArrayScript runs source and returns its result as an Array the
// caller must release. An undefined or null result returns nil.
func (rt *Runtime) ExecuteArrayScript(source string) (*Array, error) {
	return as[*Array](rt.Execute(source, entities.KindArray))
}
