package host

import (
	"fmt"
	"strconv"

	"github.com/reglet-dev/scriptbridge/domain/entities"
)

// Array is a host handle to a script array.
type Array struct {
	handle
}

// Size returns the array length.
func (a *Array) Size() (int, error) {
	if err := a.use("size"); err != nil {
		return 0, err
	}
	return a.length(), nil
}

func (a *Array) length() int {
	return int(a.obj.Get("length").ToInteger())
}

func (a *Array) get(i int, kind entities.Kind) (any, error) {
	where := fmt.Sprintf("index %d", i)
	if err := a.use("get " + where); err != nil {
		return nil, err
	}
	return a.rt.coerce(a.obj.Get(strconv.Itoa(i)), kind, where, false)
}

// GetInt32 reads element i as an int32.
func (a *Array) GetInt32(i int) (int32, error) {
	return as[int32](a.get(i, entities.KindInt32))
}

// GetFloat64 reads element i as a float64.
func (a *Array) GetFloat64(i int) (float64, error) {
	return as[float64](a.get(i, entities.KindFloat64))
}

// GetBool reads element i as a bool.
func (a *Array) GetBool(i int) (bool, error) {
	return as[bool](a.get(i, entities.KindBool))
}

// GetString reads element i as a string.
func (a *Array) GetString(i int) (string, error) {
	return as[string](a.get(i, entities.KindString))
}

// GetObject reads element i as a new Object handle, or nil.
func (a *Array) GetObject(i int) (*Object, error) {
	return as[*Object](a.get(i, entities.KindObject))
}

// GetArray reads element i as a new Array handle, or nil.
func (a *Array) GetArray(i int) (*Array, error) {
	return as[*Array](a.get(i, entities.KindArray))
}

// Export returns a Go copy of the array as produced by the engine.
func (a *Array) Export() (any, error) {
	if err := a.use("export"); err != nil {
		return nil, err
	}
	return a.obj.Export(), nil
}

// Push appends value. Handles stay owned by the host.
func (a *Array) Push(value any) error {
	if err := a.use("push"); err != nil {
		return err
	}
	v, err := a.rt.toScript(value, "push")
	if err != nil {
		return err
	}
	return a.obj.Set(strconv.Itoa(a.length()), v)
}
