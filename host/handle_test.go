package host

import (
	"testing"

	"github.com/reglet-dev/scriptbridge/domain/entities"
	"github.com/reglet-dev/scriptbridge/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, rt.Release())
	})
	return rt
}

func TestHandle_DoubleRelease(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)

	require.NoError(t, obj.Release())
	assert.True(t, obj.IsReleased())

	err = obj.Release()
	var misuse *errors.MisuseError
	require.ErrorAs(t, err, &misuse)
	assert.ErrorIs(t, err, errors.ErrHandleReleased)
	assert.Equal(t, obj.String(), misuse.Subject)
}

func TestHandle_UseAfterRelease(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)
	arr, err := rt.NewArray(1)
	require.NoError(t, err)
	require.NoError(t, obj.Release())
	require.NoError(t, arr.Release())

	_, err = obj.GetString("name")
	assert.ErrorIs(t, err, errors.ErrHandleReleased)
	assert.ErrorIs(t, obj.Set("name", "x"), errors.ErrHandleReleased)
	_, err = obj.Keys()
	assert.ErrorIs(t, err, errors.ErrHandleReleased)
	_, err = obj.ExecuteIntFunction("f")
	assert.ErrorIs(t, err, errors.ErrHandleReleased)
	_, err = arr.Size()
	assert.ErrorIs(t, err, errors.ErrHandleReleased)
	assert.ErrorIs(t, arr.Push(2), errors.ErrHandleReleased)
}

func TestObject_Accessors(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.ExecuteObjectScript(
		"({first: 'john', last: 'smith', age: 7, height: 1.8, admin: true, tags: ['a', 'b'], address: {city: 'oslo'}})")
	require.NoError(t, err)
	defer func() { assert.NoError(t, obj.Release()) }()

	first, err := obj.GetString("first")
	require.NoError(t, err)
	assert.Equal(t, "john", first)

	age, err := obj.GetInt32("age")
	require.NoError(t, err)
	assert.Equal(t, int32(7), age)

	height, err := obj.GetFloat64("height")
	require.NoError(t, err)
	assert.InDelta(t, 1.8, height, 1e-9)

	admin, err := obj.GetBool("admin")
	require.NoError(t, err)
	assert.True(t, admin)

	keys, err := obj.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last", "age", "height", "admin", "tags", "address"}, keys)

	ok, err := obj.Contains("age")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = obj.Contains("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	tags, err := obj.GetArray("tags")
	require.NoError(t, err)
	tag, err := tags.GetString(1)
	require.NoError(t, err)
	assert.Equal(t, "b", tag)
	require.NoError(t, tags.Release())

	address, err := obj.GetObject("address")
	require.NoError(t, err)
	city, err := address.GetString("city")
	require.NoError(t, err)
	assert.Equal(t, "oslo", city)
	require.NoError(t, address.Release())

	missing, err := obj.GetObject("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = obj.GetInt32("missing")
	var tcErr *errors.TypeCoercionError
	require.ErrorAs(t, err, &tcErr)
	assert.Equal(t, `property "missing"`, tcErr.Context)
	assert.Equal(t, "undefined", tcErr.Got)

	_, err = obj.GetObject("tags")
	assert.ErrorAs(t, err, &tcErr)
}

func TestObject_SetHandles(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)
	child, err := rt.NewArray("x", "y")
	require.NoError(t, err)

	require.NoError(t, obj.Set("items", child))
	require.NoError(t, obj.Set("count", 2))
	require.NoError(t, obj.Set("nothing", nil))
	assert.False(t, child.IsReleased())

	_, err = rt.RegisterFunc("take", func() (*Object, error) { return obj, nil })
	require.NoError(t, err)
	v, err := rt.ExecuteStringScript("var o = take(); o.items.join('') + o.count + o.nothing")
	require.NoError(t, err)
	assert.Equal(t, "xy2null", v)

	require.NoError(t, child.Release())
}

func TestObject_SetRejectsForeignAndUnsupportedValues(t *testing.T) {
	rt := newTestRuntime(t)
	other := newTestRuntime(t)

	obj, err := rt.NewObject()
	require.NoError(t, err)
	defer func() { assert.NoError(t, obj.Release()) }()
	foreign, err := other.NewObject()
	require.NoError(t, err)
	defer func() { assert.NoError(t, foreign.Release()) }()

	err = obj.Set("other", foreign)
	var crossErr *errors.CrossRuntimeError
	require.ErrorAs(t, err, &crossErr)
	assert.Equal(t, other.ID(), crossErr.HandleRuntime)

	assert.Error(t, obj.Set("ch", make(chan int)))
}

func TestArray_Accessors(t *testing.T) {
	rt := newTestRuntime(t)
	arr, err := rt.NewArray(1, "two", true)
	require.NoError(t, err)
	defer func() { assert.NoError(t, arr.Release()) }()

	require.NoError(t, arr.Push(4.5))
	size, err := arr.Size()
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	i, err := arr.GetInt32(0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), i)

	s, err := arr.GetString(1)
	require.NoError(t, err)
	assert.Equal(t, "two", s)

	b, err := arr.GetBool(2)
	require.NoError(t, err)
	assert.True(t, b)

	f, err := arr.GetFloat64(3)
	require.NoError(t, err)
	assert.Equal(t, 4.5, f)

	_, err = arr.GetInt32(9)
	var tcErr *errors.TypeCoercionError
	require.ErrorAs(t, err, &tcErr)
	assert.Equal(t, "index 9", tcErr.Context)

	nested, err := arr.GetArray(9)
	require.NoError(t, err)
	assert.Nil(t, nested)

	_, err = arr.GetString(0)
	assert.ErrorAs(t, err, &tcErr)
}

func TestArray_NestedHandles(t *testing.T) {
	rt := newTestRuntime(t)
	arr, err := rt.ExecuteArrayScript("[{name: 'a'}, [1, 2]]")
	require.NoError(t, err)
	defer func() { assert.NoError(t, arr.Release()) }()

	obj, err := arr.GetObject(0)
	require.NoError(t, err)
	name, err := obj.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "a", name)

	inner, err := arr.GetArray(1)
	require.NoError(t, err)
	n, err := inner.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, 3, rt.HandleCount())
	require.NoError(t, obj.Release())
	require.NoError(t, inner.Release())
}

func TestHandle_Export(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.ExecuteObjectScript("({name: 'john', tags: ['a']})")
	require.NoError(t, err)
	arr, err := rt.NewArray("x", 2)
	require.NoError(t, err)

	o, err := obj.Export()
	require.NoError(t, err)
	m, ok := o.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "john", m["name"])

	a, err := arr.Export()
	require.NoError(t, err)
	assert.Equal(t, []any{"x", int64(2)}, a)

	require.NoError(t, obj.Release())
	require.NoError(t, arr.Release())
	_, err = obj.Export()
	assert.ErrorIs(t, err, errors.ErrHandleReleased)
}

func TestRuntime_SetGlobal(t *testing.T) {
	rt := newTestRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)
	require.NoError(t, obj.Set("greeting", "hi"))

	require.NoError(t, rt.SetGlobal("config", obj))
	require.NoError(t, rt.SetGlobal("limit", 3))

	v, err := rt.ExecuteStringScript("config.greeting + limit")
	require.NoError(t, err)
	assert.Equal(t, "hi3", v)
	assert.False(t, obj.IsReleased())
	require.NoError(t, obj.Release())
}

func TestRuntime_InvokeBinding(t *testing.T) {
	rt := newTestRuntime(t)
	b, err := rt.Register(calculator{}, "Add", "add", entities.KindInt32, entities.KindInt32)
	require.NoError(t, err)

	v, err := rt.InvokeBinding(b, rt.vm.ToValue(40), rt.vm.ToValue(2))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.ToInteger())

	_, err = rt.InvokeBinding(b, rt.vm.ToValue("forty"))
	var tcErr *errors.TypeCoercionError
	require.ErrorAs(t, err, &tcErr)
	assert.Equal(t, "argument 1", tcErr.Context)
}

func TestRuntime_InvokeBindingRefusesForeignAndReplaced(t *testing.T) {
	rt := newTestRuntime(t)
	other := newTestRuntime(t)

	calls := 0
	b, err := other.RegisterFunc("tick", func() { calls++ })
	require.NoError(t, err)

	_, err = rt.InvokeBinding(b)
	var misuse *errors.MisuseError
	require.ErrorAs(t, err, &misuse)
	assert.ErrorIs(t, err, errors.ErrBindingNotRegistered)
	assert.Equal(t, rt.ID(), misuse.Subject)

	_, err = other.RegisterFunc("tick", func() {})
	require.NoError(t, err)
	_, err = other.InvokeBinding(b)
	assert.ErrorIs(t, err, errors.ErrBindingNotRegistered)

	assert.Zero(t, calls)
}
