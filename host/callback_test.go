package host

import (
	"strconv"

	"github.com/stretchr/testify/mock"
)

// callbackMock is a registration target whose behavior is scripted per test.
type callbackMock struct {
	mock.Mock
}

func (m *callbackMock) VoidMethodNoParameters() {
	m.Called()
}

func (m *callbackMock) VoidMethodWithParameters(a int32, b float64, c bool, d string) {
	m.Called(a, b, c, d)
}

func (m *callbackMock) VoidMethodWithArrayParameter(a *Array) {
	m.Called(a)
}

func (m *callbackMock) VoidMethodWithObjectParameter(o *Object) {
	m.Called(o)
}

func (m *callbackMock) IntMethodNoParameters() int32 {
	return m.Called().Get(0).(int32)
}

func (m *callbackMock) IntegerMethod() *int32 {
	return m.Called().Get(0).(*int32)
}

func (m *callbackMock) DoubleMethodNoParameters() float64 {
	return m.Called().Get(0).(float64)
}

func (m *callbackMock) BooleanMethodNoParameters() bool {
	return m.Called().Bool(0)
}

func (m *callbackMock) StringMethodNoParameters() *string {
	return m.Called().Get(0).(*string)
}

func (m *callbackMock) ObjectMethodNoParameters() *Object {
	return m.Called().Get(0).(*Object)
}

func (m *callbackMock) ArrayMethodNoParameters() *Array {
	return m.Called().Get(0).(*Array)
}

func (m *callbackMock) VoidMethodFails() error {
	return m.Called().Error(0)
}

func (m *callbackMock) IntMethodFails() (int32, error) {
	args := m.Called()
	return args.Get(0).(int32), args.Error(1)
}

func (m *callbackMock) UnsupportedMethod() []int {
	return nil
}

// calculator is a plain registration target for argument marshalling tests.
type calculator struct{}

func (calculator) Add(x, y int32) int32 { return x + y }

func (calculator) AddDoubles(x, y float64) float64 { return x + y }

func (calculator) Sum(a *Array) (int32, error) {
	n, err := a.Size()
	if err != nil {
		return 0, err
	}
	var total int32
	for i := range n {
		v, err := a.GetInt32(i)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func (calculator) Join(a *Array) (string, error) {
	n, err := a.Size()
	if err != nil {
		return "", err
	}
	var out string
	for i := range n {
		s, err := a.GetString(i)
		if err != nil {
			return "", err
		}
		out += s
	}
	return out, nil
}

// Swap exchanges the first and last properties and hands the object back.
func (calculator) Swap(o *Object) (*Object, error) {
	first, err := o.GetString("first")
	if err != nil {
		return nil, err
	}
	last, err := o.GetString("last")
	if err != nil {
		return nil, err
	}
	if err := o.Set("first", last); err != nil {
		return nil, err
	}
	if err := o.Set("last", first); err != nil {
		return nil, err
	}
	return o, nil
}

func (calculator) Describe(o *Object) (string, error) {
	first, err := o.GetString("first")
	if err != nil {
		return "", err
	}
	last, err := o.GetString("last")
	if err != nil {
		return "", err
	}
	age, err := o.GetInt32("age")
	if err != nil {
		return "", err
	}
	return first + " " + last + " " + strconv.Itoa(int(age)), nil
}
