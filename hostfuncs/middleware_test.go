package hostfuncs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/reglet-dev/scriptbridge/domain/entities"
	bridgeerrors "github.com/reglet-dev/scriptbridge/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	panicHandler := func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
		panic("test panic")
	}

	wrapped := PanicRecoveryMiddleware()(panicHandler)
	hc := NewHostContext(context.Background(), mustResolve(t, "Void", entities.GlobalScope, "foo"))

	v, err := wrapped(hc, nil)
	require.Error(t, err)
	assert.False(t, v.IsValid())

	var rte *bridgeerrors.RuntimeError
	require.ErrorAs(t, err, &rte)
	assert.Equal(t, "test panic", rte.Message)
	assert.Equal(t, "foo", rte.ScriptName)
	assert.True(t, rte.Panicked)
}

func TestPanicRecoveryMiddleware_ErrorValue(t *testing.T) {
	cause := errors.New("wrapped cause")
	wrapped := PanicRecoveryMiddleware()(func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
		panic(cause)
	})

	_, err := wrapped(NewHostContext(context.Background(), nil), nil)
	require.Error(t, err)
	assert.Equal(t, "wrapped cause", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestPanicRecoveryMiddleware_NoPanic(t *testing.T) {
	wrapped := PanicRecoveryMiddleware()(func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(int32(7)), nil
	})

	v, err := wrapped(NewHostContext(context.Background(), nil), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int())
}

func TestChain_FIFO(t *testing.T) {
	var callOrder []string

	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
				callOrder = append(callOrder, name+"-before")
				v, err := next(ctx, args)
				callOrder = append(callOrder, name+"-after")
				return v, err
			}
		}
	}

	core := func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
		callOrder = append(callOrder, "handler")
		return reflect.Value{}, nil
	}

	h := Chain(core, mw("mw1"), mw("mw2"), mw("mw3"))
	_, err := h(NewHostContext(context.Background(), nil), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mw1-before", "mw2-before", "mw3-before",
		"handler",
		"mw3-after", "mw2-after", "mw1-after",
	}, callOrder)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	b := mustResolve(t, "Void", entities.GlobalScope, "foo")

	t.Run("success", func(t *testing.T) {
		h := LoggingMiddleware(logger)(CallBinding)
		_, err := h(NewHostContext(context.Background(), b), nil)
		require.NoError(t, err)

		entries := logs.TakeAll()
		require.Len(t, entries, 2)
		assert.Equal(t, "invoking host function", entries[0].Message)
		assert.Equal(t, "foo", entries[0].ContextMap()["binding"])
		assert.Equal(t, "host function completed", entries[1].Message)
	})

	t.Run("failure", func(t *testing.T) {
		failing := func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
			return reflect.Value{}, errors.New("boom")
		}
		h := LoggingMiddleware(logger)(failing)
		_, err := h(NewHostContext(context.Background(), b), nil)
		require.EqualError(t, err, "boom")

		failures := logs.FilterMessage("host function failed").TakeAll()
		require.Len(t, failures, 1)
		assert.Equal(t, zapcore.WarnLevel, failures[0].Level)
	})
}

func TestInvoke(t *testing.T) {
	tgt := &target{}

	t.Run("succeeded", func(t *testing.T) {
		b := mustResolve(t, "Add", entities.GlobalScope, "add", entities.KindInt32, entities.KindInt32)
		out := Invoke(context.Background(), CallBinding, b, []reflect.Value{reflect.ValueOf(int32(8)), reflect.ValueOf(int32(7))})

		assert.Equal(t, Succeeded, out.State())
		assert.Nil(t, out.Err)
		assert.Equal(t, int64(15), out.Value.Int())
	})

	t.Run("failed with error result", func(t *testing.T) {
		b, err := Resolve(tgt, "Fails", entities.GlobalScope, "fails", nil, testTypes)
		require.NoError(t, err)

		out := Invoke(context.Background(), CallBinding, b, nil)
		assert.Equal(t, Failed, out.State())
		require.NotNil(t, out.Err)
		assert.Equal(t, "nope", out.Err.Error())
		assert.Equal(t, "fails", out.Err.ScriptName)
	})

	t.Run("failed with panic", func(t *testing.T) {
		b := mustResolve(t, "Void", entities.GlobalScope, "foo")
		panicking := func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
			panic("My Runtime Exception")
		}

		out := Invoke(context.Background(), Chain(panicking, PanicRecoveryMiddleware()), b, nil)
		assert.Equal(t, Failed, out.State())
		assert.Equal(t, "My Runtime Exception", out.Err.Message)
		assert.True(t, out.Err.Panicked)
	})

	t.Run("existing runtime error is kept", func(t *testing.T) {
		b := mustResolve(t, "Void", entities.GlobalScope, "outer")
		inner := bridgeerrors.NewRuntimeError("inner", errors.New("deep"))
		failing := func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
			return reflect.Value{}, inner
		}

		out := Invoke(context.Background(), failing, b, nil)
		assert.Same(t, inner, out.Err)
	})

	t.Run("wrapped runtime error gets its own message", func(t *testing.T) {
		b := mustResolve(t, "Void", entities.GlobalScope, "outer")
		inner := bridgeerrors.NewRuntimeError("inner", errors.New("deep"))
		failing := func(ctx HostContext, args []reflect.Value) (reflect.Value, error) {
			return reflect.Value{}, fmt.Errorf("outer step failed: %w", inner)
		}

		out := Invoke(context.Background(), failing, b, nil)
		require.NotNil(t, out.Err)
		assert.NotSame(t, inner, out.Err)
		assert.Equal(t, "outer step failed: deep", out.Err.Message)
		assert.Equal(t, "outer", out.Err.ScriptName)
		assert.ErrorIs(t, out.Err, inner)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "invoking", State(0).String())
}
