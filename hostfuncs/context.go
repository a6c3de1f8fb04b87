package hostfuncs

import (
	"context"
)

// HostContext wraps a standard context.Context with dispatch-specific helpers.
// It exposes the binding being invoked and lets middleware store call-scoped
// values without polluting the standard context.
type HostContext interface {
	context.Context

	// FunctionName returns the script name of the binding being invoked.
	FunctionName() string

	// Binding returns the binding being invoked.
	Binding() *Binding

	// SetValue stores a call-scoped value. Unlike context.WithValue,
	// this mutates the existing HostContext.
	SetValue(key, value any)

	// GetValue retrieves a call-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	values  map[any]any
	binding *Binding
}

// NewHostContext creates a new HostContext for one dispatch of b.
func NewHostContext(ctx context.Context, b *Binding) HostContext {
	return &hostContext{
		Context: ctx,
		binding: b,
		values:  make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	if c.binding == nil {
		return ""
	}
	return c.binding.scriptName
}

func (c *hostContext) Binding() *Binding {
	return c.binding
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom returns ctx itself if it already is a HostContext for b,
// otherwise a new HostContext wrapping ctx.
func HostContextFrom(ctx context.Context, b *Binding) HostContext {
	if hc, ok := ctx.(HostContext); ok && hc.Binding() == b {
		return hc
	}
	return NewHostContext(ctx, b)
}
