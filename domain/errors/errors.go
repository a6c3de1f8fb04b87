// Package errors provides the error kinds raised at the host/script boundary.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/scriptbridge/domain/entities"
)

// ReasonUnsupportedReturnType is the ConfigurationError reason for methods whose
// result cannot be marshalled into the script engine.
const ReasonUnsupportedReturnType = "Unsupported Return Type"

var (
	// ErrHandleReleased is wrapped by MisuseError when a released handle is used.
	ErrHandleReleased = stdErrors.New("handle already released")

	// ErrRuntimeReleased is wrapped by MisuseError when a released runtime is used.
	ErrRuntimeReleased = stdErrors.New("runtime already released")

	// ErrRuntimeBusy is wrapped by MisuseError when a runtime is released from
	// inside one of its own executions.
	ErrRuntimeBusy = stdErrors.New("runtime is executing")

	// ErrBindingNotRegistered is wrapped by MisuseError when a binding is
	// invoked on a runtime that does not currently hold it.
	ErrBindingNotRegistered = stdErrors.New("binding is not registered on this runtime")
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by every error kind in this package so callers
// can log or serialize failures without a type switch.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    entities.ErrorTypeInternal,
	}
}

// ConfigurationError reports a binding that cannot be registered. It is raised
// at registration time and no binding is created.
type ConfigurationError struct {
	Err        error
	Target     string // Go type of the registration target
	Method     string
	ScriptName string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil && e.Reason == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigurationError) ToErrorDetail() *entities.ErrorDetail {
	d := &entities.ErrorDetail{Message: e.Error(), Type: entities.ErrorTypeConfig, Code: e.ScriptName}
	if e.Method != "" || e.Target != "" {
		d.Details = map[string]any{"method": e.Method, "target": e.Target}
	}
	return d
}

// RuntimeError is a host callable failure carried across the script boundary.
// Its message is exactly the message of the original failure.
type RuntimeError struct {
	Err        error
	ScriptName string
	Message    string
	Panicked   bool
}

// NewRuntimeError wraps a host failure raised while dispatching scriptName.
func NewRuntimeError(scriptName string, err error) *RuntimeError {
	return &RuntimeError{Err: err, ScriptName: scriptName, Message: err.Error()}
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *RuntimeError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Message, Type: entities.ErrorTypeCallback, Code: e.ScriptName, Panicked: e.Panicked}
}

// ScriptError reports malformed script text or an uncaught script exception
// that did not originate in a host callable.
type ScriptError struct {
	Err     error
	Message string
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ScriptError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Message, Type: entities.ErrorTypeScript}
}

// CrossRuntimeError reports a handle used on, or returned to, a runtime other
// than the one it belongs to, or a released handle offered for crossing.
type CrossRuntimeError struct {
	Op            string
	HandleRuntime string
	TargetRuntime string
	Released      bool
}

func (e *CrossRuntimeError) Error() string {
	if e.Released {
		return fmt.Sprintf("%s: handle was already released", e.Op)
	}
	return fmt.Sprintf("%s: handle belongs to runtime %s, not %s", e.Op, e.HandleRuntime, e.TargetRuntime)
}

// ToErrorDetail implements DetailedError.
func (e *CrossRuntimeError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: entities.ErrorTypeCrossRuntime, Code: e.Op}
}

// LeakError reports a runtime release refused because handles are still live.
type LeakError struct {
	RuntimeID string
	Objects   int
	Arrays    int
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("runtime %s has %d unreleased handles (%d objects, %d arrays)",
		e.RuntimeID, e.Outstanding(), e.Objects, e.Arrays)
}

// Outstanding returns the total number of live handles.
func (e *LeakError) Outstanding() int {
	return e.Objects + e.Arrays
}

// ToErrorDetail implements DetailedError.
func (e *LeakError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    entities.ErrorTypeLeak,
		Code:    e.RuntimeID,
		Details: map[string]any{"objects": e.Objects, "arrays": e.Arrays},
	}
}

// MisuseError reports an operation on a released handle or runtime.
type MisuseError struct {
	Err     error
	Op      string
	Subject string
}

func (e *MisuseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *MisuseError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *MisuseError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: entities.ErrorTypeMisuse, Code: e.Op}
}

// TypeCoercionError reports a script value whose type disagrees with the
// declared kind under the strict coercion policy.
type TypeCoercionError struct {
	Context string // "argument 2", "result", "property name", "index 3"
	Want    entities.Kind
	Got     string // script-side type name
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("%s: cannot coerce %s to %s", e.Context, e.Got, e.Want)
}

// ToErrorDetail implements DetailedError.
func (e *TypeCoercionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: entities.ErrorTypeCoercion, Code: e.Want.String()}
}
