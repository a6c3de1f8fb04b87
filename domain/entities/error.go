package entities

import "fmt"

// Error types reported in ErrorDetail.Type.
const (
	ErrorTypeConfig       = "config"
	ErrorTypeCallback     = "callback"
	ErrorTypeScript       = "script"
	ErrorTypeCrossRuntime = "cross_runtime"
	ErrorTypeLeak         = "leak"
	ErrorTypeMisuse       = "misuse"
	ErrorTypeCoercion     = "coercion"
	ErrorTypeInternal     = "internal"
)

// ErrorDetail is the structured form of a bridge failure, used for logs and
// CLI output.
type ErrorDetail struct {
	// Details carries kind-specific counters such as leaked handle counts.
	Details map[string]any `json:"details,omitempty"`

	Message string `json:"message"`
	Type    string `json:"type"`

	// Code names the binding, operation or runtime involved.
	Code string `json:"code,omitempty"`

	// Panicked is set when the failure was a recovered host panic.
	Panicked bool `json:"panicked,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != ErrorTypeInternal {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return msg
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{Type: errorType, Message: message}
}
