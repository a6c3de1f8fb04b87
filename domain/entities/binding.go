package entities

// GlobalScope is the scope of bindings registered on the script global object.
const GlobalScope = ""

// BindingDescriptor is the inspectable, serializable form of a callback binding.
type BindingDescriptor struct {
	// Scope is GlobalScope or the scope id of the object the binding lives on.
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`

	// ScriptName is the name script code calls.
	ScriptName string `json:"script_name" yaml:"script_name" validate:"required,identifier" jsonschema:"required"`

	// Method is the Go method name the binding resolved to. Empty for bare funcs.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Params are the declared parameter kinds, in call order.
	Params []Kind `json:"params" yaml:"params" validate:"dive,param_kind"`

	// Return is the kind of the callable's script-visible result.
	Return Kind `json:"return" yaml:"return"`

	// Nullable is set when the Go result is a pointer that may be nil.
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	// ReturnsError is set when the Go method has a trailing error result.
	ReturnsError bool `json:"returns_error,omitempty" yaml:"returns_error,omitempty"`
}
