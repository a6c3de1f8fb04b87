// Package entities provides the core domain types shared by the registry, the
// marshallers and the runtime: value kinds, binding descriptors and structured
// error details. They carry no engine dependency.
package entities
