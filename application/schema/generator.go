// Package schema generates JSON schemas for configuration and binding tables.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/scriptbridge/application/config"
	"github.com/reglet-dev/scriptbridge/domain/entities"
)

// GenerateSchema creates a JSON schema from a Go value.
// It uses the `invopop/jsonschema` library to reflect on the type
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// ConfigSchema returns the schema of config.Config, the runtime configuration file.
func ConfigSchema() ([]byte, error) {
	return GenerateSchema(config.Config{})
}

// BindingTable is the serialized form of a runtime's registered bindings.
type BindingTable struct {
	Bindings []entities.BindingDescriptor `json:"bindings" yaml:"bindings"`
}

// BindingsSchema returns the schema of BindingTable.
func BindingsSchema() ([]byte, error) {
	return GenerateSchema(BindingTable{})
}
