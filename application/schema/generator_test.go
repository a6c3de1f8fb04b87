package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestGenerateSchema_NestedStruct(t *testing.T) {
	type LogSettings struct {
		Level string `json:"level"`
	}
	type Settings struct {
		Log      LogSettings `json:"log"`
		Coercion string      `json:"coercion"`
	}

	schema, err := GenerateSchema(Settings{})
	require.NoError(t, err)
	decode(t, schema)

	assert.Contains(t, string(schema), "coercion")
	assert.Contains(t, string(schema), "level")
}

func TestGenerateSchema_EmptyStruct(t *testing.T) {
	type Empty struct{}

	schema, err := GenerateSchema(Empty{})
	require.NoError(t, err)
	assert.NotEmpty(t, decode(t, schema))
}

func TestConfigSchema(t *testing.T) {
	schema, err := ConfigSchema()
	require.NoError(t, err)

	decoded := decode(t, schema)
	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "expanded struct schema has top-level properties")
	assert.Contains(t, props, "coercion")
	assert.Contains(t, props, "enable_console")
	assert.Contains(t, props, "fail_on_leak")
	assert.Contains(t, props, "log")

	coercion := props["coercion"].(map[string]any)
	assert.ElementsMatch(t, []any{"strict", "lenient"}, coercion["enum"])
}

func TestBindingsSchema(t *testing.T) {
	schema, err := BindingsSchema()
	require.NoError(t, err)

	decoded := decode(t, schema)
	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	bindings := props["bindings"].(map[string]any)
	assert.Equal(t, "array", bindings["type"])
	assert.Contains(t, string(schema), "script_name")
	assert.Contains(t, string(schema), `"int32"`)
}
