package entities

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Kind tags a value crossing the host/script boundary. The same tag set is used
// for binding parameters, binding return values and execution variants.
type Kind uint8

const (
	// KindVoid means no value. Valid as a return kind and execution variant only.
	KindVoid Kind = iota
	KindInt32
	KindFloat64
	KindBool
	KindString
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindInt32:   "int32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindString:  "string",
	KindObject:  "object",
	KindArray:   "array",
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindVoid, KindInt32, KindFloat64, KindBool, KindString, KindObject, KindArray}
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// IsParam reports whether k may appear in a parameter list.
func (k Kind) IsParam() bool {
	return k != KindVoid && k.Valid()
}

// IsHandle reports whether values of kind k are engine-resident and ownership tracked.
func (k Kind) IsHandle() bool {
	return k == KindObject || k == KindArray
}

// ParseKind converts a kind name into a Kind. Matching is case-insensitive and
// accepts a few common aliases ("int", "double", "boolean").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "void", "":
		return KindVoid, nil
	case "int32", "int", "integer":
		return KindInt32, nil
	case "float64", "double", "number":
		return KindFloat64, nil
	case "bool", "boolean":
		return KindBool, nil
	case "string":
		return KindString, nil
	case "object":
		return KindObject, nil
	case "array":
		return KindArray, nil
	}
	return KindVoid, fmt.Errorf("unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// JSONSchema describes Kind as a string enum.
func (Kind) JSONSchema() *jsonschema.Schema {
	enum := make([]any, 0, len(kindNames))
	for _, name := range kindNames {
		enum = append(enum, name)
	}
	return &jsonschema.Schema{
		Type: "string",
		Enum: enum,
	}
}

// CoercionPolicy selects how script values whose type disagrees with a
// declared kind are handled.
type CoercionPolicy uint8

const (
	// CoercionStrict rejects mismatching values with a TypeCoercionError.
	CoercionStrict CoercionPolicy = iota
	// CoercionLenient applies ECMAScript ToNumber/ToBoolean/ToString to
	// primitive kinds. Object and array positions stay strict.
	CoercionLenient
)

func (p CoercionPolicy) String() string {
	if p == CoercionLenient {
		return "lenient"
	}
	return "strict"
}

// ParseCoercionPolicy converts "strict" or "lenient" into a policy. The empty
// string selects the strict default.
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CoercionStrict, nil
	case "lenient":
		return CoercionLenient, nil
	}
	return CoercionStrict, fmt.Errorf("unknown coercion policy %q", s)
}
