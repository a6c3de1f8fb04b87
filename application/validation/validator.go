// Package validation wraps go-playground/validator with the custom rules used
// for binding descriptors and configuration.
package validation

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/scriptbridge/domain/entities"
)

// identifierPattern matches ASCII JavaScript identifiers.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so messages match config keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("param_kind", func(fl validator.FieldLevel) bool {
		return entities.Kind(fl.Field().Uint()).IsParam()
	})
	_ = v.RegisterValidation("coercion_policy", func(fl validator.FieldLevel) bool {
		_, err := entities.ParseCoercionPolicy(fl.Field().String())
		return err == nil
	})

	return v
}

// IsIdentifier reports whether name can be used as a script-visible name.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Struct validates v against its validate tags. Validation failures are
// flattened into a single error naming every offending field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "identifier":
		return fmt.Sprintf("%s %q is not a valid identifier", field, fe.Value())
	case "param_kind":
		return fmt.Sprintf("%s %v is not a parameter kind", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "coercion_policy":
		return fmt.Sprintf("%s %q is not a coercion policy", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}
