// Package validator wraps go-playground struct validation into the
// field -> failed-rule map the handlers attach to 400 responses.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks v against its `validate` tags. Nil means everything
// passed.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs := err.(validator.ValidationErrors)
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
