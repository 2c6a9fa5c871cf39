// Package validator wraps a shared validator.Validate instance and flattens
// struct validation failures into a field -> tag map for error envelopes.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate returns nil when v passes its struct tags, otherwise a map of
// failing field names to the tag that rejected them.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
