package validator

import (
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
}

// Validate struct fields. Keys are json field names.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Missing lists the fields that failed a "required" rule, sorted.
func Missing(errs map[string]string) []string {
	var out []string
	for field, tag := range errs {
		if tag == "required" {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}
