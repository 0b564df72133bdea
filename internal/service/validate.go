package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct returns the first field failure of s as a *ValidationError.
func checkStruct(s any) error {
	errs := fieldErrors(s)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// fieldErrors returns every field failure of s in declaration order.
func fieldErrors(s any) []*ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []*ValidationError{invalid("body", err.Error())}
	}
	out := make([]*ValidationError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, invalid(fe.Field(), describe(fe)))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}

// enumError words a failed enum parse for the given choices.
func enumError[T ~string](field string, choices []T) *ValidationError {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}
	return invalid(field, "must be one of "+strings.Join(names, ", "))
}
