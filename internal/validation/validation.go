// Package validation wraps a shared go-playground validator and turns its
// field errors into the short messages used in environment diagnostics.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/animalet/sargantana-env/pkg/schema"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// DurationTag checks a string with schema.ParseDuration ("15m", "7d").
const DurationTag = "duration"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation(DurationTag, func(fl validator.FieldLevel) bool {
		_, err := schema.ParseDuration(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// Var checks a single value against tag and returns the first failure as a
// diagnostic message such as "must be a valid URL".
func Var(value any, tag string) error {
	err := validate.Var(value, tag)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.New(Message(fieldErrs[0]))
	}
	return err
}

// Struct checks s against its validate tags. Every failing field is reported,
// named by its yaml tag.
func Struct(s any) error {
	err := validate.Struct(s)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fe.Field() + " " + Message(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Message describes a failed check without naming the field.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "gt":
		if fe.Param() == "0" {
			return "must be a positive number"
		}
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		if fe.Kind() != reflect.String {
			return "must be greater than or equal to " + fe.Param()
		}
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "url":
		return "must be a valid URL"
	case DurationTag:
		return "must be a duration such as 15m or 7d"
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}
