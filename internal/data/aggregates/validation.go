package aggregates

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() != reflect.String {
				return false
			}
			return strings.TrimSpace(f.String()) != ""
		})
		mustRegister(v, "multiple_of", func(fl validator.FieldLevel) bool {
			step, err := strconv.ParseInt(strings.TrimSpace(fl.Param()), 10, 64)
			if err != nil || step <= 0 {
				return false
			}
			switch fl.Field().Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return fl.Field().Int()%step == 0
			default:
				return false
			}
		})
		validate = v
	})
	return validate
}

// mustRegister panics with the registration error for tag.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("aggregates: register validation " + strconv.Quote(tag) + ": " + err.Error())
	}
}

// ValidateFields exposes the write-path field rules to callers that need to
// check input before starting a multi-step import.
func ValidateFields(in any) error {
	return validateFields(in)
}

// validateFields runs struct tag validation and reports the first failing
// field as a validation error.
func validateFields(in any) error {
	err := fieldValidator().Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return ValidationError(err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "notblank":
		return ValidationError(strings.ToLower(fe.Field()) + " must not be blank")
	case "min", "max":
		return ValidationError(strings.ToLower(fe.Field()) + " must be within " + rangeHint(fe))
	case "multiple_of":
		return ValidationError(strings.ToLower(fe.Field()) + " must be a multiple of " + fe.Param())
	default:
		return ValidationError(fe.Error())
	}
}

func rangeHint(fe validator.FieldError) string {
	if fe.Tag() == "min" {
		return "bounds (min " + fe.Param() + ")"
	}
	return "bounds (max " + fe.Param() + ")"
}
