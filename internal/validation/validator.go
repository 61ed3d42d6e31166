package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phoneRegex is deliberately loose: digits, spaces, +, -, parentheses,
// at least 10 characters overall.
var phoneRegex = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(value)
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
