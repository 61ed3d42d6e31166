package booking

import (
	"aperture-backend/internal/validation"
)

// Form carries the user-editable booking fields. The event date is not part
// of the form: it is fixed context chosen on the calendar before the form
// opens.
type Form struct {
	FirstName   string `json:"firstName" validate:"required,min=2"`
	LastName    string `json:"lastName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,phone"`
	ServiceType string `json:"serviceType" validate:"required,oneof=wedding portrait event other"`
	Message     string `json:"message" validate:"omitempty,max=500"`
}

// ValidationResult reports per-field outcomes. On failure every field is
// marked touched so all errors render at once.
type ValidationResult struct {
	Valid   bool
	Errors  map[string]string
	Touched map[string]bool
}

var formFields = []string{"firstName", "lastName", "email", "phone", "serviceType", "message"}

var fieldLabels = map[string]string{
	"FirstName":   "First name",
	"LastName":    "Last name",
	"Email":       "Email",
	"Phone":       "Phone",
	"ServiceType": "Service type",
	"Message":     "Message",
}

var fieldKeys = map[string]string{
	"FirstName":   "firstName",
	"LastName":    "lastName",
	"Email":       "email",
	"Phone":       "phone",
	"ServiceType": "serviceType",
	"Message":     "message",
}

// Validate checks the form locally. A failing result means no request may be
// sent.
func (f Form) Validate(val *validation.Validator) ValidationResult {
	err := val.Struct(f)
	if err == nil {
		return ValidationResult{Valid: true}
	}

	result := ValidationResult{
		Errors:  make(map[string]string),
		Touched: make(map[string]bool, len(formFields)),
	}
	for _, field := range formFields {
		result.Touched[field] = true
	}

	for _, fe := range val.ValidationErrors(err) {
		key, ok := fieldKeys[fe.Field()]
		if !ok {
			key = fe.Field()
		}
		result.Errors[key] = fieldMessage(fe.Field(), fe.Tag(), fe.Param())
	}
	return result
}

func fieldMessage(field, tag, param string) string {
	label := fieldLabels[field]
	if label == "" {
		label = field
	}
	switch tag {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "phone":
		return "Please enter a valid phone number"
	case "min":
		return label + " must be at least " + param + " characters"
	case "max":
		return label + " cannot exceed " + param + " characters"
	case "oneof":
		return "Please select a valid service type"
	}
	return label + " is invalid"
}
