package booking

import (
	"strings"
	"testing"

	"aperture-backend/internal/validation"
)

func validForm() Form {
	return Form{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@x.com",
		Phone:       "555-123-4567",
		ServiceType: "wedding",
		Message:     "",
	}
}

func TestFormValid(t *testing.T) {
	val := validation.New()
	result := validForm().Validate(val)
	if !result.Valid {
		t.Fatalf("expected valid form, got errors: %v", result.Errors)
	}
}

func TestFormShortPhoneRejected(t *testing.T) {
	val := validation.New()
	form := validForm()
	form.Phone = "123"

	result := form.Validate(val)
	if result.Valid {
		t.Fatalf("expected invalid form")
	}
	if result.Errors["phone"] != "Please enter a valid phone number" {
		t.Fatalf("unexpected phone error: %q", result.Errors["phone"])
	}
}

func TestFormRequiredMessages(t *testing.T) {
	val := validation.New()
	result := Form{}.Validate(val)
	if result.Valid {
		t.Fatalf("expected invalid form")
	}

	want := map[string]string{
		"firstName":   "First name is required",
		"lastName":    "Last name is required",
		"email":       "Email is required",
		"phone":       "Phone is required",
		"serviceType": "Service type is required",
	}
	for field, message := range want {
		if result.Errors[field] != message {
			t.Fatalf("%s: got %q, expected %q", field, result.Errors[field], message)
		}
	}
}

func TestFormAllFieldsTouchedOnFailure(t *testing.T) {
	val := validation.New()
	form := validForm()
	form.Email = "not-an-email"

	result := form.Validate(val)
	if result.Valid {
		t.Fatalf("expected invalid form")
	}
	for _, field := range formFields {
		if !result.Touched[field] {
			t.Fatalf("field %s not marked touched", field)
		}
	}
	if result.Errors["email"] != "Please enter a valid email address" {
		t.Fatalf("unexpected email error: %q", result.Errors["email"])
	}
}

func TestFormMinLengthMessage(t *testing.T) {
	val := validation.New()
	form := validForm()
	form.FirstName = "J"

	result := form.Validate(val)
	if result.Errors["firstName"] != "First name must be at least 2 characters" {
		t.Fatalf("unexpected error: %q", result.Errors["firstName"])
	}
}

func TestFormMessageTooLong(t *testing.T) {
	val := validation.New()
	form := validForm()
	form.Message = strings.Repeat("a", 501)

	result := form.Validate(val)
	if result.Valid {
		t.Fatalf("expected invalid form")
	}
	if result.Errors["message"] != "Message cannot exceed 500 characters" {
		t.Fatalf("unexpected message error: %q", result.Errors["message"])
	}

	form.Message = strings.Repeat("a", 500)
	if result := form.Validate(val); !result.Valid {
		t.Fatalf("500-character message should pass, got %v", result.Errors)
	}
}
