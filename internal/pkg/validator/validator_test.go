package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00:00", "09:05:30", "23:59:59"}
	invalid := []string{"24:00:00", "9:05:30", "09:60:00", "09:05", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Sh0rt!", "must be at least 8 characters long"},
		{"lowercase1!", "must contain at least one uppercase letter"},
		{"UPPERCASE1!", "must contain at least one lowercase letter"},
		{"NoDigits!!", "must contain at least one number"},
		{"NoSpecial11", "must contain at least one special character"},
		{"SecurePass123!", ""},
	}
	for _, c := range cases {
		if got := PasswordStrength(c.input); got != c.want {
			t.Errorf("PasswordStrength(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"required,oneof=A B"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	if errs := Struct(sample{Email: "a@b.cd", Kind: "A", Date: "2024-03-01"}); errs != nil {
		t.Fatalf("Struct(valid) = %v, want nil", errs)
	}

	errs := Struct(sample{Email: "nope", Kind: "C", Date: "03/01/2024"})
	got := errs.ToMap()
	want := map[string]string{
		"email": "must be a valid email address",
		"kind":  "must be one of: A, B",
		"date":  "must match format 2006-01-02",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("Struct field %q = %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidationErrors_OrNil(t *testing.T) {
	var errs ValidationErrors
	if errs.OrNil() != nil {
		t.Errorf("OrNil() on empty = non-nil, want nil")
	}
	errs.Add("field", "is required")
	err := errs.OrNil()
	var ve ValidationErrors
	if !errors.As(err, &ve) || len(ve) != 1 {
		t.Errorf("OrNil() = %v, want one ValidationError", err)
	}
	if err.Error() != "field: is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
