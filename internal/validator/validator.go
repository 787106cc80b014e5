// Package validator checks request input at the API boundary and reports
// failures per field.  Validation always runs before any repository call,
// so malformed input never reaches the data layer.
package validator

import (
	"net/mail"
	"strings"

	"github.com/velizarh/taskboard/internal/model"
)

// ValidationErrors maps a field name to a human-readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// ValidateRegister checks registration input: a parseable email address, a
// password of at least 6 characters and, when provided, a name of at
// least 2 characters.
func ValidateRegister(email, password, name string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}

	if name = strings.TrimSpace(name); name != "" && len(name) < 2 {
		errs.Add("name", "Name must be at least 2 characters")
	}

	return errs
}

// ValidateLogin checks login input.  Password content is not constrained
// here; wrong passwords are an authentication failure, not a validation one.
func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

// ValidateTaskCreate checks task creation input: title required and
// non-empty, status one of the enumerated values when present.
func ValidateTaskCreate(title string, status *string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(title) == "" {
		errs.Add("title", "Title is required")
	}
	validateStatus(status, errs)

	return errs
}

// ValidateTaskUpdate checks a partial task update: every field is
// optional, but a supplied title must be non-empty and a supplied status
// must be valid.
func ValidateTaskUpdate(title, status *string) ValidationErrors {
	errs := make(ValidationErrors)

	if title != nil && strings.TrimSpace(*title) == "" {
		errs.Add("title", "Title cannot be empty")
	}
	validateStatus(status, errs)

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validateStatus(status *string, errs ValidationErrors) {
	if status != nil && !model.ValidStatus(*status) {
		errs.Add("status", "Invalid status value")
	}
}
