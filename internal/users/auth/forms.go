// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"unicode/utf8"

	"github.com/Adititesting969/authflow-6448/internal/platform/validate"
)

// # Form Payloads

// LoginForm carries a sign-in attempt.
type LoginForm struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// RegistrationForm carries a sign-up attempt.
type RegistrationForm struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// # Field Validators
//
// Each validator returns the exact user-facing message for the first rule
// the value breaks, or "" when the value passes. The wording is fixed copy;
// do not reword without a product decision.

// validateEmail checks presence and the local@domain.tld shape.
func validateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !validate.EmailShape(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// validateFullName checks presence and the minimum length.
func validateFullName(fullName string) string {
	if fullName == "" {
		return "Full name is required"
	}
	if utf8.RuneCountInString(fullName) < MinFullNameLength {
		return "Full name must be at least 2 characters"
	}
	return ""
}

// validateRegistrationPassword enforces the full password policy. The first
// failing rule's message wins, in the policy's rule order.
func validateRegistrationPassword(password string) string {
	if password == "" {
		return "Password is required"
	}

	strength := Evaluate(password)
	switch {
	case !strength.Checks.Length:
		return "Password must be at least 8 characters long"
	case !strength.Checks.Lowercase:
		return "Password must contain at least one lowercase letter"
	case !strength.Checks.Uppercase:
		return "Password must contain at least one uppercase letter"
	case !strength.Checks.Digit:
		return "Password must contain at least one number"
	case !strength.Checks.Symbol:
		return "Password must contain at least one special character"
	}
	return ""
}

// validateLoginPassword is deliberately laxer than registration: presence
// and length only, so policy tightening never locks out existing accounts.
func validateLoginPassword(password string) string {
	if password == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "Password must be at least 8 characters long"
	}
	return ""
}

// validateConfirmPassword checks presence and the exact match.
func validateConfirmPassword(password, confirm string) string {
	if confirm == "" {
		return "Please confirm your password"
	}
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}

// # Form Validators

/*
ValidateLoginForm runs every login field validator.

Returns:
  - map[string]string: field name to message for each failing field.
    An empty map means the form is submittable. A non-empty map must
    never reach the remote backend.
*/
func ValidateLoginForm(form LoginForm) map[string]string {
	errs := map[string]string{}

	if message := validateEmail(form.Email); message != "" {
		errs[FieldEmail] = message
	}
	if message := validateLoginPassword(form.Password); message != "" {
		errs[FieldPassword] = message
	}

	return errs
}

/*
ValidateRegistrationForm runs every registration field validator.

Returns:
  - map[string]string: field name to message for each failing field.
    An empty map means the form is submittable.
*/
func ValidateRegistrationForm(form RegistrationForm) map[string]string {
	errs := map[string]string{}

	if message := validateFullName(form.FullName); message != "" {
		errs[FieldFullName] = message
	}
	if message := validateEmail(form.Email); message != "" {
		errs[FieldEmail] = message
	}
	if message := validateRegistrationPassword(form.Password); message != "" {
		errs[FieldPassword] = message
	}
	if message := validateConfirmPassword(form.Password, form.ConfirmPassword); message != "" {
		errs[FieldConfirmPassword] = message
	}
	if !form.AcceptTerms {
		errs[FieldAcceptTerms] = "You must accept the terms and conditions"
	}

	return errs
}
