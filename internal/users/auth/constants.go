// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import "github.com/Adititesting969/authflow-6448/internal/platform/sec"

// # Field Identifiers
//
// JSON field names shared by the form validators and the HTTP layer.

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "fullName"
	FieldConfirmPassword = "confirmPassword"
	FieldAcceptTerms     = "acceptTerms"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// # Policy

const (
	// MinPasswordLength is the policy floor for every password.
	MinPasswordLength = 8

	// MinFullNameLength is the shortest accepted display name.
	MinFullNameLength = 2

	// PasswordSymbols is the accepted special-character set.
	PasswordSymbols = `!@#$%^&*(),.?":{}|<>`
)

// # Defaults

const (
	// DefaultRole is assigned to every self-registered account.
	DefaultRole = string(sec.RoleMember)

	// GatewaySessionTokenLength is the byte length of the opaque session
	// token minted for the cookie on sign-in.
	GatewaySessionTokenLength = 32

	// DefaultActivityLimit bounds activity reads when the caller does not
	// specify one.
	DefaultActivityLimit = 10
)

// # Activity Vocabulary
//
// The fixed type/title/description triples written to the remote activity
// log. These strings are part of the recorded data, not UI copy; keep them
// stable.

const (
	ActivityTypeLogin    = "login"
	ActivityTypeLogout   = "logout"
	ActivityTypeProfile  = "profile"
	ActivityTypeSecurity = "security"

	ActivityTitleLogin    = "Successful Login"
	ActivityTitleLogout   = "Account Logout"
	ActivityTitleProfile  = "Profile Updated"
	ActivityTitleSecurity = "Password Changed"

	ActivityDescLogin    = "User signed in successfully"
	ActivityDescLogout   = "User signed out successfully"
	ActivityDescProfile  = "User profile information was updated"
	ActivityDescSecurity = "User password was successfully updated"
)
