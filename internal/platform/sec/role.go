// Copyright (c) 2026 AuthFlow. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Roles are assigned by the remote identity platform; the gateway only
// reads them from verified token claims.
type UserRole string

const (
	// Unrestricted system access (is_admin RPC resolves true)
	RoleAdmin UserRole = "admin"

	// Default role seeded into new registrations
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale leaves room for intermediate roles
	switch r {
	case RoleAdmin:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
