package entity

import "slices"

// Role represents the kind of member an account belongs to.
type Role string

const (
	// RoleStudent is the default role for new accounts.
	RoleStudent Role = "student"
	// RoleVendor is assigned to accounts that sell goods or services.
	RoleVendor Role = "vendor"
	// RoleAdmin is assigned to platform administrators.
	RoleAdmin Role = "admin"
)

var allRoles = []Role{RoleStudent, RoleVendor, RoleAdmin}

// AllRoles returns every valid role in display order.
func AllRoles() []Role {
	return slices.Clone(allRoles)
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a known value.
func (r Role) IsValid() bool {
	return slices.Contains(allRoles, r)
}

// DisplayName returns the human readable label of the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleVendor:
		return "Vendor"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}
