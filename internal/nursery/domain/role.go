package domain

import (
	"errors"
	"strings"
)

// Role is the authorization tier of an identity. The zero value RoleNone
// means "not yet derived" and is never persisted by the resolver.
type Role string

const (
	RoleNone       Role = ""
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin" // nursery owner
	RoleSuperAdmin Role = "superadmin"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// Roles lists the assignable roles from least to most privileged.
var Roles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

// ParseRole maps a stored role string onto a Role. Anything missing or
// unrecognised is treated as RoleUser so that bad data never grants access.
func ParseRole(s string) Role {
	r, err := ParseRoleStrict(s)
	if err != nil {
		return RoleUser
	}
	return r
}

// ParseRoleStrict is ParseRole for input that must name a real role, such as
// an admin reassigning someone.
func ParseRoleStrict(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	default:
		return RoleNone, ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
