package accounts

import "fmt"

type Role string

const (
	RoleSeller  Role = "seller"
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSeller, RoleAdmin, RoleSupport:
		return true
	default:
		return false
	}
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}
