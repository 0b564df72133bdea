package model

import (
	"fmt"
	"strings"
)

// Role is a permission level scoped to a single workspace.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// Roles lists every role from most to least privileged.
var Roles = []Role{RoleAdmin, RoleMember, RoleViewer}

// ParseRole accepts a role name in any case, surrounded by optional whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if r.Rank() == 0 {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Rank orders roles; unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleMember:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}
