package session

import (
	"strings"
)

// Role is the caller's access level. It selects which path override table
// applies when a resource is resolved.
type Role int

const (
	RoleNone Role = iota
	RoleAdmin
	RoleEventPlanner
	RoleVendor
	RoleClient

	// RoleCount is the number of roles, RoleNone included. Arrays indexed by
	// Role are sized with it.
	RoleCount
)

var roleNames = [RoleCount]string{
	RoleNone:         "",
	RoleAdmin:        "ADMIN",
	RoleEventPlanner: "EVENT_PLANNER",
	RoleVendor:       "VENDOR",
	RoleClient:       "CLIENT",
}

// ParseRole maps the stored role string to a Role. Unknown values, including
// the empty string, map to RoleNone.
func ParseRole(value string) Role {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return RoleNone
	}
	for idx, name := range roleNames {
		if name != "" && name == normalized {
			return Role(idx)
		}
	}
	return RoleNone
}

// Roles lists every role with its own override table, in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEventPlanner, RoleVendor, RoleClient}
}

func (r Role) String() string {
	if !r.Valid() {
		return ""
	}
	return roleNames[r]
}

func (r Role) Valid() bool {
	return r >= RoleNone && r < RoleCount
}
