package session

import "strings"

// Role is the coarse privilege classification the backend assigns to an
// account. Raw backend strings never travel past ParseRole.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleFundAdministrator Role = "fund_administrator"
	RoleFundManager       Role = "fund_manager"
	RoleUnknown           Role = "unknown"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFundAdministrator, RoleFundManager, RoleUnknown:
		return true
	default:
		return false
	}
}

// CanManageClients reports whether the role sees the client management area.
func (r Role) CanManageClients() bool {
	return r == RoleFundManager
}

// CanUseAdminTools reports whether the role sees the admin tools area.
func (r Role) CanUseAdminTools() bool {
	return r == RoleAdmin
}

// GetAllRoles returns all predefined roles.
func GetAllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleFundAdministrator,
		RoleFundManager,
		RoleUnknown,
	}
}

// ParseRole maps a backend user_type string onto a Role. The wire format
// uses short codes ("fm", "fa") but long names show up in cached state, so
// both are accepted, case-insensitively. Anything else is RoleUnknown.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrator":
		return RoleAdmin
	case "fa", "fund_administrator":
		return RoleFundAdministrator
	case "fm", "fund_manager":
		return RoleFundManager
	default:
		return RoleUnknown
	}
}
