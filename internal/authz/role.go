package authz

import "fmt"

// Role is a closed enumeration of platform roles. Roles are assigned by the
// identity layer at authentication time and never change mid-session.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleAdvisor    Role = "ADVISOR"
	RoleSupport    Role = "SUPPORT"
	RoleInvestor   Role = "INVESTOR"
	RoleSME        Role = "SME"
)

// AllRoles lists every member of the Role enumeration.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleAdvisor, RoleSupport, RoleInvestor, RoleSME}
}

// ParseRole validates a raw role token against the enumeration.
func ParseRole(raw string) (Role, error) {
	for _, r := range AllRoles() {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", fmt.Errorf("authz: unknown role %q", raw)
}

// Valid reports whether the role is a member of the enumeration.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
