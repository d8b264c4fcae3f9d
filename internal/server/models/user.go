package models

import "time"

// Role is one of the closed set of roles a user can hold.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleTenantAdmin Role = "TENANT_ADMIN"
	RoleVoter       Role = "VOTANTE"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleVoter:
		return true
	}
	return false
}

// User is a platform account. TenantID is nil for super admins.
type User struct {
	ID        string
	TenantID  *string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	Active    bool
	CreatedAt time.Time
}

// Tenant is an organization owning elections, users and lists.
type Tenant struct {
	ID           string
	Name         string
	ContactEmail string
	// Timezone is an IANA zone name, "UTC" by default.
	Timezone  string
	Country   string
	Active    bool
	CreatedAt time.Time
}
