package user

// Role is the tenant-scoped authorization level carried in JWT claims.
type Role string

const (
	// RoleOwner has admin authority over the whole tenant.
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// IsAdmin reports whether the role carries admin authority.
func (r Role) IsAdmin() bool {
	return r == RoleOwner
}
