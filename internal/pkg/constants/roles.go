package constants

// User roles (closed enum, stored in Users.role).
const (
	RoleAdmin      = "ADMIN"
	RoleContractor = "CONTRACTOR"
	RoleGovernment = "GOVERNMENT"
	RolePublic     = "PUBLIC"
)

// ValidRoles is the set of allowed role values.
var ValidRoles = []string{RoleAdmin, RoleContractor, RoleGovernment, RolePublic}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
