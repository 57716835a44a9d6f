package constants

// Permissions gate role-restricted endpoints.
const (
	CreateProject      = "CREATE_PROJECT"
	UpdateProject      = "UPDATE_PROJECT"
	DeleteProject      = "DELETE_PROJECT"
	PostProjectUpdate  = "POST_PROJECT_UPDATE"
	ManageReportStatus = "MANAGE_REPORT_STATUS"
	ViewDashboard      = "VIEW_DASHBOARD"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	CreateProject:      {RoleGovernment, RoleAdmin},
	UpdateProject:      {RoleGovernment, RoleAdmin},
	DeleteProject:      {RoleAdmin},
	PostProjectUpdate:  {RoleContractor, RoleAdmin},
	ManageReportStatus: {RoleGovernment, RoleAdmin},
	ViewDashboard:      {RoleGovernment, RoleAdmin},
}

// AllowedRole returns true if role is allowed for the permission.
func AllowedRole(permission, role string) bool {
	for _, r := range PermissionRoles[permission] {
		if r == role {
			return true
		}
	}
	return false
}
