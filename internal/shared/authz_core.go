package shared

// SuperAdminRole is the role code the seed grants every permission to.
// Endpoint checks still resolve it through the regular permission set.
const SuperAdminRole = "super_admin"

// Core platform permissions.
const (
	PermUserList   = "user:list"
	PermUserCreate = "user:create"
	PermUserUpdate = "user:update"
	PermUserDelete = "user:delete"
	PermUserAssign = "user:assign"

	PermRoleList   = "role:list"
	PermRoleCreate = "role:create"
	PermRoleUpdate = "role:update"
	PermRoleDelete = "role:delete"
	PermRoleAssign = "role:assign"

	PermPermissionList   = "permission:list"
	PermPermissionCreate = "permission:create"
	PermPermissionUpdate = "permission:update"
	PermPermissionDelete = "permission:delete"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUserList, PermUserCreate, PermUserUpdate, PermUserDelete, PermUserAssign,
		PermRoleList, PermRoleCreate, PermRoleUpdate, PermRoleDelete, PermRoleAssign,
		PermPermissionList, PermPermissionCreate, PermPermissionUpdate, PermPermissionDelete,
	}
}
