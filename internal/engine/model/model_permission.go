package model

// Permissions a user can hold, either on their own account (self-service)
// or within an organization.
const (
	PermissionCreateOrganization = "create:org"
	PermissionJoinOrganization   = "join:org"
	PermissionReadOrganization   = "read:org"
	PermissionUpdateOrganization = "update:org"
	PermissionDeleteOrganization = "delete:org"
	PermissionRequestPermission  = "request_permission:org"
	PermissionInviteUser         = "invite:user"
	PermissionUpdateUser         = "update:user"
	PermissionDeleteUser         = "delete:user"
)

// SelfServicePermissions is what an unregistered user may do: bootstrap an
// organization or join one through an invitation.
func SelfServicePermissions() []string {
	return []string{
		PermissionCreateOrganization,
		PermissionJoinOrganization,
	}
}

// OrganizationCreatorPermissions is the full permission set attached to the
// membership of the user that created the organization.
func OrganizationCreatorPermissions() []string {
	return []string{
		PermissionReadOrganization,
		PermissionUpdateOrganization,
		PermissionDeleteOrganization,
		PermissionRequestPermission,
		PermissionInviteUser,
		PermissionUpdateUser,
		PermissionDeleteUser,
	}
}
