package model

// UserOrganization is a membership record: the organization a user belongs to
// plus the permissions granted within it.
type UserOrganization struct {
	OrganizationId string   `json:"organization_id" bson:"organization_id"`
	Permissions    []string `json:"permissions" bson:"permissions"`
}

// User is identified by the external subject id supplied by the identity
// collaborator. Holding zero memberships is the admission gate for
// creating or joining an organization.
type User struct {
	Id            string             `json:"id"`
	Permissions   []string           `json:"permissions"`
	Organizations []UserOrganization `json:"organizations"`
}

// NewUser synthesizes a transient user for a subject that has no stored
// record yet. It carries the self-service permissions and no memberships,
// and is never persisted by the read path.
func NewUser(id string) *User {
	return &User{
		Id:            id,
		Permissions:   SelfServicePermissions(),
		Organizations: []UserOrganization{},
	}
}

// HasNoOrganization reports whether the user may still create or join an
// organization. Membership count is the sole admission-control gate.
func (u *User) HasNoOrganization() bool {
	return len(u.Organizations) == 0
}
