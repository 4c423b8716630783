package model

// OrganizationRoot is a read-only aggregate assembled per read request:
// the organization, every user whose memberships reference it and every
// invitation targeting it. It is never persisted as its own entity.
type OrganizationRoot struct {
	Organization Organization `json:"organization"`
	Users        []User       `json:"users"`
	Invitations  []Invitation `json:"invitations"`
}
