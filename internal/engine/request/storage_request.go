package request

import (
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// StorageRequest is a persistence-level operation for the storage dispatch
// pool. Find results use a nil Value to report "not found"; only driver and
// connection problems travel as errors.
type StorageRequest interface {
	storageRequest()
}

// InsertOrganization inserts a new organization document and replies with the
// stored organization, id included.
type InsertOrganization struct {
	Name      string
	Country   string
	Address   string
	Telephone string
	Replier   *oneshot.Replier[Result[*model.Organization]]
}

// RemoveOrganization deletes an organization by id. Used as the compensating
// action of the create-organization saga.
type RemoveOrganization struct {
	Id      string
	Replier *oneshot.Replier[error]
}

// FindOrganizationById looks an organization up by its primary identifier.
type FindOrganizationById struct {
	Id      string
	Replier *oneshot.Replier[Result[*model.Organization]]
}

// FindOrganizationByName looks an organization up by exact name.
type FindOrganizationByName struct {
	Name    string
	Replier *oneshot.Replier[Result[*model.Organization]]
}

// FindOrganizationByTelephone looks an organization up by exact telephone.
type FindOrganizationByTelephone struct {
	Telephone string
	Replier   *oneshot.Replier[Result[*model.Organization]]
}

// InsertUser inserts a user document holding a single membership.
type InsertUser struct {
	Id           string
	Organization model.UserOrganization
	Replier      *oneshot.Replier[Result[*model.User]]
}

// FindUserById looks a user up by the external subject id.
type FindUserById struct {
	UserId  string
	Replier *oneshot.Replier[Result[*model.User]]
}

// RemoveUser deletes a user document by the external subject id.
type RemoveUser struct {
	Id      string
	Replier *oneshot.Replier[error]
}

// FindInvitationByCode looks an invitation up by its code.
type FindInvitationByCode struct {
	Code    string
	Replier *oneshot.Replier[Result[*model.Invitation]]
}

// RemoveInvitation deletes an invitation by its code.
type RemoveInvitation struct {
	Code    string
	Replier *oneshot.Replier[error]
}

// ReadOrganizationRoot assembles the organization aggregate out of three
// dependent reads. Any sub-read failure aborts the whole read.
type ReadOrganizationRootRecord struct {
	OrganizationId string
	Replier        *oneshot.Replier[Result[*model.OrganizationRoot]]
}

func (*InsertOrganization) storageRequest()          {}
func (*RemoveOrganization) storageRequest()          {}
func (*FindOrganizationById) storageRequest()        {}
func (*FindOrganizationByName) storageRequest()      {}
func (*FindOrganizationByTelephone) storageRequest() {}
func (*InsertUser) storageRequest()                  {}
func (*FindUserById) storageRequest()                {}
func (*RemoveUser) storageRequest()                  {}
func (*FindInvitationByCode) storageRequest()        {}
func (*RemoveInvitation) storageRequest()            {}
func (*ReadOrganizationRootRecord) storageRequest()  {}
