// Package storage executes storage requests against MongoDB. It mirrors the
// logic dispatch pool on the persistence side: a fixed set of workers drains
// the storage-request channel and answers every request through its one-shot
// replier.
package storage

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/go-arcade/orgman/internal/engine/model"
)

const (
	collectionOrganization = "organization"
	collectionUser         = "user"
	collectionInvitation   = "invitation"
)

// organizationDocument is the persisted shape of an organization. The id is
// generated by MongoDB on insert and exposed to the business tier as its hex
// form.
type organizationDocument struct {
	Id        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Country   string             `bson:"country"`
	Address   string             `bson:"address"`
	Telephone string             `bson:"telephone"`
}

func (d *organizationDocument) toModel() *model.Organization {
	return &model.Organization{
		Id:        d.Id.Hex(),
		Name:      d.Name,
		Country:   d.Country,
		Address:   d.Address,
		Telephone: d.Telephone,
	}
}

// userDocument keys the user by the external subject id, not by the Mongo
// object id.
type userDocument struct {
	Id            primitive.ObjectID       `bson:"_id,omitempty"`
	UserId        string                   `bson:"id"`
	Organizations []model.UserOrganization `bson:"organizations"`
}

func (d *userDocument) toModel() *model.User {
	user := &model.User{
		Id:            d.UserId,
		Permissions:   []string{},
		Organizations: d.Organizations,
	}
	if user.HasNoOrganization() {
		user.Permissions = model.SelfServicePermissions()
	}
	return user
}

type invitationDocument struct {
	Id             primitive.ObjectID `bson:"_id,omitempty"`
	Code           string             `bson:"code"`
	OrganizationId string             `bson:"organization_id"`
	Permissions    []string           `bson:"permissions"`
	CreatedAt      int64              `bson:"created_at"`
	ExpiresAfter   int64              `bson:"expires_after"`
}

func (d *invitationDocument) toModel() *model.Invitation {
	return &model.Invitation{
		Code:           d.Code,
		OrganizationId: d.OrganizationId,
		Permissions:    d.Permissions,
		CreatedAt:      d.CreatedAt,
		ExpiresAfter:   d.ExpiresAfter,
	}
}
