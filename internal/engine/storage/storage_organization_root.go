package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/ctx"
)

// OrganizationRootStore assembles the organization aggregate out of three
// dependent reads: the organization itself, the users holding a membership in
// it and the invitations targeting it. Any sub-read failure aborts the read.
type OrganizationRootStore struct {
	appCtx        *ctx.Context
	organizations *mongo.Collection
	users         *mongo.Collection
	invitations   *mongo.Collection
}

func NewOrganizationRootStore(appCtx *ctx.Context) *OrganizationRootStore {
	mongoIns := appCtx.GetMongoIns()
	return &OrganizationRootStore{
		appCtx:        appCtx,
		organizations: mongoIns.GetCollection(collectionOrganization),
		users:         mongoIns.GetCollection(collectionUser),
		invitations:   mongoIns.GetCollection(collectionInvitation),
	}
}

func (s *OrganizationRootStore) Read(req *request.ReadOrganizationRootRecord) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	organization, err := s.readOrganization(opCtx, req.OrganizationId)
	if err != nil {
		return failResult(req.Replier, err)
	}

	users, err := s.readUsers(opCtx, req.OrganizationId)
	if err != nil {
		return failResult(req.Replier, err)
	}

	invitations, err := s.readInvitations(opCtx, req.OrganizationId)
	if err != nil {
		return failResult(req.Replier, err)
	}

	req.Replier.Send(request.Ok(&model.OrganizationRoot{
		Organization: *organization,
		Users:        users,
		Invitations:  invitations,
	}))
	return nil
}

func (s *OrganizationRootStore) readOrganization(opCtx context.Context, organizationId string) (*model.Organization, error) {
	id, err := primitive.ObjectIDFromHex(organizationId)
	if err != nil {
		return nil, errs.Newf(errs.KindOrganizationNotFound,
			"organization '%s' was not found", organizationId)
	}

	var doc organizationDocument
	err = s.organizations.FindOne(opCtx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.Newf(errs.KindOrganizationNotFound,
			"organization '%s' was not found", organizationId)
	}
	if err != nil {
		return nil, errs.Newf(errs.KindStorageFailure, "failed to find organization: %v", err)
	}

	return doc.toModel(), nil
}

func (s *OrganizationRootStore) readUsers(opCtx context.Context, organizationId string) ([]model.User, error) {
	cursor, err := s.users.Find(opCtx, bson.M{"organizations.organization_id": organizationId})
	if err != nil {
		return nil, errs.Newf(errs.KindStorageFailure, "failed to find organization users: %v", err)
	}
	defer cursor.Close(opCtx)

	var docs []userDocument
	if err := cursor.All(opCtx, &docs); err != nil {
		return nil, errs.Newf(errs.KindStorageFailure, "failed to decode organization users: %v", err)
	}

	users := make([]model.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

func (s *OrganizationRootStore) readInvitations(opCtx context.Context, organizationId string) ([]model.Invitation, error) {
	cursor, err := s.invitations.Find(opCtx, bson.M{"organization_id": organizationId})
	if err != nil {
		return nil, errs.Newf(errs.KindStorageFailure, "failed to find organization invitations: %v", err)
	}
	defer cursor.Close(opCtx)

	var docs []invitationDocument
	if err := cursor.All(opCtx, &docs); err != nil {
		return nil, errs.Newf(errs.KindStorageFailure, "failed to decode organization invitations: %v", err)
	}

	invitations := make([]model.Invitation, 0, len(docs))
	for i := range docs {
		invitations = append(invitations, *docs[i].toModel())
	}
	return invitations, nil
}
