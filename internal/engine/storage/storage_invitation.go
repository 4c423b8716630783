package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/ctx"
)

// InvitationStore executes invitation storage requests against the invitation
// collection. Invitations are keyed by their code.
type InvitationStore struct {
	appCtx     *ctx.Context
	collection *mongo.Collection
}

func NewInvitationStore(appCtx *ctx.Context) *InvitationStore {
	return &InvitationStore{
		appCtx:     appCtx,
		collection: appCtx.GetMongoIns().GetCollection(collectionInvitation),
	}
}

// FindByCode replies with the invitation or a nil value when no document
// matches. Expiry is judged by the business tier, not here.
func (s *InvitationStore) FindByCode(req *request.FindInvitationByCode) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	var doc invitationDocument
	err := s.collection.FindOne(opCtx, bson.M{"code": req.Code}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		req.Replier.Send(request.Ok[*model.Invitation](nil))
		return nil
	}
	if err != nil {
		return failResult(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to find invitation: %v", err))
	}

	req.Replier.Send(request.Ok(doc.toModel()))
	return nil
}

// Remove deletes an invitation by its code.
func (s *InvitationStore) Remove(req *request.RemoveInvitation) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(opCtx, bson.M{"code": req.Code}); err != nil {
		return failErr(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to remove invitation: %v", err))
	}

	req.Replier.Send(nil)
	return nil
}
