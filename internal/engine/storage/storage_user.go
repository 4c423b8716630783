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

// UserStore executes user storage requests against the user collection.
// Documents are keyed by the external subject id.
type UserStore struct {
	appCtx     *ctx.Context
	collection *mongo.Collection
}

func NewUserStore(appCtx *ctx.Context) *UserStore {
	return &UserStore{
		appCtx:     appCtx,
		collection: appCtx.GetMongoIns().GetCollection(collectionUser),
	}
}

// Insert stores a new user carrying a single membership. A user document only
// comes into existence when its subject enters an organization.
func (s *UserStore) Insert(req *request.InsertUser) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	doc := userDocument{
		UserId:        req.Id,
		Organizations: []model.UserOrganization{req.Organization},
	}

	if _, err := s.collection.InsertOne(opCtx, doc); err != nil {
		return failResult(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to insert user: %v", err))
	}

	req.Replier.Send(request.Ok(doc.toModel()))
	return nil
}

// FindById replies with the user or a nil value when no document matches.
func (s *UserStore) FindById(req *request.FindUserById) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	var doc userDocument
	err := s.collection.FindOne(opCtx, bson.M{"id": req.UserId}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		req.Replier.Send(request.Ok[*model.User](nil))
		return nil
	}
	if err != nil {
		return failResult(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to find user: %v", err))
	}

	req.Replier.Send(request.Ok(doc.toModel()))
	return nil
}

// Remove deletes a user document by the external subject id.
func (s *UserStore) Remove(req *request.RemoveUser) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(opCtx, bson.M{"id": req.Id}); err != nil {
		return failErr(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to remove user: %v", err))
	}

	req.Replier.Send(nil)
	return nil
}
