package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/ctx"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

const operationTimeout = 5 * time.Second

// OrganizationStore executes organization storage requests against the
// organization collection.
type OrganizationStore struct {
	appCtx     *ctx.Context
	collection *mongo.Collection
}

func NewOrganizationStore(appCtx *ctx.Context) *OrganizationStore {
	return &OrganizationStore{
		appCtx:     appCtx,
		collection: appCtx.GetMongoIns().GetCollection(collectionOrganization),
	}
}

// Insert stores a new organization and replies with the stored record, the
// generated id included. When the generated id cannot be read back the insert
// is reverted so that no unreachable document stays behind.
func (s *OrganizationStore) Insert(req *request.InsertOrganization) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	doc := organizationDocument{
		Name:      req.Name,
		Country:   req.Country,
		Address:   req.Address,
		Telephone: req.Telephone,
	}

	result, err := s.collection.InsertOne(opCtx, doc)
	if err != nil {
		return failResult(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to insert organization: %v", err))
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return failResult(req.Replier, s.revertInsert(opCtx, req.Name))
	}

	doc.Id = id
	req.Replier.Send(request.Ok(doc.toModel()))
	return nil
}

// revertInsert deletes the organization inserted a moment ago by name. Runs
// only when the generated id could not be read back, while the name is still
// unique.
func (s *OrganizationStore) revertInsert(opCtx context.Context, name string) error {
	_, err := s.collection.DeleteOne(opCtx, bson.M{"name": name})
	return reversionError(name, err)
}

// reversionError classifies the reversion outcome. A completed reversion
// reports its own kind so callers know the insert was undone; a failed
// reversion is an internal failure leaving the document behind.
func reversionError(name string, deleteErr error) error {
	if deleteErr != nil {
		return errs.Newf(errs.KindInternalFailure,
			"failed to revert the insertion of organization '%s': %v", name, deleteErr)
	}
	return errs.Newf(errs.KindProcessReversion,
		"reverted the insertion of organization '%s': inserted id has an unexpected type", name)
}

// Remove deletes an organization by id. A missing document is not an error;
// the compensating caller only cares that the document is gone.
func (s *OrganizationStore) Remove(req *request.RemoveOrganization) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(req.Id)
	if err != nil {
		return failErr(req.Replier,
			errs.Newf(errs.KindInvalidArgument, "invalid organization id '%s': %v", req.Id, err))
	}

	if _, err := s.collection.DeleteOne(opCtx, bson.M{"_id": id}); err != nil {
		return failErr(req.Replier,
			errs.Newf(errs.KindStorageFailure, "failed to remove organization: %v", err))
	}

	req.Replier.Send(nil)
	return nil
}

// FindById replies with the organization or a nil value when no document
// matches.
func (s *OrganizationStore) FindById(req *request.FindOrganizationById) error {
	id, err := primitive.ObjectIDFromHex(req.Id)
	if err != nil {
		// Ids come from untrusted callers; a malformed one simply matches nothing.
		req.Replier.Send(request.Ok[*model.Organization](nil))
		return nil
	}
	return s.findOne(req.Replier, bson.M{"_id": id})
}

func (s *OrganizationStore) FindByName(req *request.FindOrganizationByName) error {
	return s.findOne(req.Replier, bson.M{"name": req.Name})
}

func (s *OrganizationStore) FindByTelephone(req *request.FindOrganizationByTelephone) error {
	return s.findOne(req.Replier, bson.M{"telephone": req.Telephone})
}

func (s *OrganizationStore) findOne(replier *oneshot.Replier[request.Result[*model.Organization]], filter bson.M) error {
	opCtx, cancel := context.WithTimeout(s.appCtx.GetCtx(), operationTimeout)
	defer cancel()

	var doc organizationDocument
	err := s.collection.FindOne(opCtx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		replier.Send(request.Ok[*model.Organization](nil))
		return nil
	}
	if err != nil {
		return failResult(replier,
			errs.Newf(errs.KindStorageFailure, "failed to find organization: %v", err))
	}

	replier.Send(request.Ok(doc.toModel()))
	return nil
}

// failResult replies with err and hands it back for worker-side logging.
func failResult[T any](replier *oneshot.Replier[request.Result[T]], err error) error {
	replier.Send(request.Fail[T](err))
	return err
}

// failErr is failResult for requests whose reply is a bare error.
func failErr(replier *oneshot.Replier[error], err error) error {
	replier.Send(err)
	return err
}
