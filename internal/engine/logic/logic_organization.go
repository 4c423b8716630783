package logic

import (
	"context"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// OrganizationLogic implements the business rules of organization creation
// and joining. Every operation replies to the original caller exactly once;
// the returned error is for worker-side logging only.
type OrganizationLogic struct {
	storage chan<- request.StorageRequest
}

func NewOrganizationLogic(storage chan<- request.StorageRequest) *OrganizationLogic {
	return &OrganizationLogic{storage: storage}
}

// Create runs the create-organization saga: validations first, then the
// organization insert followed by the creator-membership insert. A failure of
// the membership step removes the organization created right before it.
func (ol *OrganizationLogic) Create(ctx context.Context, req *request.CreateOrganization) error {
	if !IsCountryCodeValid(req.Country) {
		return failRequest(req.Replier, errs.New(errs.KindInvalidCountry, "invalid country code detected"))
	}

	if !IsTelephoneValid(req.Telephone) {
		return failRequest(req.Replier, errs.New(errs.KindInvalidTelephone, "invalid telephone detected"))
	}

	noOrganization, err := HasUserNoOrganization(ctx, req.UserId, ol.storage)
	if err != nil {
		return failRequest(req.Replier, err)
	}
	if !noOrganization {
		return failRequest(req.Replier,
			errs.New(errs.KindUserCannotCreateOrganization, "user already belongs to an organization"))
	}

	nameUsed, err := IsNameAlreadyUsed(ctx, req.Name, ol.storage)
	if err != nil {
		return failRequest(req.Replier, err)
	}
	if nameUsed {
		return failRequest(req.Replier, errs.New(errs.KindNameAlreadyTaken, "name is already being used"))
	}

	telephoneUsed, err := IsTelephoneBeingUsed(ctx, req.Telephone, ol.storage)
	if err != nil {
		return failRequest(req.Replier, err)
	}
	if telephoneUsed {
		return failRequest(req.Replier,
			errs.New(errs.KindTelephoneAlreadyInUse, "telephone is already being used"))
	}

	var organization *model.Organization

	steps := []SagaStep{
		{
			Name: "insert organization",
			Run: func(ctx context.Context) error {
				created, err := ol.insertOrganization(ctx, req)
				if err != nil {
					return err
				}
				organization = created
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return ol.removeOrganization(ctx, organization.Id)
			},
		},
		{
			Name: "attach creator membership",
			Run: func(ctx context.Context) error {
				membership := model.UserOrganization{
					OrganizationId: organization.Id,
					Permissions:    model.OrganizationCreatorPermissions(),
				}
				_, err := insertUser(ctx, req.UserId, membership, ol.storage)
				return err
			},
		},
	}

	if err := RunSaga(ctx, steps); err != nil {
		return failRequest(req.Replier, err)
	}

	if !req.Replier.Send(request.Ok(organization)) {
		log.Error("failed to send organization to the caller")
		return errs.New(errs.KindInternalFailure, "failed to send organization to the caller")
	}

	return nil
}

// Join redeems an invitation: the membership is created with the permissions
// the invitation granted and the invitation itself is consumed best-effort.
func (ol *OrganizationLogic) Join(ctx context.Context, req *request.JoinOrganization) error {
	noOrganization, err := HasUserNoOrganization(ctx, req.UserId, ol.storage)
	if err != nil {
		return failRequest(req.Replier, err)
	}
	if !noOrganization {
		return failRequest(req.Replier,
			errs.New(errs.KindUserCannotJoinAnyOrganization, "user already belongs to an organization"))
	}

	invitation, err := GetCodeIfValid(ctx, req.InvitationCode, ol.storage)
	if err != nil {
		return failRequest(req.Replier, err)
	}

	organization, err := GetOrganizationIfExists(ctx, invitation.OrganizationId, ol.storage)
	if err != nil {
		return failRequest(req.Replier, err)
	}

	membership := model.UserOrganization{
		OrganizationId: organization.Id,
		Permissions:    invitation.Permissions,
	}

	// No compensation here: nothing was created before the membership.
	if _, err := insertUser(ctx, req.UserId, membership, ol.storage); err != nil {
		return failRequest(req.Replier, err)
	}

	// Consuming the invitation is best-effort; expiry cleans up leftovers.
	if err := ol.removeInvitation(ctx, invitation.Code); err != nil {
		log.Errorf("failed to delete invitation '%s' after join: %v", invitation.Code, err)
	}

	if !req.Replier.Send(request.Ok(organization)) {
		log.Error("failed to send organization to the caller")
		return errs.New(errs.KindInternalFailure, "failed to send organization to the caller")
	}

	return nil
}

func (ol *OrganizationLogic) insertOrganization(ctx context.Context, req *request.CreateOrganization) (*model.Organization, error) {
	replier := oneshot.New[request.Result[*model.Organization]]()

	err := request.Submit[request.StorageRequest](ctx, ol.storage, &request.InsertOrganization{
		Name:      req.Name,
		Country:   req.Country,
		Address:   req.Address,
		Telephone: req.Telephone,
		Replier:   replier,
	})
	if err != nil {
		return nil, err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return nil, errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}
	if result.Err != nil {
		return nil, result.Err
	}

	return result.Value, nil
}

func (ol *OrganizationLogic) removeOrganization(ctx context.Context, id string) error {
	replier := oneshot.New[error]()

	err := request.Submit[request.StorageRequest](ctx, ol.storage, &request.RemoveOrganization{
		Id:      id,
		Replier: replier,
	})
	if err != nil {
		return err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}

	return result
}

func (ol *OrganizationLogic) removeInvitation(ctx context.Context, code string) error {
	replier := oneshot.New[error]()

	err := request.Submit[request.StorageRequest](ctx, ol.storage, &request.RemoveInvitation{
		Code:    code,
		Replier: replier,
	})
	if err != nil {
		return err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}

	return result
}

// insertUser creates the user document carrying a single membership. Shared
// by the create saga and the join flow.
func insertUser(ctx context.Context, userId string, membership model.UserOrganization, storage chan<- request.StorageRequest) (*model.User, error) {
	replier := oneshot.New[request.Result[*model.User]]()

	err := request.Submit[request.StorageRequest](ctx, storage, &request.InsertUser{
		Id:           userId,
		Organization: membership,
		Replier:      replier,
	})
	if err != nil {
		return nil, err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return nil, errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}
	if result.Err != nil {
		return nil, result.Err
	}

	return result.Value, nil
}

// failRequest replies with err and hands it back for worker-side logging.
func failRequest[T any](replier *oneshot.Replier[request.Result[T]], err error) error {
	if !replier.Send(request.Fail[T](err)) {
		log.Errorf("failed to reply to the caller: %v", err)
	}
	return err
}
