package logic

import (
	"context"

	"github.com/biter777/countries"
	"github.com/nyaruka/phonenumbers"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// IsCountryCodeValid reports whether code is a known ISO 3166-1 country code.
func IsCountryCodeValid(code string) bool {
	return countries.ByName(code) != countries.Unknown
}

// IsTelephoneValid reports whether number parses as an international phone
// number. Specific international prefixes such as '00' are not supported; the
// '+' sign must be used. Parser faults on malformed input are recovered and
// reported as invalid, never propagated.
func IsTelephoneValid(number string) (valid bool) {
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()

	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return false
	}

	return phonenumbers.IsValidNumber(parsed)
}

// IsNameAlreadyUsed checks whether an organization with the given name exists.
// Check-then-act only: there is no lock between this read and a later insert.
func IsNameAlreadyUsed(ctx context.Context, name string, storage chan<- request.StorageRequest) (bool, error) {
	replier := oneshot.New[request.Result[*model.Organization]]()

	err := request.Submit[request.StorageRequest](ctx, storage, &request.FindOrganizationByName{
		Name:    name,
		Replier: replier,
	})
	if err != nil {
		return false, err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return false, errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}
	if result.Err != nil {
		return false, result.Err
	}

	return result.Value != nil, nil
}

// IsTelephoneBeingUsed checks whether an organization with the given
// telephone exists. Same check-then-act caveat as IsNameAlreadyUsed.
func IsTelephoneBeingUsed(ctx context.Context, telephone string, storage chan<- request.StorageRequest) (bool, error) {
	replier := oneshot.New[request.Result[*model.Organization]]()

	err := request.Submit[request.StorageRequest](ctx, storage, &request.FindOrganizationByTelephone{
		Telephone: telephone,
		Replier:   replier,
	})
	if err != nil {
		return false, err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return false, errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}
	if result.Err != nil {
		return false, result.Err
	}

	return result.Value != nil, nil
}

// HasUserNoOrganization reports whether the user holds zero memberships.
// A user without any stored record qualifies.
func HasUserNoOrganization(ctx context.Context, userId string, storage chan<- request.StorageRequest) (bool, error) {
	replier := oneshot.New[request.Result[*model.User]]()

	err := request.Submit[request.StorageRequest](ctx, storage, &request.FindUserById{
		UserId:  userId,
		Replier: replier,
	})
	if err != nil {
		return false, err
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return false, errs.Newf(errs.KindInternalFailure, "failed to receive response for a storage request: %v", err)
	}
	if result.Err != nil {
		return false, result.Err
	}

	if result.Value == nil {
		return true, nil
	}

	return result.Value.HasNoOrganization(), nil
}

// GetCodeIfValid resolves an invitation code, failing when the code is
// unknown or past its expiry window.
func GetCodeIfValid(ctx context.Context, code string, storage chan<- request.StorageRequest) (*model.Invitation, error) {
	replier := oneshot.New[request.Result[*model.Invitation]]()

	err := request.Submit[request.StorageRequest](ctx, storage, &request.FindInvitationByCode{
		Code:    code,
		Replier: replier,
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

	invitation := result.Value
	if invitation == nil {
		return nil, errs.New(errs.KindInvitationNotFound, "invitation code not found")
	}

	if invitation.Expired() {
		return nil, errs.New(errs.KindInvitationHasExpired, "invitation code has expired")
	}

	return invitation, nil
}

// GetOrganizationIfExists resolves an organization by id, failing when no
// such organization exists.
func GetOrganizationIfExists(ctx context.Context, id string, storage chan<- request.StorageRequest) (*model.Organization, error) {
	replier := oneshot.New[request.Result[*model.Organization]]()

	err := request.Submit[request.StorageRequest](ctx, storage, &request.FindOrganizationById{
		Id:      id,
		Replier: replier,
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

	if result.Value == nil {
		return nil, errs.New(errs.KindOrganizationNotFound, "organization not found")
	}

	return result.Value, nil
}
