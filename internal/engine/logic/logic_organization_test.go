package logic

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

func newCreateRequest(userId string) *request.CreateOrganization {
	return &request.CreateOrganization{
		UserId:    userId,
		Name:      "Organization Test #1234",
		Country:   "RO",
		Address:   "Strada Exemplu Nr.15",
		Telephone: "+40753313640",
		Replier:   oneshot.New[request.Result[*model.Organization]](),
	}
}

func TestCreateOrganization(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	require.NoError(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	require.NoError(t, result.Err)

	organization := result.Value
	assert.NotEmpty(t, organization.Id)
	assert.Equal(t, "Organization Test #1234", organization.Name)
	assert.Equal(t, "RO", organization.Country)
	assert.Equal(t, "+40753313640", organization.Telephone)

	user := store.user("user-1")
	require.NotNil(t, user)
	require.Len(t, user.Organizations, 1)
	assert.Equal(t, organization.Id, user.Organizations[0].OrganizationId)
	assert.Equal(t, model.OrganizationCreatorPermissions(), user.Organizations[0].Permissions)
}

func TestCreateOrganizationInvalidCountry(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	req.Country = "XX"

	require.Error(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindInvalidCountry, errs.KindOf(result.Err))
}

func TestCreateOrganizationInvalidTelephone(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	req.Telephone = "0040753313640"

	require.Error(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindInvalidTelephone, errs.KindOf(result.Err))
}

func TestCreateOrganizationUserAlreadyMember(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putUser(&model.User{
		Id: "user-1",
		Organizations: []model.UserOrganization{
			{OrganizationId: "org-9", Permissions: []string{model.PermissionReadOrganization}},
		},
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	require.Error(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindUserCannotCreateOrganization, errs.KindOf(result.Err))
}

func TestCreateOrganizationNameAlreadyTaken(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putOrganization(&model.Organization{
		Id:        "org-1",
		Name:      "Organization Test #1234",
		Telephone: "+40111111111",
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	require.Error(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindNameAlreadyTaken, errs.KindOf(result.Err))
}

func TestCreateOrganizationTelephoneInUse(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putOrganization(&model.Organization{
		Id:        "org-1",
		Name:      "Another Organization",
		Telephone: "+40753313640",
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	require.Error(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindTelephoneAlreadyInUse, errs.KindOf(result.Err))
}

func TestCreateOrganizationCompensatesOnMembershipFailure(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.failInsertUser = errs.New(errs.KindStorageFailure, "failed to insert user")
	ol := NewOrganizationLogic(store.start(ctx))

	req := newCreateRequest("user-1")
	require.Error(t, ol.Create(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	// The caller sees the membership error, not a compensation error.
	assert.Equal(t, errs.KindStorageFailure, errs.KindOf(result.Err))

	// The compensating delete removed the organization created in step one.
	assert.Nil(t, store.organization("org-1"))
	assert.Nil(t, store.user("user-1"))
}

func TestCreateOrganizationTwiceWithSameName(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	storage := store.start(ctx)
	ol := NewOrganizationLogic(storage)

	first := newCreateRequest("user-1")
	require.NoError(t, ol.Create(ctx, first))
	firstResult, err := first.Replier.Recv(ctx)
	require.NoError(t, err)
	require.NoError(t, firstResult.Err)

	second := newCreateRequest("user-2")
	second.Telephone = "+40722222222"
	require.Error(t, ol.Create(ctx, second))
	secondResult, err := second.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindNameAlreadyTaken, errs.KindOf(secondResult.Err))
}

func TestCreateOrganizationConcurrentSameName(t *testing.T) {
	const callers = 8

	ctx := context.Background()
	store := newStubStore()
	ol := NewOrganizationLogic(store.start(ctx))

	var wg sync.WaitGroup
	results := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := newCreateRequest("user-" + strconv.Itoa(i))
			_ = ol.Create(ctx, req)

			result, err := req.Replier.Recv(ctx)
			if err != nil {
				results[i] = err
				return
			}
			results[i] = result.Err
		}(i)
	}

	wg.Wait()

	// The uniqueness checks run before the insert without a lock, so a racer
	// may pass them and still lose: it must then fail on the insert itself,
	// never leave a second document behind.
	succeeded := 0
	for i, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		switch errs.KindOf(err) {
		case errs.KindNameAlreadyTaken, errs.KindTelephoneAlreadyInUse, errs.KindStorageFailure:
		default:
			t.Errorf("caller %d failed with unexpected kind %q: %v", i, errs.KindOf(err), err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.organizationCount())
}

func newJoinRequest(userId, code string) *request.JoinOrganization {
	return &request.JoinOrganization{
		UserId:         userId,
		InvitationCode: code,
		Replier:        oneshot.New[request.Result[*model.Organization]](),
	}
}

func TestJoinOrganization(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putOrganization(&model.Organization{Id: "org-1", Name: "Org", Telephone: "+40753313640"})
	store.putInvitation(&model.Invitation{
		Code:           "welcome",
		OrganizationId: "org-1",
		Permissions:    []string{model.PermissionReadOrganization, model.PermissionInviteUser},
		CreatedAt:      time.Now().Unix(),
		ExpiresAfter:   3600,
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newJoinRequest("user-1", "welcome")
	require.NoError(t, ol.Join(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	require.NoError(t, result.Err)
	assert.Equal(t, "org-1", result.Value.Id)

	user := store.user("user-1")
	require.NotNil(t, user)
	require.Len(t, user.Organizations, 1)
	assert.Equal(t, []string{model.PermissionReadOrganization, model.PermissionInviteUser},
		user.Organizations[0].Permissions)

	// The invitation was consumed.
	assert.Nil(t, store.invitation("welcome"))
}

func TestJoinOrganizationExpiredInvitation(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putOrganization(&model.Organization{Id: "org-1", Name: "Org"})
	store.putInvitation(&model.Invitation{
		Code:           "stale",
		OrganizationId: "org-1",
		CreatedAt:      time.Now().Add(-2 * time.Hour).Unix(),
		ExpiresAfter:   3600,
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newJoinRequest("user-1", "stale")
	require.Error(t, ol.Join(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindInvitationHasExpired, errs.KindOf(result.Err))

	// An expired invitation is left for expiry-based cleanup.
	assert.NotNil(t, store.invitation("stale"))
	assert.Nil(t, store.user("user-1"))
}

func TestJoinOrganizationUnknownCode(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	ol := NewOrganizationLogic(store.start(ctx))

	req := newJoinRequest("user-1", "nope")
	require.Error(t, ol.Join(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindInvitationNotFound, errs.KindOf(result.Err))
}

func TestJoinOrganizationMissingOrganization(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putInvitation(&model.Invitation{
		Code:           "orphan",
		OrganizationId: "org-gone",
		CreatedAt:      time.Now().Unix(),
		ExpiresAfter:   3600,
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newJoinRequest("user-1", "orphan")
	require.Error(t, ol.Join(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindOrganizationNotFound, errs.KindOf(result.Err))
}

func TestJoinOrganizationUserAlreadyMember(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.putUser(&model.User{
		Id: "user-1",
		Organizations: []model.UserOrganization{
			{OrganizationId: "org-9"},
		},
	})
	ol := NewOrganizationLogic(store.start(ctx))

	req := newJoinRequest("user-1", "welcome")
	require.Error(t, ol.Join(ctx, req))

	result, err := req.Replier.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, errs.KindUserCannotJoinAnyOrganization, errs.KindOf(result.Err))
}
