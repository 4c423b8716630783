package logic

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
)

// stubStore answers storage requests from memory so logic executors can be
// tested without a document store or the storage dispatch pool.
type stubStore struct {
	mu            sync.Mutex
	organizations map[string]*model.Organization
	users         map[string]*model.User
	invitations   map[string]*model.Invitation
	nextId        int

	failInsertUser         error
	failInsertOrganization error
}

func newStubStore() *stubStore {
	return &stubStore{
		organizations: make(map[string]*model.Organization),
		users:         make(map[string]*model.User),
		invitations:   make(map[string]*model.Invitation),
	}
}

// start runs the responder over a fresh storage channel until ctx ends.
func (s *stubStore) start(ctx context.Context) chan request.StorageRequest {
	requests := make(chan request.StorageRequest, 16)
	go func() {
		for {
			select {
			case req, ok := <-requests:
				if !ok {
					return
				}
				s.handle(req)
			case <-ctx.Done():
				return
			}
		}
	}()
	return requests
}

func (s *stubStore) handle(req request.StorageRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action := req.(type) {
	case *request.InsertOrganization:
		if s.failInsertOrganization != nil {
			action.Replier.Send(request.Fail[*model.Organization](s.failInsertOrganization))
			return
		}
		// Unique indexes on name and telephone reject the insert losing a
		// check-then-act race.
		if s.findOrganization(func(o *model.Organization) bool {
			return o.Name == action.Name || o.Telephone == action.Telephone
		}) != nil {
			action.Replier.Send(request.Fail[*model.Organization](
				errs.New(errs.KindStorageFailure, "duplicate key")))
			return
		}
		s.nextId++
		organization := &model.Organization{
			Id:        "org-" + strconv.Itoa(s.nextId),
			Name:      action.Name,
			Country:   action.Country,
			Address:   action.Address,
			Telephone: action.Telephone,
		}
		s.organizations[organization.Id] = organization
		action.Replier.Send(request.Ok(organization))

	case *request.RemoveOrganization:
		delete(s.organizations, action.Id)
		action.Replier.Send(nil)

	case *request.FindOrganizationById:
		action.Replier.Send(request.Ok(s.organizations[action.Id]))

	case *request.FindOrganizationByName:
		action.Replier.Send(request.Ok(s.findOrganization(func(o *model.Organization) bool {
			return o.Name == action.Name
		})))

	case *request.FindOrganizationByTelephone:
		action.Replier.Send(request.Ok(s.findOrganization(func(o *model.Organization) bool {
			return o.Telephone == action.Telephone
		})))

	case *request.InsertUser:
		if s.failInsertUser != nil {
			action.Replier.Send(request.Fail[*model.User](s.failInsertUser))
			return
		}
		user := &model.User{
			Id:            action.Id,
			Organizations: []model.UserOrganization{action.Organization},
		}
		s.users[user.Id] = user
		action.Replier.Send(request.Ok(user))

	case *request.FindUserById:
		action.Replier.Send(request.Ok(s.users[action.UserId]))

	case *request.RemoveUser:
		delete(s.users, action.Id)
		action.Replier.Send(nil)

	case *request.FindInvitationByCode:
		action.Replier.Send(request.Ok(s.invitations[action.Code]))

	case *request.RemoveInvitation:
		delete(s.invitations, action.Code)
		action.Replier.Send(nil)

	case *request.ReadOrganizationRootRecord:
		organization := s.organizations[action.OrganizationId]
		if organization == nil {
			action.Replier.Send(request.Fail[*model.OrganizationRoot](
				errs.New(errs.KindInvalidArgument, "organization not found")))
			return
		}
		root := &model.OrganizationRoot{Organization: *organization}
		for _, user := range s.users {
			for _, membership := range user.Organizations {
				if membership.OrganizationId == action.OrganizationId {
					root.Users = append(root.Users, *user)
				}
			}
		}
		for _, invitation := range s.invitations {
			if invitation.OrganizationId == action.OrganizationId {
				root.Invitations = append(root.Invitations, *invitation)
			}
		}
		action.Replier.Send(request.Ok(root))
	}
}

func (s *stubStore) findOrganization(match func(*model.Organization) bool) *model.Organization {
	for _, organization := range s.organizations {
		if match(organization) {
			return organization
		}
	}
	return nil
}

func (s *stubStore) organizationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.organizations)
}

func (s *stubStore) organization(id string) *model.Organization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.organizations[id]
}

func (s *stubStore) user(id string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *stubStore) invitation(code string) *model.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invitations[code]
}

func (s *stubStore) putOrganization(organization *model.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations[organization.Id] = organization
}

func (s *stubStore) putUser(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Id] = user
}

func (s *stubStore) putInvitation(invitation *model.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations[invitation.Code] = invitation
}
