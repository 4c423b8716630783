package storage

import (
	"context"
	"sync"

	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/ctx"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/safe"
)

// DispatchPool drains the shared storage-request channel with a fixed number
// of long-lived workers, mirroring the logic pool one stage up.
type DispatchPool struct {
	size     int
	requests <-chan request.StorageRequest

	organization     *OrganizationStore
	organizationRoot *OrganizationRootStore
	user             *UserStore
	invitation       *InvitationStore

	wg sync.WaitGroup
}

func NewDispatchPool(size int, requests <-chan request.StorageRequest, appCtx *ctx.Context) *DispatchPool {
	if size <= 0 {
		size = 1
	}
	return &DispatchPool{
		size:             size,
		requests:         requests,
		organization:     NewOrganizationStore(appCtx),
		organizationRoot: NewOrganizationRootStore(appCtx),
		user:             NewUserStore(appCtx),
		invitation:       NewInvitationStore(appCtx),
	}
}

// Run starts the workers and returns. Executor errors are logged and never
// terminate a worker.
func (p *DispatchPool) Run(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		safe.Go(func() {
			defer p.wg.Done()
			p.worker(ctx)
		})
	}
}

// Wait blocks until all workers have exited.
func (p *DispatchPool) Wait() {
	p.wg.Wait()
}

func (p *DispatchPool) worker(ctx context.Context) {
	for {
		select {
		case req, ok := <-p.requests:
			if !ok {
				return
			}
			if err := p.dispatch(req); err != nil {
				log.Errorf("failed to execute storage request: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *DispatchPool) dispatch(req request.StorageRequest) error {
	switch action := req.(type) {
	case *request.InsertOrganization:
		return p.organization.Insert(action)
	case *request.RemoveOrganization:
		return p.organization.Remove(action)
	case *request.FindOrganizationById:
		return p.organization.FindById(action)
	case *request.FindOrganizationByName:
		return p.organization.FindByName(action)
	case *request.FindOrganizationByTelephone:
		return p.organization.FindByTelephone(action)
	case *request.InsertUser:
		return p.user.Insert(action)
	case *request.FindUserById:
		return p.user.FindById(action)
	case *request.RemoveUser:
		return p.user.Remove(action)
	case *request.FindInvitationByCode:
		return p.invitation.FindByCode(action)
	case *request.RemoveInvitation:
		return p.invitation.Remove(action)
	case *request.ReadOrganizationRootRecord:
		return p.organizationRoot.Read(action)
	default:
		log.Errorf("unknown storage request type %T", req)
		return nil
	}
}
