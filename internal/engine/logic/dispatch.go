package logic

import (
	"context"
	"sync"

	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/safe"
)

// DispatchPool drains the shared logic-request channel with a fixed number of
// long-lived workers. Pool size is set at construction and does not scale
// with load; lifecycle is owned by the process wiring.
type DispatchPool struct {
	size     int
	requests <-chan request.LogicRequest

	organization     *OrganizationLogic
	organizationRoot *OrganizationRootLogic
	user             *UserLogic

	wg sync.WaitGroup
}

func NewDispatchPool(size int, requests <-chan request.LogicRequest, storage chan<- request.StorageRequest) *DispatchPool {
	if size <= 0 {
		size = 1
	}
	return &DispatchPool{
		size:             size,
		requests:         requests,
		organization:     NewOrganizationLogic(storage),
		organizationRoot: NewOrganizationRootLogic(storage),
		user:             NewUserLogic(storage),
	}
}

// Run starts the workers and returns. Each worker processes one request to
// completion before receiving the next; executor errors are logged and never
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
				// Channel closed: all senders are gone, the worker is done.
				return
			}
			if err := p.dispatch(ctx, req); err != nil {
				log.Errorf("failed to execute logic request: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *DispatchPool) dispatch(ctx context.Context, req request.LogicRequest) error {
	switch action := req.(type) {
	case *request.CreateOrganization:
		return p.organization.Create(ctx, action)
	case *request.JoinOrganization:
		return p.organization.Join(ctx, action)
	case *request.ReadOrganizationRoot:
		return p.organizationRoot.Read(ctx, action)
	case *request.ReadUser:
		return p.user.Read(ctx, action)
	default:
		log.Errorf("unknown logic request type %T", req)
		return nil
	}
}
