package logic

import (
	"context"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// OrganizationRootLogic serves the aggregate organization view. No business
// rule applies: the storage result is relayed verbatim.
type OrganizationRootLogic struct {
	storage chan<- request.StorageRequest
}

func NewOrganizationRootLogic(storage chan<- request.StorageRequest) *OrganizationRootLogic {
	return &OrganizationRootLogic{storage: storage}
}

func (ol *OrganizationRootLogic) Read(ctx context.Context, req *request.ReadOrganizationRoot) error {
	replier := oneshot.New[request.Result[*model.OrganizationRoot]]()

	err := request.Submit[request.StorageRequest](ctx, ol.storage, &request.ReadOrganizationRootRecord{
		OrganizationId: req.OrganizationId,
		Replier:        replier,
	})
	if err != nil {
		return failRequest(req.Replier, err)
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return failRequest(req.Replier,
			errs.Newf(errs.KindInternalFailure, "failed to receive storage result: %v", err))
	}

	if !req.Replier.Send(result) {
		log.Error("failed to send organization root to the caller")
		return errs.New(errs.KindInternalFailure, "failed to send organization root to the caller")
	}

	return nil
}
