package logic

import (
	"context"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// UserLogic serves user reads. A subject without a stored record is not an
// error: the reply is a transient default user that may create or join an
// organization.
type UserLogic struct {
	storage chan<- request.StorageRequest
}

func NewUserLogic(storage chan<- request.StorageRequest) *UserLogic {
	return &UserLogic{storage: storage}
}

func (ul *UserLogic) Read(ctx context.Context, req *request.ReadUser) error {
	replier := oneshot.New[request.Result[*model.User]]()

	err := request.Submit[request.StorageRequest](ctx, ul.storage, &request.FindUserById{
		UserId:  req.UserId,
		Replier: replier,
	})
	if err != nil {
		return failRequest(req.Replier, err)
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return failRequest(req.Replier,
			errs.Newf(errs.KindInternalFailure, "failed to receive storage result: %v", err))
	}
	if result.Err != nil {
		return failRequest(req.Replier, result.Err)
	}

	user := result.Value
	if user == nil {
		user = model.NewUser(req.UserId)
	}

	if !req.Replier.Send(request.Ok(user)) {
		log.Error("failed to send user to the caller")
		return errs.New(errs.KindInternalFailure, "failed to send user to the caller")
	}

	return nil
}
