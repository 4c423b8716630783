package api

import (
	"context"
	"encoding/json"

	"github.com/go-arcade/orgman/internal/engine/errs"
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// handleBody routes one request body to its handler. The subject is the
// verified user id supplied by the transport; it is trusted as-is.
func (s *Server) handleBody(ctx context.Context, subject string, body []byte) Result {
	head, params, err := parseEnvelope(body)
	if err != nil {
		return failure(err)
	}

	switch head.Element {
	case elementOrganization:
		switch head.Action {
		case actionCreate:
			return s.createOrganization(ctx, subject, params)
		case actionJoin:
			return s.joinOrganization(ctx, subject, params)
		case actionRead:
			return s.readOrganizationRoot(ctx, params)
		}
	case elementUser:
		if head.Action == actionRead {
			return s.readUser(ctx, subject)
		}
	}

	return failure(errs.Newf(errs.KindApiRequestFailure,
		"unknown action '%s' for element '%s'", head.Action, head.Element))
}

// Expected parameters: name, country, address, telephone.
func (s *Server) createOrganization(ctx context.Context, subject string, params map[string]json.RawMessage) Result {
	name, err := stringParameter(params, "name")
	if err != nil {
		return failure(err)
	}
	country, err := stringParameter(params, "country")
	if err != nil {
		return failure(err)
	}
	address, err := stringParameter(params, "address")
	if err != nil {
		return failure(err)
	}
	telephone, err := stringParameter(params, "telephone")
	if err != nil {
		return failure(err)
	}

	req := &request.CreateOrganization{
		UserId:    subject,
		Name:      name,
		Country:   country,
		Address:   address,
		Telephone: telephone,
		Replier:   oneshot.New[request.Result[*model.Organization]](),
	}

	return submitAndAwait[request.LogicRequest](ctx, s.logic, req, req.Replier)
}

// Expected parameters: invitation_code.
func (s *Server) joinOrganization(ctx context.Context, subject string, params map[string]json.RawMessage) Result {
	invitationCode, err := stringParameter(params, "invitation_code")
	if err != nil {
		return failure(err)
	}

	req := &request.JoinOrganization{
		UserId:         subject,
		InvitationCode: invitationCode,
		Replier:        oneshot.New[request.Result[*model.Organization]](),
	}

	return submitAndAwait[request.LogicRequest](ctx, s.logic, req, req.Replier)
}

// Expected parameters: organization_id.
func (s *Server) readOrganizationRoot(ctx context.Context, params map[string]json.RawMessage) Result {
	organizationId, err := stringParameter(params, "organization_id")
	if err != nil {
		return failure(err)
	}

	req := &request.ReadOrganizationRoot{
		OrganizationId: organizationId,
		Replier:        oneshot.New[request.Result[*model.OrganizationRoot]](),
	}

	return submitAndAwait[request.LogicRequest](ctx, s.logic, req, req.Replier)
}

func (s *Server) readUser(ctx context.Context, subject string) Result {
	req := &request.ReadUser{
		UserId:  subject,
		Replier: oneshot.New[request.Result[*model.User]](),
	}

	return submitAndAwait[request.LogicRequest](ctx, s.logic, req, req.Replier)
}

// submitAndAwait pushes the request into the pipeline and waits for the single
// reply bound to it.
func submitAndAwait[R any, T any](ctx context.Context, requests chan<- R, req R, replier *oneshot.Replier[request.Result[T]]) Result {
	if err := request.Submit(ctx, requests, req); err != nil {
		return failure(err)
	}

	result, err := replier.Recv(ctx)
	if err != nil {
		return failure(errs.Newf(errs.KindInternalFailure,
			"failed to receive response from logic: %v", err))
	}
	if result.Err != nil {
		return failure(result.Err)
	}

	return success(result.Value)
}
