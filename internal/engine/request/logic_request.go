// Package request defines the two message hierarchies of the dispatch
// pipeline: logic requests submitted by the transport and storage requests
// submitted by logic executors. Every request carries a one-shot reply slot
// bound to exactly one call; whoever accepts the request sends exactly one
// reply through it.
package request

import (
	"github.com/go-arcade/orgman/internal/engine/model"
	"github.com/go-arcade/orgman/pkg/oneshot"
)

// Result pairs a reply value with the error that replaced it. Exactly one of
// the two is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok builds a successful result.
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail builds a failed result.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// LogicRequest is a business-level operation for the logic dispatch pool.
// Concrete requests are the only implementations.
type LogicRequest interface {
	logicRequest()
}

// CreateOrganization asks for a new organization owned by the calling user.
type CreateOrganization struct {
	UserId    string
	Name      string
	Country   string
	Address   string
	Telephone string
	Replier   *oneshot.Replier[Result[*model.Organization]]
}

// JoinOrganization redeems an invitation code for the calling user.
type JoinOrganization struct {
	UserId         string
	InvitationCode string
	Replier        *oneshot.Replier[Result[*model.Organization]]
}

// ReadOrganizationRoot asks for the aggregate view of one organization.
type ReadOrganizationRoot struct {
	OrganizationId string
	Replier        *oneshot.Replier[Result[*model.OrganizationRoot]]
}

// ReadUser asks for a user's memberships and permissions. An unknown subject
// is not an error: the reply is a transient default user.
type ReadUser struct {
	UserId  string
	Replier *oneshot.Replier[Result[*model.User]]
}

func (*CreateOrganization) logicRequest()   {}
func (*JoinOrganization) logicRequest()     {}
func (*ReadOrganizationRoot) logicRequest() {}
func (*ReadUser) logicRequest()             {}
