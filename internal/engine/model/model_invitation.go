package model

import (
	"time"

	"github.com/go-arcade/orgman/pkg/id"
)

// Invitation is a time-limited, single-use code granting a permission set
// within one organization. It is consumed (deleted) on a successful join.
type Invitation struct {
	Code           string   `json:"code"`
	OrganizationId string   `json:"organization_id"`
	Permissions    []string `json:"permissions"`
	// CreatedAt is a unix timestamp, seconds since the epoch.
	CreatedAt    int64 `json:"created_at"`
	ExpiresAfter int64 `json:"expires_after"`
}

// NewInvitation mints an invitation for one organization with a generated
// code. The code is the invitation's identity; collisions are rejected by the
// unique index on it.
func NewInvitation(organizationId string, permissions []string, expiresAfter int64) *Invitation {
	return &Invitation{
		Code:           id.ShortId(),
		OrganizationId: organizationId,
		Permissions:    permissions,
		CreatedAt:      time.Now().Unix(),
		ExpiresAfter:   expiresAfter,
	}
}

// Expired reports whether the invitation is past created_at + expires_after.
func (i *Invitation) Expired() bool {
	deadline := time.Unix(i.CreatedAt+i.ExpiresAfter, 0)
	return time.Now().After(deadline)
}
