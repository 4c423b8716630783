package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport can serialize it for callers.
type Kind string

const (
	KindApiFailure                    Kind = "api_failure"
	KindApiRequestFailure             Kind = "api_request_failure"
	KindInternalFailure               Kind = "internal_failure"
	KindStorageFailure                Kind = "storage_failure"
	KindInvalidArgument               Kind = "invalid_argument"
	KindInvalidCountry                Kind = "invalid_country"
	KindInvalidTelephone              Kind = "invalid_telephone"
	KindNameAlreadyTaken              Kind = "name_already_taken"
	KindTelephoneAlreadyInUse         Kind = "telephone_already_in_use"
	KindUserCannotCreateOrganization  Kind = "user_cannot_create_organization"
	KindUserCannotJoinAnyOrganization Kind = "user_cannot_join_any_organization"
	KindInvitationNotFound            Kind = "invitation_not_found"
	KindInvitationHasExpired          Kind = "invitation_has_expired"
	KindOrganizationNotFound          Kind = "organization_not_found"
	KindProcessReversion              Kind = "process_reversion"
)

// Error is a classified error value. Business-rule failures travel back to the
// original caller carrying their kind; everything unclassified is treated as
// an internal failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, or KindInternalFailure when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternalFailure
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
