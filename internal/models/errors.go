package models

import "errors"

// Sentinel errors shared across the service layer. Handlers map them onto
// HTTP statuses; everything else matches with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("name already in use")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrProfileRequired    = errors.New("profile required")
	ErrTermsNotAccepted   = errors.New("terms not accepted")
	ErrSessionExpired     = errors.New("session expired")
	ErrPersistenceFailure = errors.New("could not save changes")
	ErrUpstreamFailure    = errors.New("upstream service failed")
)
