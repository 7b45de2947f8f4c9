package domain

import "errors"

// Business-rule violations. Their messages are shown to users verbatim.
var (
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrAlreadyCheckedOut     = errors.New("already checked out today")
	ErrMustCheckInFirst      = errors.New("must check in first")
	ErrInvalidAttendanceKind = errors.New("invalid attendance kind")
	ErrInvalidPeriod         = errors.New("invalid report period")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrEmployeeNotFound   = errors.New("employee not found")
)

// ErrStoreConflict is returned when a store transaction keeps losing an
// optimistic race against another writer.
var ErrStoreConflict = errors.New("store: concurrent update conflict")
