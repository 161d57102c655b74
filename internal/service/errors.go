package service

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSearchDisabled     = errors.New("search is disabled")
)

// detailError carries a caller-facing message while still matching its
// sentinel through errors.Is.
type detailError struct {
	kind   error
	detail string
}

func (e *detailError) Error() string { return e.detail }

func (e *detailError) Unwrap() error { return e.kind }

func newError(kind error, detail string) error {
	return &detailError{kind: kind, detail: detail}
}
