package services

import "errors"

// Failure kinds surfaced by every service operation. Callers discriminate
// with errors.Is; each returned error wraps exactly one of these sentinels.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)
