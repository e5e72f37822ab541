package services

import "errors"

// Common service-level errors. Handlers translate these to HTTP statuses;
// anything else is treated as an internal failure and never shown raw to
// the client.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrStorage      = errors.New("storage failure")
	ErrPersistence  = errors.New("persistence failure")
)
