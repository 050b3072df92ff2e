package core

import "errors"

// Sentinel errors shared by all services. Services wrap these with context via
// fmt.Errorf("...: %w", Err...); the web adapter maps them to HTTP statuses
// with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
)
