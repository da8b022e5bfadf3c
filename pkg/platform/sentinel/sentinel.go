package sentinel

import "errors"

// Sentinel dependency errors. Stores and external lookups should return these
// (optionally wrapped) so resolvers can translate them into domain errors
// exactly once. ErrNotFound and ErrUnavailable are deliberately distinct:
// "no such tenant" is a valid answer, "could not ask" is not.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("unavailable")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)
