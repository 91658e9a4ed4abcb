// Package common defines sentinel errors and constants shared by the server
// layers. Callers match errors with errors.Is.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrOwnerNotFound  = errors.New("owner not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Authorization decisions.
	ErrActorNotFound = errors.New("actor not found")
	ErrNotOwner      = errors.New("actor does not own the resource")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
