// Package common defines shared constants and sentinel errors used across
// the voting server, its repositories and the admin client. Callers should
// use errors.Is to match these values; most call sites wrap them with
// fmt.Errorf("%w: ...") to add a human readable detail.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrorInvalidState reports an operation that is illegal in the
	// election's current lifecycle state.
	ErrorInvalidState = errors.New("invalid state")

	// ErrorInvalidInput covers malformed ballots and requests.
	ErrorInvalidInput = errors.New("invalid input")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrInactiveUser = errors.New("inactive user")
)
