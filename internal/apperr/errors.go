// Package apperr defines the error taxonomy shared across the service.
// Handlers map these sentinels onto stable HTTP status codes so clients
// can branch on the outcome.
package apperr

import "errors"

var (
	// ErrUnauthorized covers missing or incorrect credentials and a
	// missing/malformed Authorization header.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken means the bearer token failed signature or
	// structural verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpired means the token verified but the session is no longer
	// active: its own expiration passed, the server-side record was
	// cleared or rotated, or the stored expiration lapsed.
	ErrExpired = errors.New("token expired")

	// ErrForbidden covers denylisted origins and file ownership mismatches.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound covers missing files and empty file listings.
	ErrNotFound = errors.New("not found")

	ErrAlreadyExists = errors.New("already exists")
)
