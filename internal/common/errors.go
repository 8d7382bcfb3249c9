// Package common defines shared sentinel errors used across the record
// store, services, and CLI layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// Verification-token errors (checked locally, before any network call).
	ErrTokenMissing   = errors.New("verification token missing")
	ErrTokenMalformed = errors.New("verification token malformed")

	// Submission flow errors.
	ErrNoArrivalDate      = errors.New("no arrival date declared")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)
