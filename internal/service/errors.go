// Package service implements the application services for Divvy:
// expenses, groups and memberships, and account identity.
//
// Services validate input before touching the store, consult the policy
// package for authorization, and classify every failure into the
// sentinel errors below so the HTTP layer can map them to status codes
// without inspecting store internals.
package service

import "errors"

var (
	// ErrInvalidInput marks malformed identifiers or missing required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks a missing actor identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an actor who is not allowed to perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate that violates a uniqueness rule.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable marks a failed or timed-out store call. Terminal for
	// the request; no retries are performed.
	ErrUnavailable = errors.New("storage unavailable")
)
