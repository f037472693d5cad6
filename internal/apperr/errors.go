// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	// ErrNotFound signals a lookup or update miss. It is a valid,
	// non-exceptional outcome; no mutation has occurred.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID signals an append whose identifier already exists.
	// The store refuses the write to keep exactly one record per id.
	ErrDuplicateID = errors.New("duplicate case id")

	// ErrInvalidTransition signals a status change the lifecycle does not
	// allow (reversals, transitions out of a terminal state).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUpstream signals a contact relay failure. The caller may retry;
	// nothing retries automatically.
	ErrUpstream = errors.New("upstream unavailable")
)
