// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to conflicting state (e.g. claiming a slot
// that another booking consumed first).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as booking a slot that was claimed by a
// concurrent request or deleting a zone that still has reservations.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEstablishmentNotFound is returned when an establishment ID does not
// resolve to a row. Distinct from sql.ErrNoRows so list endpoints can
// report "establishment not found" rather than a generic empty result.
var ErrEstablishmentNotFound = errors.New("establishment not found")
