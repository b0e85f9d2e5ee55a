// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist or is not
// visible to the requesting actor.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a concurrent modification conflict (optimistic locking).
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates the request payload failed validation.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized indicates the caller lacks an actor identity or the
// identity does not grant access to the requested resource.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnavailable indicates a required external collaborator (language model,
// message queue, store) could not be reached.
var ErrUnavailable = errors.New("service unavailable")
