package main

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
)

var (
	// ErrObjectUnavailable is returned when an object cannot be retrieved from the backend.
	ErrObjectUnavailable = errors.New("object unavailable")
	// ErrMalformedObject is returned when a commit has no tree reference.
	ErrMalformedObject = errors.New("malformed object")
	// ErrBackendUnavailable is returned when no backend was supplied.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// isObjectNotFoundError reports whether err means the object store has no such
// object, as opposed to an object that exists but could not be read
func isObjectNotFoundError(err error) bool {
	return errors.Is(err, plumbing.ErrObjectNotFound)
}
