// Package services defines the business logic for pets and their images.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Errors that reach a client are raised as *fault.Fault values wrapping these
// sentinels; the HTTP layer hands them to the fault dispatcher unchanged.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-pet-backend/internal/fault"
	"github.com/tbourn/go-pet-backend/internal/repo"
)

var (
	// ErrPetNotFound indicates that no pet exists for the requested ID.
	ErrPetNotFound = errors.New("pet not found")

	// ErrEmptyImage is returned when an upload carries no bytes.
	ErrEmptyImage = errors.New("image is empty")
)

// notFound raises the EntityNotFound fault for id.
func notFound(id string) error {
	f := fault.NewEntityNotFound(fmt.Sprintf("Resource with ID %s not found in the persistence", id))
	f.Cause = ErrPetNotFound
	return f
}

// persistErr classifies a repository error for the fault engine. Constraint
// violations become integrity conflicts; whether that is a 409 is decided by
// the dispatcher. Anything else is unclassified.
func persistErr(id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return notFound(id)
	case repo.IsConstraintViolation(err):
		return fault.NewIntegrityConflict(err)
	}
	return fault.Wrap(err)
}
