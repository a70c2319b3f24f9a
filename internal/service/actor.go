package service

import (
	"errors"

	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

// Actor is the authenticated caller as resolved by the auth middleware.
// Services derive both their visibility scope and their audit attribution
// from it, so role semantics live in exactly one place.
type Actor struct {
	ID           uint
	Role         models.Role
	ChurchID     *uint
	DepartmentID *uint
}

// Scope converts the actor into the repository-level visibility filter.
func (a Actor) Scope() repository.Scope {
	return repository.Scope{
		Role:         a.Role,
		ChurchID:     a.ChurchID,
		DepartmentID: a.DepartmentID,
		ActorID:      a.ID,
	}
}

// Shared sentinels returned by services and mapped to HTTP statuses at the
// handler boundary.
var (
	// ErrNoChanges signals a diff-driven update where nothing differs. The
	// caller must surface "no changes detected" and skip storage entirely.
	ErrNoChanges = errors.New("no changes detected")
	// ErrForbidden signals the actor's role admits the route but not this
	// particular target (e.g. a pastor reaching outside their church).
	ErrForbidden = errors.New("operation not permitted for this actor")
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
