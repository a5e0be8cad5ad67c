package repository

import (
	"context"

	"peopleapi/internal/model"
)

// ListLimit caps how many people a list query returns.
const ListLimit = 50

// PersonRepository defines read-only data access for people.
// Implementations acquire and release their own connection per call.
type PersonRepository interface {
	// List returns at most limit people ordered by name ascending.
	// Ordering and limiting are done by the store.
	List(ctx context.Context, limit int) ([]model.Person, error)

	// FindByID returns the person with the given id, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Person, error)
}
