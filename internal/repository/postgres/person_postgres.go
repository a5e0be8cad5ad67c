package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peopleapi/internal/model"
	"peopleapi/internal/repository"
)

// PersonPostgres is a PostgreSQL implementation of repository.PersonRepository.
// Every method takes a dedicated connection from db and releases it before returning.
type PersonPostgres struct {
	db *sql.DB
}

// NewPersonPostgres creates a new PersonPostgres repository.
func NewPersonPostgres(db *sql.DB) *PersonPostgres {
	return &PersonPostgres{db: db}
}

var _ repository.PersonRepository = (*PersonPostgres)(nil)

// List returns up to limit people ordered by name, then id.
func (r *PersonPostgres) List(ctx context.Context, limit int) ([]model.Person, error) {
	const q = `
		SELECT id, name
		FROM people
		ORDER BY name ASC, id ASC
		LIMIT $1
	`
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	people := make([]model.Person, 0)
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}

	return people, nil
}

// FindByID fetches a single person. The id is always bound as a parameter.
func (r *PersonPostgres) FindByID(ctx context.Context, id string) (*model.Person, error) {
	const q = `
		SELECT id, name
		FROM people
		WHERE id = $1
	`
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var p model.Person
	if err := conn.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return &p, nil
}
