package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PeopleTable is the relation every query reads from.
const PeopleTable = "people"

// ErrSchemaMissing is returned when the people table cannot be resolved.
var ErrSchemaMissing = errors.New("people table not found")

// CheckSchema verifies that the people table is visible on the search path.
// The service never creates or alters schema; a missing table is a startup failure.
func CheckSchema(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	start := time.Now()
	log = log.With().Str("component", "database").Logger()

	conn, err := db.Conn(ctx)
	if err != nil {
		log.Error().Err(err).Str("event", "db_schema_check").Msg("failed to acquire connection")
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", PeopleTable).Scan(&exists); err != nil {
		log.Error().Err(err).Str("event", "db_schema_check").Msg("failed to check people table")
		return fmt.Errorf("check people table: %w", err)
	}

	if !exists {
		log.Error().
			Str("event", "db_schema_check").
			Str("table", PeopleTable).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("people table missing")
		return ErrSchemaMissing
	}

	log.Info().
		Str("event", "db_schema_check").
		Str("table", PeopleTable).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema ok")
	return nil
}
