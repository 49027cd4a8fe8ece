// Package postgres journals lookups to a PostgreSQL table through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS map_lookups (
	id                TEXT PRIMARY KEY,
	operation         TEXT NOT NULL,
	provider          TEXT NOT NULL,
	query             TEXT NOT NULL,
	latitude          DOUBLE PRECISION NOT NULL,
	longitude         DOUBLE PRECISION NOT NULL,
	formatted_address TEXT,
	distance_meters   DOUBLE PRECISION,
	duration_seconds  DOUBLE PRECISION,
	recorded_at       TIMESTAMPTZ NOT NULL
);`

const insertLookup = `
INSERT INTO map_lookups (
	id, operation, provider, query, latitude, longitude,
	formatted_address, distance_meters, duration_seconds, recorded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO NOTHING;`

// execer is the subset of *sql.DB the journal needs.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	return db, nil
}

// Journal writes lookup events to the map_lookups table.
// It implements domain.LookupRecorder.
type Journal struct {
	db execer
}

// NewJournal wraps an open database handle.
func NewJournal(db execer) *Journal {
	return &Journal{db: db}
}

// InitSchema creates the journal table if it does not exist.
func (j *Journal) InitSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: create map_lookups: %w", err)
	}
	return nil
}

// Record inserts one event. Replayed IDs are ignored.
func (j *Journal) Record(ctx context.Context, event domain.LookupEvent) error {
	if j.db == nil {
		return errors.New("lookup journal: db is nil")
	}
	if _, err := j.db.ExecContext(ctx, insertLookup, insertArgs(event)...); err != nil {
		return fmt.Errorf("record lookup %s: %w", event.ID, err)
	}
	return nil
}

// insertArgs orders event fields for insertLookup. Zero optional values become NULL.
func insertArgs(e domain.LookupEvent) []any {
	return []any{
		e.ID,
		string(e.Operation),
		string(e.Provider),
		e.Query,
		e.Latitude,
		e.Longitude,
		nullString(e.FormattedAddress),
		nullFloat(e.Operation == domain.OpDistance, e.DistanceMeters),
		nullFloat(e.Operation == domain.OpDistance, e.DurationSeconds),
		e.RecordedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(valid bool, f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: valid}
}
