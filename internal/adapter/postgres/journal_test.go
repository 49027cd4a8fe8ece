package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

type execCall struct {
	query string
	args  []any
}

type fakeDB struct {
	calls []execCall
	err   error
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return driverResult(1), nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

var recordedAt = time.Date(2024, 4, 27, 6, 0, 0, 0, time.UTC)

func TestInitSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewJournal(db).InitSchema(context.Background()))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "CREATE TABLE IF NOT EXISTS map_lookups")
}

func TestRecord_Geocode(t *testing.T) {
	db := &fakeDB{}
	event := domain.LookupEvent{
		ID:               "geocode-abc",
		Operation:        domain.OpGeocode,
		Provider:         domain.ProviderTomTom,
		Query:            "123 Main St",
		Latitude:         34.6,
		Longitude:        -119.1,
		FormattedAddress: "946 123 Main St, Newport, OH 11946, USA",
		RecordedAt:       recordedAt,
	}

	require.NoError(t, NewJournal(db).Record(context.Background(), event))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "ON CONFLICT (id) DO NOTHING")
	args := db.calls[0].args
	require.Len(t, args, 10)
	assert.Equal(t, "geocode-abc", args[0])
	assert.Equal(t, "geocode", args[1])
	assert.Equal(t, "tomtom", args[2])
	assert.Equal(t, sql.NullString{String: event.FormattedAddress, Valid: true}, args[6])
	assert.Equal(t, sql.NullFloat64{}, args[7])
	assert.Equal(t, sql.NullFloat64{}, args[8])
	assert.Equal(t, recordedAt, args[9])
}

func TestRecord_DistanceKeepsZeroDistance(t *testing.T) {
	db := &fakeDB{}
	event := domain.LookupEvent{
		ID:         "distance-abc",
		Operation:  domain.OpDistance,
		Provider:   domain.ProviderMock,
		RecordedAt: recordedAt,
	}

	require.NoError(t, NewJournal(db).Record(context.Background(), event))

	args := db.calls[0].args
	assert.Equal(t, sql.NullString{}, args[6])
	assert.Equal(t, sql.NullFloat64{Float64: 0, Valid: true}, args[7])
	assert.Equal(t, sql.NullFloat64{Float64: 0, Valid: true}, args[8])
}

func TestRecord_WrapsError(t *testing.T) {
	boom := errors.New("connection refused")
	db := &fakeDB{err: boom}

	err := NewJournal(db).Record(context.Background(), domain.LookupEvent{ID: "geocode-x"})

	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "geocode-x")
}
