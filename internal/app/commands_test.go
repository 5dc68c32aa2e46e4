package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/storage/memory"
)

func parisStore(t *testing.T) (*app.IngestService, *memory.Store) {
	t.Helper()
	s := newStore(t, domain.Review{ReviewID: "seed-1", ReviewBody: "Great stay", Location: "Paris", Timestamp: "2024-02-01 10:00:00"})
	clock := clockwork.NewFakeClockAt(time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC))
	return app.NewIngestService(s, clock), s
}

func TestIngest_Success(t *testing.T) {
	svc, s := parisStore(t)

	rv, err := svc.Ingest(context.Background(), "Terrible", "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Terrible", rv.ReviewBody)
	assert.Equal(t, "Paris", rv.Location)
	assert.Equal(t, "2024-02-02 08:00:00", rv.Timestamp)
	_, perr := uuid.Parse(rv.ReviewID)
	assert.NoError(t, perr)
	assert.Equal(t, 2, s.Len())

	rv2, err := svc.Ingest(context.Background(), "Again", "Paris")
	require.NoError(t, err)
	assert.NotEqual(t, rv.ReviewID, rv2.ReviewID)
}

// Open question kept as-is: a never-seen location is rejected on first use
// because the set is consulted before it is grown.
func TestIngest_NewLocationRejected(t *testing.T) {
	svc, s := parisStore(t)

	for i := 0; i < 2; i++ {
		_, err := svc.Ingest(context.Background(), "Lovely", "Lisbon")
		require.ErrorIs(t, err, domain.ErrUnknownLocation)
	}
	assert.Equal(t, 1, s.Len())
}

func TestIngest_EmptyOrMissingFields(t *testing.T) {
	svc, s := parisStore(t)

	_, err := svc.Ingest(context.Background(), "", "Paris")
	require.ErrorIs(t, err, domain.ErrEmptyBody)

	// location is validated first
	_, err = svc.Ingest(context.Background(), "", "")
	require.ErrorIs(t, err, domain.ErrUnknownLocation)

	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 1, s.Len())
}

func TestIngest_CaseSensitiveLocation(t *testing.T) {
	svc, _ := parisStore(t)
	_, err := svc.Ingest(context.Background(), "ok", "paris")
	assert.True(t, errors.Is(err, domain.ErrUnknownLocation))
}

func TestIngest_CanceledContext(t *testing.T) {
	svc, s := parisStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Ingest(ctx, "ok", "Paris")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.Len())
}
