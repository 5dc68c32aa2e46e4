package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"review_analyzer/internal/domain"
)

type IngestService struct {
	store domain.ReviewStore
	clock clockwork.Clock
	newID func() string
}

func NewIngestService(s domain.ReviewStore, clock clockwork.Clock) *IngestService {
	return &IngestService{store: s, clock: clock, newID: func() string { return uuid.New().String() }}
}

// Ingest validates and stores a new review.
//
// The location is checked against the set as it stands before this request,
// and only added afterwards. A location that has never been seen is therefore
// rejected, even though accepted locations are recorded.
func (s *IngestService) Ingest(ctx context.Context, body, location string) (domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, err
	}
	if !s.store.HasLocation(location) {
		return domain.Review{}, fmt.Errorf("%w: %q", domain.ErrUnknownLocation, location)
	}
	if body == "" {
		return domain.Review{}, domain.ErrEmptyBody
	}

	rv := domain.Review{
		ReviewID:   s.newID(),
		ReviewBody: body,
		Location:   location,
		Timestamp:  s.clock.Now().Format(domain.TimestampLayout),
	}
	if err := s.store.Append(rv); err != nil {
		return domain.Review{}, fmt.Errorf("append review %s: %w", rv.ReviewID, err)
	}
	s.store.AddValidLocation(location)
	return rv, nil
}
