package domain

import (
	"context"
	"time"
)

type ReviewStore interface {
	// Write paths
	Append(r Review) error
	AddValidLocation(loc string)

	// Read paths
	Filter(f Filter) []Review
	HasLocation(loc string) bool
}

// Scorer must be a pure function of text.
type Scorer interface {
	Score(text string) Sentiment
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Filter carries the optional list predicates; nil means "not applied".
type Filter struct {
	Location  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// ParseFilter builds a Filter from raw query values. Empty strings are
// treated as absent.
func ParseFilter(location, startDate, endDate string) (Filter, error) {
	var f Filter
	if location != "" {
		f.Location = &location
	}
	for _, p := range []struct {
		name string
		raw  string
		dst  **time.Time
	}{
		{"start_date", startDate, &f.StartDate},
		{"end_date", endDate, &f.EndDate},
	} {
		if p.raw == "" {
			continue
		}
		d, err := time.Parse(DateLayout, p.raw)
		if err != nil {
			return Filter{}, &ParseError{Param: p.name, Value: p.raw, Err: ErrInvalidDate}
		}
		*p.dst = &d
	}
	return f, nil
}
