package app

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"review_analyzer/internal/domain"
)

type QueryService struct {
	store  domain.ReviewStore
	scorer domain.Scorer
	limit  int
}

// NewQueryService scores up to limit reviews concurrently per request.
func NewQueryService(s domain.ReviewStore, sc domain.Scorer, limit int) *QueryService {
	if limit <= 0 {
		limit = 1
	}
	return &QueryService{store: s, scorer: sc, limit: limit}
}

// ListReviews returns the reviews matching f, each annotated with its
// sentiment, ordered by compound score descending. Ties keep store order.
func (s *QueryService) ListReviews(ctx context.Context, f domain.Filter) ([]domain.ScoredReview, error) {
	rs := s.store.Filter(f)
	out := make([]domain.ScoredReview, len(rs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, r := range rs {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = domain.ScoredReview{Review: r, Sentiment: s.scorer.Score(r.ReviewBody)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Sentiment.Compound > out[b].Sentiment.Compound
	})
	return out, nil
}
