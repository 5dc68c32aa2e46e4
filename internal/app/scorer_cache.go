package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

// CachedScorer memoizes a Scorer through a Cache. Cache failures fall through
// to the wrapped scorer; a score is never withheld because the cache is down.
type CachedScorer struct {
	inner   domain.Scorer
	cache   domain.Cache
	ttl     time.Duration
	timeout time.Duration
}

func NewCachedScorer(inner domain.Scorer, c domain.Cache, ttl time.Duration) *CachedScorer {
	return &CachedScorer{inner: inner, cache: c, ttl: ttl, timeout: 250 * time.Millisecond}
}

func scoreKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return "sentiment:" + hex.EncodeToString(sum[:])
}

func (s *CachedScorer) Score(text string) domain.Sentiment {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := scoreKey(text)
	var hit domain.Sentiment
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("sentiment cache get failed")
	}
	if ok && err == nil {
		return hit
	}

	sc := s.inner.Score(text)
	if err := s.cache.Set(ctx, key, sc, int(s.ttl.Seconds())); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("sentiment cache set failed")
	}
	return sc
}
