// Package reviewapi is a client for the review service's GET/POST contract.
package reviewapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

var ErrRejected = errors.New("reviewapi: review rejected")

const maxAttempts = 4

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Create submits a review. A 400 from the server maps to ErrRejected.
func (c *Client) Create(ctx context.Context, body, location string) (domain.Review, error) {
	form := url.Values{"ReviewBody": {body}, "Location": {location}}.Encode()
	var out domain.Review
	err := c.do(ctx, http.MethodPost, c.base+"/", []byte(form), http.StatusCreated, &out)
	return out, err
}

// List fetches scored reviews; empty arguments are omitted from the query.
func (c *Client) List(ctx context.Context, location, startDate, endDate string) ([]domain.ScoredReview, error) {
	q := url.Values{}
	for k, v := range map[string]string{"location": location, "start_date": startDate, "end_date": endDate} {
		if v != "" {
			q.Set(k, v)
		}
	}
	u := c.base + "/"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var out []domain.ScoredReview
	err := c.do(ctx, http.MethodGet, u, nil, http.StatusOK, &out)
	return out, err
}

// do performs one logical call with client-side rate limiting, honoring
// Retry-After when provided. 429 is retried for every method since the server
// refused the request. Transport errors and gateway-class 5xx are retried for
// GET only: a POST may already have been applied when they happen.
func (c *Client) do(ctx context.Context, method, u string, body []byte, want int, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	idempotent := method == http.MethodGet

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rdr)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "review-ingestor/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("reviews", method, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if idempotent && i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("reviews", method, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case want:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusBadRequest:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if len(b) == 0 {
				return ErrRejected
			}
			return fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(string(b)))

		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			retry := idempotent || resp.StatusCode == http.StatusTooManyRequests
			if retry && i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
