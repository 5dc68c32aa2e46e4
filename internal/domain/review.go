package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-date form used by filters and timestamp prefixes.
	DateLayout = "2006-01-02"
	// TimestampLayout is the form written for reviews created through ingest.
	TimestampLayout = "2006-01-02 15:04:05"
)

type Review struct {
	ReviewID   string `json:"ReviewId"`
	ReviewBody string `json:"ReviewBody"`
	Location   string `json:"Location"`
	Timestamp  string `json:"Timestamp"`
}

// Sentiment is derived per request and never stored on a Review.
type Sentiment struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// MarshalJSON always writes a fractional part, so zero is 0.0 and one is 1.0.
func (s Sentiment) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 64)
	b = append(b, `{"neg":`...)
	b = appendScore(b, s.Negative)
	b = append(b, `,"neu":`...)
	b = appendScore(b, s.Neutral)
	b = append(b, `,"pos":`...)
	b = appendScore(b, s.Positive)
	b = append(b, `,"compound":`...)
	b = appendScore(b, s.Compound)
	return append(b, '}'), nil
}

func appendScore(b []byte, v float64) []byte {
	n := len(b)
	b = strconv.AppendFloat(b, v, 'f', -1, 64)
	if !strings.ContainsRune(string(b[n:]), '.') {
		b = append(b, ".0"...)
	}
	return b
}

type ScoredReview struct {
	Review
	Sentiment Sentiment `json:"sentiment"`
}

// ReviewDate extracts the calendar date from a timestamp. Only the token
// before the first space is considered, so "2024-01-05 23:59:00" and
// "2024-01-05" both yield 2024-01-05.
func ReviewDate(ts string) (time.Time, error) {
	tok := ts
	if i := strings.IndexByte(ts, ' '); i >= 0 {
		tok = ts[:i]
	}
	d, err := time.Parse(DateLayout, tok)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return d, nil
}
