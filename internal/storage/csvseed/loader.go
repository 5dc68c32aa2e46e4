// Package csvseed reads the bootstrap review collection from CSV.
package csvseed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"review_analyzer/internal/domain"
)

var ErrMissingColumn = errors.New("csvseed: missing required column")

var columns = []string{"ReviewId", "ReviewBody", "Location", "Timestamp"}

// Load reads reviews from path. The header row names the columns; order is free
// and unknown columns are ignored.
func Load(path string) ([]domain.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]domain.Review, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	pos := make([]int, len(columns))
	for i, c := range columns {
		p, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
		pos[i] = p
	}

	var out []domain.Review
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(i int) string {
			if pos[i] < len(rec) {
				return rec[pos[i]]
			}
			return ""
		}
		rv := domain.Review{
			ReviewID:   field(0),
			ReviewBody: field(1),
			Location:   field(2),
			Timestamp:  field(3),
		}
		if _, err := domain.ReviewDate(rv.Timestamp); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rv)
	}
	return out, nil
}

// Submission is a review to be sent through the ingest endpoint.
type Submission struct {
	ReviewBody string
	Location   string
}

// ReadSubmissions reads ReviewBody,Location rows for the bulk ingestor.
func ReadSubmissions(r io.Reader) ([]Submission, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	bodyAt, locAt := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "ReviewBody":
			bodyAt = i
		case "Location":
			locAt = i
		}
	}
	if bodyAt < 0 || locAt < 0 {
		return nil, fmt.Errorf("%w: need ReviewBody and Location", ErrMissingColumn)
	}
	var out []Submission
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var s Submission
		if bodyAt < len(rec) {
			s.ReviewBody = rec[bodyAt]
		}
		if locAt < len(rec) {
			s.Location = rec[locAt]
		}
		out = append(out, s)
	}
}
