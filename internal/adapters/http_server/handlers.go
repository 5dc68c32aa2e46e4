package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
)

type Handlers struct {
	Q            *app.QueryService
	I            *app.IngestService
	MaxBodyBytes int64
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// MountHandlers registers GET and POST on "/". Any other method on "/" gets
// 405 with an Allow header and no body.
func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.listReviews)
	s.mux.Post("/", h.createReview)
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, POST")
		writeEmpty(w, http.StatusMethodNotAllowed)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeJSON sends v indented by two spaces with an exact Content-Length.
// Non-ASCII runes are written as \u escapes.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to marshal response body")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	body := escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n"))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// escapeNonASCII rewrites every rune above U+007F in encoded JSON as a
// lowercase \uXXXX escape, using a surrogate pair outside the BMP. Such runes
// only occur inside string literals, so the result is equivalent JSON.
func escapeNonASCII(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] < utf8.RuneSelf {
		i++
	}
	if i == len(b) {
		return b
	}
	out := make([]byte, 0, len(b)+16)
	out = append(out, b[:i]...)
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			out = append(out, b[i])
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		i += size
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			out = appendEscape(appendEscape(out, r1), r2)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(dst []byte, r rune) []byte {
	const hex = "0123456789abcdef"
	return append(dst, '\\', 'u', hex[r>>12&0xF], hex[r>>8&0xF], hex[r>>4&0xF], hex[r&0xF])
}

// firstValue returns the first non-empty value for key. Blank repeats are
// skipped, so "location=&location=Paris" selects Paris.
func firstValue(v url.Values, key string) string {
	for _, s := range v[key] {
		if s != "" {
			return s
		}
	}
	return ""
}

func writeEmpty(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(status)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := domain.ParseFilter(firstValue(q, "location"), firstValue(q, "start_date"), firstValue(q, "end_date"))
	if err != nil {
		log.Warn().Err(err).Msg("list: bad filter")
		tagOutcome(r, "bad_filter")
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	out, err := h.Q.ListReviews(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	form, err := h.readForm(w, r)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			observability.ObserveIngest("too_large")
			tagOutcome(r, "too_large")
			writeProblem(w, http.StatusRequestEntityTooLarge, "Body too large", err.Error())
			return
		}
		log.Warn().Err(err).Msg("ingest: bad form body")
		observability.ObserveIngest("parse")
		tagOutcome(r, "parse")
		writeProblem(w, http.StatusBadRequest, "Invalid form body", err.Error())
		return
	}

	rv, err := h.I.Ingest(r.Context(), firstValue(form, "ReviewBody"), firstValue(form, "Location"))
	if err != nil {
		if domain.IsValidation(err) {
			reason := "empty_body"
			if errors.Is(err, domain.ErrUnknownLocation) {
				reason = "unknown_location"
			}
			log.Debug().Err(err).Str("reason", reason).Msg("ingest rejected")
			observability.ObserveIngest(reason)
			tagOutcome(r, reason)
			writeEmpty(w, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("ingest failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	observability.ObserveIngest("")
	tagOutcome(r, "created")
	log.Info().Str("review_id", rv.ReviewID).Str("location", rv.Location).Msg("review ingested")
	writeJSON(w, http.StatusCreated, rv)
}

// readForm decodes an application/x-www-form-urlencoded body.
func (h *Handlers) readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	body := io.Reader(r.Body)
	if h.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, &domain.ParseError{Param: "body", Err: errors.New("invalid UTF-8")}
	}
	vals, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, &domain.ParseError{Param: "body", Err: err}
	}
	return vals, nil
}
