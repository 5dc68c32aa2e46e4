package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_TagsOutcome(t *testing.T) {
	var buf bytes.Buffer
	m := chi.NewRouter()
	m.Use(Logger(zerolog.New(&buf)))
	m.Post("/", func(w http.ResponseWriter, r *http.Request) {
		tagOutcome(r, "unknown_location")
		writeEmpty(w, http.StatusBadRequest)
	})
	m.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{})
	})

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "unknown_location", line["outcome"])
	assert.Equal(t, float64(http.StatusBadRequest), line["status"])
	assert.Equal(t, "/", line["route"])

	buf.Reset()
	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	line = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "outcome")
	assert.Equal(t, float64(2), line["bytes"])
}

func TestTagOutcome_OutsideLogger(t *testing.T) {
	assert.NotPanics(t, func() { tagOutcome(httptest.NewRequest(http.MethodGet, "/", nil), "created") })
}

func TestRemoteHost(t *testing.T) {
	assert.Equal(t, "10.0.0.1", remoteHost("10.0.0.1:5555"))
	assert.Equal(t, "10.0.0.1", remoteHost("10.0.0.1"))
}

func TestEscapeNonASCII(t *testing.T) {
	assert.Equal(t, `"plain"`, string(escapeNonASCII([]byte(`"plain"`))))
	assert.Equal(t, `"\u00e9\u20ac\ud83d\ude00"`, string(escapeNonASCII([]byte(`"é€😀"`))))
}
