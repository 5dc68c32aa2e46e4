package reviewapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/adapters/reviewapi"
	"review_analyzer/internal/domain"
)

func TestClient_Create_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			assert.NoError(t, r.ParseForm())
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(domain.Review{
				ReviewID:   "id-1",
				ReviewBody: r.PostForm.Get("ReviewBody"),
				Location:   r.PostForm.Get("Location"),
				Timestamp:  "2024-02-02 08:00:00",
			})
		}
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, 100)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rv, err := cl.Create(ctx, "Great stay & more", "Paris")
	require.NoError(t, err)
	assert.Equal(t, "id-1", rv.ReviewID)
	assert.Equal(t, "Great stay & more", rv.ReviewBody)
	assert.Equal(t, "Paris", rv.Location)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClient_Create_NoRetryOnGatewayError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ReviewId":"dup"}`))
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, 100)
	require.NoError(t, err)
	_, err = cl.Create(context.Background(), "Lovely", "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "a 503 POST may have been applied")
}

func TestClient_List_RetriesGatewayError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, 100)
	require.NoError(t, err)
	out, err := cl.List(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_Create_Rejected(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, 100)
	require.NoError(t, err)
	_, err = cl.Create(context.Background(), "x", "Nowhere")
	require.ErrorIs(t, err, reviewapi.ErrRejected)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "400 is not retried")
}

func TestClient_List_Query(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Rome", r.URL.Query().Get("location"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		assert.False(t, r.URL.Query().Has("end_date"))
		_ = json.NewEncoder(w).Encode([]domain.ScoredReview{
			{Review: domain.Review{ReviewID: "r1", Location: "Rome"}, Sentiment: domain.Sentiment{Compound: 0.5}},
		})
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, 100)
	require.NoError(t, err)
	out, err := cl.List(context.Background(), "Rome", "2024-01-01", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.5, out[0].Sentiment.Compound)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	cl, err := reviewapi.New(ts.URL, 100)
	require.NoError(t, err)
	_, err = cl.List(context.Background(), "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNew_InvalidBase(t *testing.T) {
	_, err := reviewapi.New("not a url", 1)
	assert.Error(t, err)
}
