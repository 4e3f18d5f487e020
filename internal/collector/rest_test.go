package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/v1/bars/daily":
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"timestamp":300,"close":12},{"timestamp":100,"close":10},{"timestamp":200,"close":11}]`))
		case "/api/v1/quote":
			_, _ = w.Write([]byte(`{"price":110,"previousClose":100,"open":101,"high":111,"low":99,"volume":5}`))
		case "/api/v1/metadata":
			_, _ = w.Write([]byte(`{"name":"Infosys","sector":"IT","trailingPE":24.1}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", WithRateLimit(100))
	ctx := context.Background()

	series, err := f.FetchHistory(ctx, "INFY", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, series.Closes())
	assert.Equal(t, "Bearer secret", auth)

	q, err := f.FetchQuote(ctx, "INFY")
	require.NoError(t, err)
	assert.Equal(t, 10.0, q.PctChange)
	assert.Equal(t, 10.0, q.Change)

	meta, err := f.FetchMetadata(ctx, "INFY")
	require.NoError(t, err)
	assert.Equal(t, "INFY", meta.Symbol)
	require.NotNil(t, meta.TrailingPE)
	assert.Equal(t, 24.1, *meta.TrailingPE)
}

func TestRESTFetcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "").FetchQuote(context.Background(), "INFY")

	require.ErrorIs(t, err, ErrUnavailable)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "/api/v1/quote", apiErr.Endpoint)
}
