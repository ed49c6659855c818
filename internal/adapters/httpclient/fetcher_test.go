package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"ccy":"USD","buy":"41.2","sale":"41.5"}]`))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client())
	payload, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"ccy":"USD"`)
}

func TestFetcher_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, userAgent, gotUA)
}

func TestFetcher_StatusCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status code 503")
}

func TestFetcher_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcher_BodyIsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		big := make([]byte, maxPayloadBytes+1024)
		_, _ = w.Write(big)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.Client())
	payload, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, payload, maxPayloadBytes)
}

func TestFetcher_InvalidURL(t *testing.T) {
	f := NewFetcher(&http.Client{})
	_, err := f.Fetch(context.Background(), "http://::1]")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed")
}
