package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// maxPayloadBytes caps response bodies so a misbehaving source cannot
// balloon memory. Bank payloads are a few KB; 4 MB leaves plenty of room.
const maxPayloadBytes = 4 << 20

const userAgent = "currency-tracker/1.0"

// Fetcher issues a single GET and returns the raw body bytes. It serves
// both the API and HTML source strategies: the payload is never
// interpreted here, only bounded and status-checked.
type Fetcher struct {
	http *http.Client
}

func NewFetcher(httpClient *http.Client) *Fetcher {
	return &Fetcher{http: httpClient}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d for %q: %s", resp.StatusCode, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for %q: %w", url, err)
	}
	return body, nil
}

// NewHTTPClient builds the shared base client with a hard per-call timeout
// and a tuned transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
