package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodySize  = 20 << 20
)

// Fetcher performs bounded GET requests with the configured User-Agent.
// Bodies larger than maxBodySize are rejected.
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
}

type Response struct {
	Body        []byte
	ContentType string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{httpClient: httpClient, userAgent: userAgent, maxBodySize: DefaultMaxBodySize}
}

func (f *Fetcher) WithMaxBodySize(size int64) *Fetcher {
	f.maxBodySize = size
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("response body exceeds %d bytes", f.maxBodySize)}
	}

	if len(data) == 0 {
		return nil, &EmptyBodyError{URL: url}
	}

	return &Response{Body: data, ContentType: resp.Header.Get("Content-Type")}, nil
}
