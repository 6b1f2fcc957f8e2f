package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// Extraction is the fetched article page and its readable content.
type Extraction struct {
	RawHTML string
	Content string
	Title   string
}

type ContentExtractor struct {
	fetcher *Fetcher
	timeout time.Duration
}

func NewContentExtractor(fetcher *Fetcher, timeout time.Duration) *ContentExtractor {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &ContentExtractor{fetcher: fetcher, timeout: timeout}
}

// Extract fetches pageURL and runs readability on the page. Errors are
// *FetchError, *EmptyBodyError or *ParseError.
func (e *ContentExtractor) Extract(ctx context.Context, pageURL string) (*Extraction, error) {
	resp, err := e.fetcher.Fetch(ctx, pageURL, e.timeout)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)

	content, title, err := e.extract(resp.Body, base)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	return &Extraction{
		RawHTML: string(resp.Body),
		Content: content,
		Title:   title,
	}, nil
}

// Run extracts the readable content from an HTML document.
func (e *ContentExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	content, _, err := e.extract(data, nil)
	return content, err
}

func (e *ContentExtractor) extract(data []byte, base *url.URL) (string, string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), base)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract content: %w", err)
	}

	if strings.TrimSpace(article.Content) == "" {
		return "", "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(article.Content))

	return article.Content, article.Title, nil
}
