package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/lysyi3m/autonews/app/feed"
)

const (
	MinWidth  = 600
	MinHeight = 600
)

// Image is a downloaded image that passed validation.
type Image struct {
	SourceURL string
	Data      []byte
	MimeType  string
	Width     int
	Height    int
}

type Validator struct {
	fetcher *feed.Fetcher
	timeout time.Duration
}

func NewValidator(fetcher *feed.Fetcher, timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = feed.DefaultFetchTimeout
	}
	return &Validator{fetcher: fetcher, timeout: timeout}
}

// Validate downloads url and checks its type and dimensions. Failures are
// *ImageError.
func (v *Validator) Validate(ctx context.Context, url string) (*Image, error) {
	resp, err := v.fetcher.Fetch(ctx, url, v.timeout)
	if err != nil {
		return nil, &ImageError{URL: url, Reason: "download failed", Err: err}
	}

	contentType := strings.ToLower(resp.ContentType)
	if !strings.Contains(contentType, "image/") {
		return nil, &ImageError{URL: url, Reason: fmt.Sprintf("not an image (%s)", resp.ContentType)}
	}

	config, format, err := image.DecodeConfig(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &ImageError{URL: url, Reason: "unreadable image", Err: err}
	}

	if config.Width < MinWidth || config.Height < MinHeight {
		return nil, &ImageError{URL: url, Reason: fmt.Sprintf("too small (%dx%d)", config.Width, config.Height)}
	}

	return &Image{
		SourceURL: url,
		Data:      resp.Body,
		MimeType:  "image/" + format,
		Width:     config.Width,
		Height:    config.Height,
	}, nil
}
