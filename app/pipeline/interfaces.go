package pipeline

import (
	"context"
	"time"

	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/images"
	"github.com/lysyi3m/autonews/app/rewriter"
)

type FeedFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*feed.Metadata, []feed.Item, error)
}

type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*feed.Extraction, error)
}

type Rewriter interface {
	Rewrite(ctx context.Context, title, content, language string, categoryNames []string) (*rewriter.Result, error)
}

type ImageValidator interface {
	Validate(ctx context.Context, url string) (*images.Image, error)
}

type Thumbnailer interface {
	Generate(title string) (string, error)
}

type MediaStore interface {
	Save(ctx context.Context, img *images.Image) (int64, error)
	SaveFile(ctx context.Context, path string) (int64, error)
}

var (
	_ FeedFetcher    = (*feed.Parser)(nil)
	_ Extractor      = (*feed.ContentExtractor)(nil)
	_ Rewriter       = (*rewriter.Rewriter)(nil)
	_ ImageValidator = (*images.Validator)(nil)
	_ Thumbnailer    = (*images.ThumbnailGenerator)(nil)
)
