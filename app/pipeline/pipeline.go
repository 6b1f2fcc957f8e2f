package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/autonews/app/category"
	"github.com/lysyi3m/autonews/app/database"
	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/images"
	"github.com/lysyi3m/autonews/app/media"
	"github.com/lysyi3m/autonews/app/notify"
	"github.com/lysyi3m/autonews/app/rewriter"
	"github.com/lysyi3m/autonews/app/sanitize"
)

var _ MediaStore = (*media.Store)(nil)

const defaultAuthorID = int64(1)

// Deps are the collaborators shared by every run. Components that depend on
// per-run configuration are built through the New* functions.
type Deps struct {
	Feeds      FeedFetcher
	Extractor  Extractor
	Validator  ImageValidator
	Media      MediaStore
	Posts      database.PostRepository
	Categories database.CategoryRepository
	Authors    database.AuthorRepository
	Notifier   notify.Notifier

	NewRewriter    func(Config) Rewriter
	NewThumbnailer func(Config) (Thumbnailer, error)

	Now  func() time.Time
	Rand func(n int) int
}

// Pipeline turns feed items into published posts. A run is strictly
// sequential over feeds and items.
type Pipeline struct {
	deps     Deps
	filterer *feed.Filterer
	images   *images.Resolver
}

func New(deps Deps) *Pipeline {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = rand.Intn
	}
	if deps.Notifier == nil {
		deps.Notifier = &notify.LogNotifier{}
	}
	if deps.NewRewriter == nil {
		deps.NewRewriter = DefaultRewriter
	}
	if deps.NewThumbnailer == nil {
		deps.NewThumbnailer = DefaultThumbnailer
	}

	return &Pipeline{
		deps:     deps,
		filterer: feed.NewFilterer(),
		images:   images.NewResolver(),
	}
}

func DefaultRewriter(config Config) Rewriter {
	return rewriter.New(rewriter.Config{
		APIKey:         config.APIKey,
		BaseURL:        config.APIBase,
		Model:          config.Model,
		Temperature:    config.Temperature,
		BasicModels:    config.BasicModels,
		PromptTemplate: config.PromptTemplate,
	})
}

func DefaultThumbnailer(config Config) (Thumbnailer, error) {
	return images.NewThumbnailGenerator(config.Thumbnail)
}

// run holds the state of one invocation.
type run struct {
	config     Config
	log        *RunLog
	rewriter   Rewriter
	thumbnails Thumbnailer
	categories *category.Resolver
	authors    []database.Author
	cursor     time.Time
	published  int
}

// Run processes every source in order and returns the run's event log. The
// returned error is a *ConfigError or the context error; item and feed
// failures are only logged.
func (p *Pipeline) Run(ctx context.Context, sources []feed.Source, config Config, sink LineWriter) (*RunLog, error) {
	runLog := NewRunLog(sink)
	return runLog, p.RunWith(ctx, sources, config, runLog)
}

// RunWith is Run writing into a log owned by the caller, which keeps every
// entry added before a failure.
func (p *Pipeline) RunWith(ctx context.Context, sources []feed.Source, config Config, runLog *RunLog) error {
	runLog.Add("Starting feed processing")

	if err := config.validate(); err != nil {
		return p.abort(ctx, runLog, err)
	}
	if len(sources) == 0 {
		return p.abort(ctx, runLog, &ConfigError{Field: "feed list"})
	}

	r := &run{
		config:     config,
		log:        runLog,
		rewriter:   p.deps.NewRewriter(config),
		categories: category.NewResolver(p.deps.Categories, config.DefaultCategory, config.CategoryThreshold),
		cursor:     p.deps.Now(),
	}

	if config.ThumbnailEnabled {
		thumbnails, err := p.deps.NewThumbnailer(config)
		if err != nil {
			slog.Warn("Thumbnail generator unavailable", "error", err)
			runLog.Add("Thumbnail generator unavailable: %v", err)
		} else {
			r.thumbnails = thumbnails
		}
	}

	authors, err := p.deps.Authors.ListAuthors(ctx)
	if err != nil {
		slog.Warn("Failed to list authors", "error", err)
	}
	r.authors = authors

	for index, source := range sources {
		if err := ctx.Err(); err != nil {
			runLog.Add("Run cancelled")
			return err
		}
		if err := p.processFeed(ctx, r, index, source); err != nil {
			runLog.Add("Run cancelled")
			return err
		}
	}

	runLog.Add("Feed processing finished: %d articles published", r.published)

	slog.Info("Pipeline run completed",
		"feeds", len(sources),
		"published", r.published)

	return nil
}

func (p *Pipeline) abort(ctx context.Context, runLog *RunLog, err error) error {
	runLog.Add("Error: %v", err)
	slog.Error("Pipeline run aborted", "error", err)
	p.notify(ctx, "Configuration error", err.Error())
	return err
}

// processFeed only returns an error when the context is done.
func (p *Pipeline) processFeed(ctx context.Context, r *run, index int, source feed.Source) error {
	r.log.Add("Processing feed %d: %s", index+1, source.URL)

	_, items, err := p.deps.Feeds.Fetch(ctx, source.URL, r.config.FeedTimeout)
	if err != nil {
		r.log.Add("Error fetching feed %s: %v", source.URL, err)
		slog.Warn("Failed to fetch feed", "feed", source.URL, "error", err)
		p.notify(ctx, "Feed error", fmt.Sprintf("Could not read feed %s: %v", source.URL, err))
		return nil
	}

	if len(items) == 0 {
		r.log.Add("Feed %s has no items", source.URL)
		p.notify(ctx, "Empty feed", fmt.Sprintf("Feed %s returned no items", source.URL))
		return nil
	}

	names, err := r.categories.Names(ctx)
	if err != nil {
		slog.Warn("Failed to list categories", "error", err)
	}

	var (
		published  int
		duplicates int
		filtered   int
	)

	for _, item := range items {
		if published >= r.config.ItemsPerFeed {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome := p.processItem(ctx, r, source, item, names)
		switch outcome {
		case outcomePublished:
			published++
		case outcomeDuplicate:
			duplicates++
		case outcomeFiltered:
			filtered++
		}
	}

	r.published += published

	slog.Info("Feed processed",
		"feed", source.URL,
		"items", len(items),
		"published", published,
		"duplicates", duplicates,
		"filtered", filtered)

	return nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeDuplicate
	outcomeFiltered
	outcomePublished
)

func (p *Pipeline) processItem(ctx context.Context, r *run, source feed.Source, item feed.Item, names []string) outcome {
	if item.Link == "" {
		r.log.Add("Skipping item without link: %s", item.Title)
		return outcomeSkipped
	}

	fingerprint := feed.Fingerprint(item.Link)

	exists, err := p.deps.Posts.ExistsFingerprint(ctx, fingerprint)
	if err != nil {
		r.log.Add("Error checking duplicate for %s: %v", item.Link, err)
		return outcomeSkipped
	}
	if exists {
		r.log.Add("Skipping duplicate: %s", item.Title)
		return outcomeDuplicate
	}

	extracted, pageHTML := p.extract(ctx, r, item)

	candidate := p.filterer.Run(item, extracted)
	if candidate.IsFiltered {
		r.log.Add("Skipping %s: %s", candidate.FilterReason, item.Title)
		return outcomeFiltered
	}

	result, err := r.rewriter.Rewrite(ctx, item.Title, candidate.Content, r.config.Language, names)
	if err != nil {
		p.rewriteFailed(ctx, r, item, err)
		return outcomeSkipped
	}
	if result == nil {
		return outcomeSkipped
	}

	record := p.buildRecord(ctx, r, source, item, result, fingerprint)

	postID, err := p.deps.Posts.CreatePost(ctx, record)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateFingerprint) {
			r.log.Add("Skipping duplicate: %s", item.Title)
			return outcomeDuplicate
		}
		publishErr := &PublishError{Link: item.Link, Err: err}
		r.log.Add("Error: %v", publishErr)
		slog.Error("Failed to publish post", "link", item.Link, "error", err)
		p.notify(ctx, "Publish error", publishErr.Error())
		return outcomeSkipped
	}

	if record.Status == database.StatusScheduled {
		r.cursor = record.PublishAt
	}

	// the post exists before any media is stored for it
	if mediaID := p.featuredImage(ctx, r, item, pageHTML, record.Title); mediaID != nil {
		if err := p.deps.Posts.SetFeaturedMedia(ctx, postID, *mediaID); err != nil {
			r.log.Add("Error attaching image to %s: %v", record.Title, err)
			slog.Warn("Failed to attach featured image", "post", postID, "media", *mediaID, "error", err)
		}
	}

	if record.Status == database.StatusScheduled {
		r.log.Add("Scheduled: %s (%s)", record.Title, record.PublishAt.Format("2006-01-02 15:04"))
	} else {
		r.log.Add("Published: %s", record.Title)
	}

	return outcomePublished
}

// extract returns the content to filter and the raw page for image lookup.
// Any extraction failure falls back to the feed's own text.
func (p *Pipeline) extract(ctx context.Context, r *run, item feed.Item) (string, string) {
	fallback := cmp.Or(item.Content, item.Description)

	extraction, err := p.deps.Extractor.Extract(ctx, item.Link)
	if err != nil {
		slog.Debug("Content extraction failed, using feed text", "link", item.Link, "error", err)
		r.log.Add("Extraction failed for %s, using feed description: %v", item.Link, err)
		if subject := extractionAlert(err); subject != "" {
			p.notify(ctx, subject, fmt.Sprintf("Could not read article %s: %v", item.Link, err))
		}
		return fallback, ""
	}

	return cmp.Or(extraction.Content, fallback), extraction.RawHTML
}

func extractionAlert(err error) string {
	var (
		fetchErr *feed.FetchError
		emptyErr *feed.EmptyBodyError
		parseErr *feed.ParseError
	)
	switch {
	case errors.As(err, &fetchErr):
		return "Article fetch error"
	case errors.As(err, &emptyErr):
		return "Empty article"
	case errors.As(err, &parseErr):
		return "Article parse error"
	}
	return ""
}

func (p *Pipeline) rewriteFailed(ctx context.Context, r *run, item feed.Item, err error) {
	slog.Warn("Rewrite failed", "link", item.Link, "error", err)

	var (
		apiErr    *rewriter.APIError
		decodeErr *rewriter.JSONDecodeError
	)
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case rewriter.KindRateLimit:
			r.log.Add("Error: generative API rate limit reached while rewriting %s", item.Title)
			p.notify(ctx, "API rate limit", apiErr.Error())
		case rewriter.KindAuth:
			r.log.Add("Error: generative API rejected the API key")
			p.notify(ctx, "API authentication error", apiErr.Error())
		default:
			r.log.Add("Error rewriting %s: %v", item.Title, apiErr)
			p.notify(ctx, "API error", apiErr.Error())
		}
	case errors.As(err, &decodeErr):
		r.log.Add("Error: invalid JSON from generative API for %s", item.Title)
		p.notify(ctx, "Invalid API response", fmt.Sprintf("%v\n\n%s", decodeErr.Err, decodeErr.Raw))
	default:
		r.log.Add("Error rewriting %s: %v", item.Title, err)
	}
}

func (p *Pipeline) buildRecord(ctx context.Context, r *run, source feed.Source, item feed.Item, result *rewriter.Result, fingerprint string) database.PostRecord {
	title := sanitize.UpperFirst(sanitize.Text(result.Title))

	slug := sanitize.Slugify(result.Slug)
	if slug == "" {
		slug = sanitize.Slugify(title)
	}

	record := database.PostRecord{
		Title:       title,
		Content:     sanitize.PostProcess(result.Content),
		Slug:        slug,
		Excerpt:     sanitize.Text(result.Excerpt),
		Tags:        []string{},
		CategoryID:  r.categories.Resolve(ctx, source.Category, result.Category, r.config.AllowCategoryCreate),
		AuthorID:    p.author(r),
		Fingerprint: fingerprint,
		SourceURL:   item.Link,
		FeedURL:     source.URL,
	}

	if r.config.EnableTags {
		for _, tag := range result.Tags {
			if tag = sanitize.Text(tag); tag != "" {
				record.Tags = append(record.Tags, tag)
			}
		}
	}

	// the cursor itself only moves once the insert succeeds
	if r.config.PublishDelay > 0 {
		record.PublishAt = r.cursor.Add(r.config.PublishDelay)
		record.Status = database.StatusScheduled
	} else {
		record.PublishAt = p.deps.Now()
		record.Status = database.StatusPublished
	}

	return record
}

// author picks the configured author id when it exists, a random author for
// "random", and the default author otherwise.
func (p *Pipeline) author(r *run) int64 {
	if strings.EqualFold(r.config.DefaultAuthor, RandomAuthor) {
		if len(r.authors) == 0 {
			return defaultAuthorID
		}
		return r.authors[p.deps.Rand(len(r.authors))].ID
	}

	id, err := strconv.ParseInt(r.config.DefaultAuthor, 10, 64)
	if err != nil {
		return defaultAuthorID
	}
	for _, author := range r.authors {
		if author.ID == id {
			return id
		}
	}
	return defaultAuthorID
}

// featuredImage stores the first valid candidate, or a generated cover when
// none qualifies. Failures leave the post without an image.
func (p *Pipeline) featuredImage(ctx context.Context, r *run, item feed.Item, pageHTML, title string) *int64 {
	if candidate := p.images.Resolve(item, pageHTML, r.config.ExtractImages); candidate != "" {
		img, err := p.deps.Validator.Validate(ctx, candidate)
		if err == nil {
			id, err := p.deps.Media.Save(ctx, img)
			if err == nil {
				r.log.Add("Featured image set from %s", candidate)
				return &id
			}
			r.log.Add("Error saving image %s: %v", candidate, err)
		} else {
			r.log.Add("Image discarded: %v", err)
		}
	}

	if r.thumbnails == nil {
		return nil
	}

	path, err := r.thumbnails.Generate(title)
	if err != nil {
		r.log.Add("Error generating thumbnail: %v", err)
		return nil
	}
	defer os.Remove(path)

	id, err := p.deps.Media.SaveFile(ctx, path)
	if err != nil {
		r.log.Add("Error saving thumbnail: %v", err)
		return nil
	}

	r.log.Add("Generated thumbnail for %s", title)
	return &id
}

func (p *Pipeline) notify(ctx context.Context, subject, message string) {
	if err := p.deps.Notifier.Notify(ctx, subject, message); err != nil {
		slog.Warn("Failed to send admin alert", "subject", subject, "error", err)
	}
}
