package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	fetcher      *Fetcher
}

func NewParser(fetcher *Fetcher) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		fetcher:      fetcher,
	}
}

// Fetch downloads and parses the feed at url.
func (p *Parser) Fetch(ctx context.Context, url string, timeout time.Duration) (*Metadata, []Item, error) {
	resp, err := p.fetcher.Fetch(ctx, url, timeout)
	if err != nil {
		return nil, nil, err
	}

	metadata, items, err := p.Run(resp.Body)
	if err != nil {
		return nil, nil, &ParseError{URL: url, Err: err}
	}

	return metadata, items, nil
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	if feed.PublishedParsed != nil {
		metadata.FeedPublishedAt = feed.PublishedParsed
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		GUID:        cmp.Or(item.GUID, item.Link),
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
		PublishedAt: item.PublishedParsed,
		Categories:  item.Categories,
	}

	media := item.Extensions["media"]
	normalized.Enclosures = p.mediaContents(media)
	normalized.Thumbnails = p.mediaThumbnails(media)

	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" || hasEnclosure(normalized.Enclosures, enclosure.URL) {
			continue
		}
		normalized.Enclosures = append(normalized.Enclosures, Enclosure{
			URL:  enclosure.URL,
			Type: enclosure.Type,
		})
	}

	return normalized
}

// mediaContents collects media:content elements, including those nested in
// media:group.
func (p *Parser) mediaContents(media map[string][]ext.Extension) []Enclosure {
	var enclosures []Enclosure

	elements := append([]ext.Extension{}, media["content"]...)
	for _, group := range media["group"] {
		elements = append(elements, group.Children["content"]...)
	}

	for _, element := range elements {
		url := strings.TrimSpace(element.Attrs["url"])
		if url == "" || hasEnclosure(enclosures, url) {
			continue
		}
		enclosures = append(enclosures, Enclosure{
			URL:    url,
			Type:   element.Attrs["type"],
			Medium: strings.ToLower(strings.TrimSpace(element.Attrs["medium"])),
			Width:  atoi(element.Attrs["width"]),
			Height: atoi(element.Attrs["height"]),
		})
	}

	return enclosures
}

func (p *Parser) mediaThumbnails(media map[string][]ext.Extension) []Thumbnail {
	var thumbnails []Thumbnail

	elements := append([]ext.Extension{}, media["thumbnail"]...)
	for _, group := range media["group"] {
		elements = append(elements, group.Children["thumbnail"]...)
	}
	for _, content := range media["content"] {
		elements = append(elements, content.Children["thumbnail"]...)
	}

	for _, element := range elements {
		url := strings.TrimSpace(element.Attrs["url"])
		if url == "" {
			continue
		}
		thumbnails = append(thumbnails, Thumbnail{
			URL:    url,
			Width:  atoi(element.Attrs["width"]),
			Height: atoi(element.Attrs["height"]),
		})
	}

	return thumbnails
}

func hasEnclosure(enclosures []Enclosure, url string) bool {
	for _, enclosure := range enclosures {
		if enclosure.URL == url {
			return true
		}
	}
	return false
}

func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
