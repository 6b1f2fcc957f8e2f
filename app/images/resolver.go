package images

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/autonews/app/feed"
)

const (
	minEnclosureWidth  = 300
	minEnclosureHeight = 200
	minThumbnailSide   = 600
)

var (
	imageExtensionRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)
	sizeSuffixRe     = regexp.MustCompile(`(?i)-\d+x\d+(\.(?:jpg|jpeg|png|gif))`)
)

// Resolver picks the featured image candidate for a feed item.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the first qualifying candidate URL or "". articleHTML is
// the raw page and is only inspected when extraction is enabled.
func (r *Resolver) Resolve(item feed.Item, articleHTML string, extractionEnabled bool) string {
	candidate := r.fromEnclosures(item.Enclosures)
	if candidate == "" {
		candidate = r.fromThumbnails(item.Thumbnails)
	}

	if !extractionEnabled {
		return candidate
	}

	if candidate != "" {
		return LargerVariant(candidate)
	}

	if strings.TrimSpace(articleHTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		slog.Debug("Failed to parse article HTML for images", "link", item.Link, "error", err)
		return ""
	}

	if src := metaImage(doc); src != "" {
		return absoluteURL(item.Link, src)
	}
	if src := jsonLDImage(doc); src != "" {
		return absoluteURL(item.Link, src)
	}
	if src, ok := doc.Find("img[src]").First().Attr("src"); ok {
		return absoluteURL(item.Link, strings.TrimSpace(src))
	}

	return ""
}

// absoluteURL resolves a page reference against the article link. It is
// returned unchanged when either side does not parse.
func absoluteURL(link, ref string) string {
	if ref == "" || link == "" {
		return ref
	}
	base, err := url.Parse(link)
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func (r *Resolver) fromEnclosures(enclosures []feed.Enclosure) string {
	for _, enclosure := range enclosures {
		if enclosure.Medium != "image" {
			continue
		}
		if tooSmall(enclosure.Width, enclosure.Height, minEnclosureWidth, minEnclosureHeight) {
			continue
		}
		return enclosure.URL
	}

	for _, enclosure := range enclosures {
		if enclosure.Medium == "" && imageExtensionRe.MatchString(stripQuery(enclosure.URL)) {
			return enclosure.URL
		}
	}

	return ""
}

func (r *Resolver) fromThumbnails(thumbnails []feed.Thumbnail) string {
	for _, thumbnail := range thumbnails {
		if tooSmall(thumbnail.Width, thumbnail.Height, minThumbnailSide, minThumbnailSide) {
			continue
		}
		return thumbnail.URL
	}
	return ""
}

// tooSmall only judges declared dimensions. Missing ones pass.
func tooSmall(width, height, minWidth, minHeight int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	return width < minWidth || height < minHeight
}

// LargerVariant drops a "-NNNxNNN" size suffix before the file extension.
func LargerVariant(url string) string {
	return sizeSuffixRe.ReplaceAllString(url, "$1")
}

func metaImage(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[name="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
	}
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

func jsonLDImage(doc *goquery.Document) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		found = imageFromLD(data)
		return found == ""
	})
	return found
}

// imageFromLD reads "image" as a string, an array or an ImageObject, looking
// into @graph entries and top-level arrays.
func imageFromLD(data any) string {
	switch v := data.(type) {
	case []any:
		for _, entry := range v {
			if url := imageFromLD(entry); url != "" {
				return url
			}
		}
	case map[string]any:
		if url := imageValue(v["image"]); url != "" {
			return url
		}
		if graph, ok := v["@graph"]; ok {
			return imageFromLD(graph)
		}
	}
	return ""
}

func imageValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) > 0 {
			return imageValue(v[0])
		}
	case map[string]any:
		if url, ok := v["url"].(string); ok {
			return strings.TrimSpace(url)
		}
	}
	return ""
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
