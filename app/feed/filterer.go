package feed

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/lysyi3m/autonews/app/sanitize"
)

const (
	DefaultMaxImages = 4
	DefaultMinChars  = 150
	DefaultMinWords  = 180
)

const (
	ReasonGallery      = "gallery"
	ReasonTooShort     = "too short"
	ReasonInsufficient = "insufficient content"
)

// Candidate is an item that went through the content filters. Content holds
// the cleaned HTML when the item is accepted.
type Candidate struct {
	Content      string
	IsFiltered   bool
	FilterReason string
}

type Filterer struct {
	MaxImages int
	MinChars  int
	MinWords  int
}

func NewFilterer() *Filterer {
	return &Filterer{
		MaxImages: DefaultMaxImages,
		MinChars:  DefaultMinChars,
		MinWords:  DefaultMinWords,
	}
}

// Run applies the gallery, length and word-count filters in order. extracted
// is the page content before cleaning; when cleaning leaves nothing the feed
// description is used instead.
func (f *Filterer) Run(item Item, extracted string) Candidate {
	if images := sanitize.CountImages(extracted); images > f.MaxImages {
		return Candidate{IsFiltered: true, FilterReason: fmt.Sprintf("%s (%d images)", ReasonGallery, images)}
	}

	content := sanitize.Clean(extracted)
	if content == "" {
		content = sanitize.StripTags(cmp.Or(item.Description, item.Content))
	}

	if length := sanitize.TextLength(content); length < f.MinChars {
		return Candidate{IsFiltered: true, FilterReason: fmt.Sprintf("%s (%d characters)", ReasonTooShort, length)}
	}

	if words := sanitize.WordCount(content); words < f.MinWords {
		return Candidate{IsFiltered: true, FilterReason: fmt.Sprintf("%s (%d words)", ReasonInsufficient, words)}
	}

	return Candidate{Content: content}
}

// IsReason reports whether a filter reason starts with the given reason.
func IsReason(filterReason, reason string) bool {
	return strings.HasPrefix(filterReason, reason)
}
