package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Feed processing types

type Metadata struct {
	Title           string
	Link            string
	Description     string
	ImageURL        string
	Language        string
	FeedPublishedAt *time.Time
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt *time.Time
	Categories  []string

	Enclosures []Enclosure
	Thumbnails []Thumbnail
}

// Enclosure is an RSS <enclosure> or a Media RSS <media:content> element.
// Width and Height are 0 when the feed does not declare them.
type Enclosure struct {
	URL    string
	Type   string
	Medium string
	Width  int
	Height int
}

type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// Source configuration types

type PolicyKind int

const (
	PolicyAutomatic PolicyKind = iota
	PolicyNone
	PolicyFixed
)

// CategoryPolicy decides how the category of a feed's posts is chosen.
type CategoryPolicy struct {
	Kind       PolicyKind
	CategoryID int64
}

func Automatic() CategoryPolicy { return CategoryPolicy{Kind: PolicyAutomatic} }

func None() CategoryPolicy { return CategoryPolicy{Kind: PolicyNone} }

func Fixed(id int64) CategoryPolicy { return CategoryPolicy{Kind: PolicyFixed, CategoryID: id} }

// ParsePolicy reads the configured policy value: "" for automatic, "none",
// or a positive category id.
func ParsePolicy(value string) (CategoryPolicy, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "auto", "automatic":
		return Automatic(), nil
	case "none":
		return None(), nil
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return CategoryPolicy{}, fmt.Errorf("invalid category policy %q", value)
	}
	return Fixed(id), nil
}

func (p CategoryPolicy) String() string {
	switch p.Kind {
	case PolicyNone:
		return "none"
	case PolicyFixed:
		return strconv.FormatInt(p.CategoryID, 10)
	default:
		return "automatic"
	}
}

func (p *CategoryPolicy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: category policy must be a scalar", node.Line)
	}
	policy, err := ParsePolicy(node.Value)
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

type Source struct {
	Name     string         `yaml:"name"`
	URL      string         `yaml:"url"`
	Category CategoryPolicy `yaml:"category"`
}
