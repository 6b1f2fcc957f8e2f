package database

import (
	"time"
)

type PostStatus string

const (
	StatusPublished PostStatus = "published"
	StatusScheduled PostStatus = "scheduled"
)

type Author struct {
	ID   int64
	Name string
}

type Category struct {
	ID   int64
	Name string
	Slug string
}

type Media struct {
	ID        int64
	Path      string
	SourceURL string
	MimeType  string
	Width     int
	Height    int
	CreatedAt time.Time
}

// PostRecord is the publishable article. It is inserted once and never
// updated.
type PostRecord struct {
	Title           string
	Content         string
	Slug            string
	Excerpt         string
	Tags            []string
	CategoryID      int64
	AuthorID        int64
	Status          PostStatus
	PublishAt       time.Time
	Fingerprint     string
	FeaturedMediaID *int64
	SourceURL       string
	FeedURL         string
}

type Post struct {
	ID int64
	PostRecord
	CreatedAt time.Time
}
