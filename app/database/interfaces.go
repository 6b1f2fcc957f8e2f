package database

import (
	"context"
)

type PostRepository interface {
	ExistsFingerprint(ctx context.Context, fingerprint string) (bool, error)
	CreatePost(ctx context.Context, record PostRecord) (int64, error)
	SetFeaturedMedia(ctx context.Context, postID, mediaID int64) error
	GetPost(ctx context.Context, id int64) (*Post, error)
	GetPostCount(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	CreateCategory(ctx context.Context, name, slug string) (int64, error)
}

type AuthorRepository interface {
	ListAuthors(ctx context.Context) ([]Author, error)
	AuthorExists(ctx context.Context, id int64) (bool, error)
}

type MediaRepository interface {
	CreateMedia(ctx context.Context, media Media) (int64, error)
	GetMedia(ctx context.Context, id int64) (*Media, error)
}
