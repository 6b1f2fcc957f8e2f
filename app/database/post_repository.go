package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var _ PostRepository = (*PostRepositoryImpl)(nil)

type PostRepositoryImpl struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) ExistsFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	query, args, err := r.db.Builder().
		Select("1").
		From("posts").
		Where(sq.Eq{"fingerprint": fingerprint}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var found int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}

	return true, nil
}

// CreatePost inserts the record and returns its id. A second insert with the
// same fingerprint fails with ErrDuplicateFingerprint.
func (r *PostRepositoryImpl) CreatePost(ctx context.Context, record PostRecord) (int64, error) {
	tags, err := json.Marshal(nonNilTags(record.Tags))
	if err != nil {
		return 0, fmt.Errorf("failed to encode tags: %w", err)
	}

	query, args, err := r.db.Builder().
		Insert("posts").
		Columns("title", "content", "slug", "excerpt", "tags", "category_id", "author_id",
			"status", "publish_at", "fingerprint", "featured_media_id", "source_url", "feed_url").
		Values(record.Title, record.Content, record.Slug, record.Excerpt, string(tags), record.CategoryID, record.AuthorID,
			string(record.Status), record.PublishAt.UTC(), record.Fingerprint, record.FeaturedMediaID, record.SourceURL, record.FeedURL).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateFingerprint
		}
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	return id, nil
}

func (r *PostRepositoryImpl) SetFeaturedMedia(ctx context.Context, postID, mediaID int64) error {
	query, args, err := r.db.Builder().
		Update("posts").
		Set("featured_media_id", mediaID).
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set featured media: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("post %d not found", postID)
	}

	return nil
}

// GetPost returns the post with the given id, or nil when it does not exist.
func (r *PostRepositoryImpl) GetPost(ctx context.Context, id int64) (*Post, error) {
	query, args, err := r.db.Builder().
		Select("id", "title", "content", "slug", "excerpt", "tags", "category_id", "author_id",
			"status", "publish_at", "fingerprint", "featured_media_id", "source_url", "feed_url", "created_at").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		post    Post
		tags    string
		status  string
		mediaID sql.NullInt64
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&post.ID, &post.Title, &post.Content, &post.Slug, &post.Excerpt, &tags, &post.CategoryID, &post.AuthorID,
		&status, &post.PublishAt, &post.Fingerprint, &mediaID, &post.SourceURL, &post.FeedURL, &post.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post.Status = PostStatus(status)
	if mediaID.Valid {
		post.FeaturedMediaID = &mediaID.Int64
	}
	if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetPostCount(ctx context.Context) (int, error) {
	query, args, err := r.db.Builder().Select("COUNT(*)").From("posts").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
