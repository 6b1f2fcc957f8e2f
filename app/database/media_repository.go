package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var _ MediaRepository = (*MediaRepositoryImpl)(nil)

type MediaRepositoryImpl struct {
	db *DB
}

func NewMediaRepository(db *DB) *MediaRepositoryImpl {
	return &MediaRepositoryImpl{db: db}
}

func (r *MediaRepositoryImpl) CreateMedia(ctx context.Context, media Media) (int64, error) {
	query, args, err := r.db.Builder().
		Insert("media").
		Columns("path", "source_url", "mime_type", "width", "height").
		Values(media.Path, media.SourceURL, media.MimeType, media.Width, media.Height).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create media: %w", err)
	}

	return id, nil
}

func (r *MediaRepositoryImpl) GetMedia(ctx context.Context, id int64) (*Media, error) {
	query, args, err := r.db.Builder().
		Select("id", "path", "source_url", "mime_type", "width", "height", "created_at").
		From("media").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var media Media
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&media.ID, &media.Path, &media.SourceURL, &media.MimeType, &media.Width, &media.Height, &media.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}

	return &media, nil
}
