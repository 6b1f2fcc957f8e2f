package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var _ AuthorRepository = (*AuthorRepositoryImpl)(nil)

type AuthorRepositoryImpl struct {
	db *DB
}

func NewAuthorRepository(db *DB) *AuthorRepositoryImpl {
	return &AuthorRepositoryImpl{db: db}
}

func (r *AuthorRepositoryImpl) ListAuthors(ctx context.Context) ([]Author, error) {
	query, args, err := r.db.Builder().
		Select("id", "name").
		From("authors").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var author Author
		if err := rows.Scan(&author.ID, &author.Name); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

func (r *AuthorRepositoryImpl) AuthorExists(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.db.Builder().
		Select("1").
		From("authors").
		Where(sq.Eq{"id": id}).
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
		return false, fmt.Errorf("failed to check author: %w", err)
	}

	return true, nil
}
