package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var _ CategoryRepository = (*CategoryRepositoryImpl)(nil)

type CategoryRepositoryImpl struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepositoryImpl {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) ListCategories(ctx context.Context) ([]Category, error) {
	query, args, err := r.db.Builder().
		Select("id", "name", "slug").
		From("categories").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// GetCategory returns nil when no category has the given id.
func (r *CategoryRepositoryImpl) GetCategory(ctx context.Context, id int64) (*Category, error) {
	query, args, err := r.db.Builder().
		Select("id", "name", "slug").
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var category Category
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&category.ID, &category.Name, &category.Slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) CreateCategory(ctx context.Context, name, slug string) (int64, error) {
	query, args, err := r.db.Builder().
		Insert("categories").
		Columns("name", "slug").
		Values(name, slug).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	return id, nil
}
