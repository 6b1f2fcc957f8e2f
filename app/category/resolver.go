package category

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/lysyi3m/autonews/app/database"
	"github.com/lysyi3m/autonews/app/feed"
	"github.com/lysyi3m/autonews/app/sanitize"
)

const (
	DefaultThreshold = 80.0
	FallbackID       = int64(1)
)

// Resolver maps a feed's category policy and the model's suggestion to an
// existing category id.
type Resolver struct {
	repo      database.CategoryRepository
	defaultID int64
	threshold float64
	fold      cases.Caser
}

func NewResolver(repo database.CategoryRepository, defaultID int64, threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{
		repo:      repo,
		defaultID: defaultID,
		threshold: threshold,
		fold:      cases.Fold(),
	}
}

// Names lists the category names offered to the model.
func (r *Resolver) Names(ctx context.Context) ([]string, error) {
	categories, err := r.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return names, nil
}

// Default returns the configured default category when it exists, otherwise 1.
func (r *Resolver) Default(ctx context.Context) int64 {
	if r.defaultID <= 0 {
		return FallbackID
	}
	category, err := r.repo.GetCategory(ctx, r.defaultID)
	if err != nil {
		slog.Warn("Failed to look up default category", "id", r.defaultID, "error", err)
		return FallbackID
	}
	if category == nil {
		return FallbackID
	}
	return category.ID
}

func (r *Resolver) Resolve(ctx context.Context, policy feed.CategoryPolicy, suggested string, allowCreate bool) int64 {
	switch policy.Kind {
	case feed.PolicyFixed:
		return policy.CategoryID
	case feed.PolicyNone:
		return r.Default(ctx)
	}

	suggested = strings.TrimSpace(suggested)
	if suggested == "" {
		return r.Default(ctx)
	}

	categories, err := r.repo.ListCategories(ctx)
	if err != nil {
		slog.Warn("Failed to list categories", "error", err)
		return r.Default(ctx)
	}

	if id, ok := r.exactMatch(categories, suggested); ok {
		return id
	}

	if id, score, ok := r.fuzzyMatch(categories, suggested); ok {
		slog.Debug("Category matched by similarity", "suggested", suggested, "id", id, "similarity", score)
		return id
	}

	if allowCreate {
		id, err := r.repo.CreateCategory(ctx, suggested, sanitize.Slugify(suggested))
		if err != nil {
			slog.Warn("Failed to create category", "name", suggested, "error", err)
			return r.Default(ctx)
		}
		slog.Info("Category created", "name", suggested, "id", id)
		return id
	}

	return r.Default(ctx)
}

func (r *Resolver) exactMatch(categories []database.Category, suggested string) (int64, bool) {
	folded := r.fold.String(suggested)
	for _, category := range categories {
		if r.fold.String(strings.TrimSpace(category.Name)) == folded {
			return category.ID, true
		}
	}
	return 0, false
}

func (r *Resolver) fuzzyMatch(categories []database.Category, suggested string) (int64, float64, bool) {
	folded := r.fold.String(suggested)

	var (
		bestID    int64
		bestScore float64
	)
	for _, category := range categories {
		score := Similarity(folded, r.fold.String(strings.TrimSpace(category.Name)))
		if score > bestScore {
			bestID, bestScore = category.ID, score
		}
	}

	if bestScore >= r.threshold {
		return bestID, bestScore, true
	}
	return 0, bestScore, false
}

// Similarity is 100 * (1 - distance / longest length), in runes.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(distance)/float64(longest))
}
