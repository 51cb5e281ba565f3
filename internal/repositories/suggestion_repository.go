package repositories

import (
	"context"

	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/models"
)

type suggestionRepository struct {
	db *db.DB
}

func NewSuggestionRepository(database *db.DB) SuggestionRepository {
	return &suggestionRepository{db: database}
}

func (r *suggestionRepository) Create(ctx context.Context, s *models.Suggestion) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *suggestionRepository) ListByUser(ctx context.Context, userID string, includeDismissed bool) ([]*models.Suggestion, error) {
	var list []*models.Suggestion
	q := r.db.WithContext(ctx).Model(&models.Suggestion{}).Where("user_id = ?", userID)
	if !includeDismissed {
		q = q.Where("dismissed = ?", false)
	}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Dismiss is scoped to the owning user so one user cannot dismiss another's
// suggestions.
func (r *suggestionRepository) Dismiss(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Model(&models.Suggestion{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("dismissed", true).Error
}

func (r *suggestionRepository) CountActive(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Suggestion{}).
		Where("user_id = ? AND dismissed = ?", userID, false).
		Count(&count).Error
	return count, err
}
