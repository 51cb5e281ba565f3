package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/models"
)

type pendingActionRepository struct {
	db *db.DB
}

func NewPendingActionRepository(database *db.DB) PendingActionRepository {
	return &pendingActionRepository{db: database}
}

func (r *pendingActionRepository) Create(ctx context.Context, a *models.PendingAction) error {
	a.Status = models.ActionStatusPending
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *pendingActionRepository) GetByID(ctx context.Context, id string) (*models.PendingAction, error) {
	var a models.PendingAction
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *pendingActionRepository) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]*models.PendingAction, error) {
	var list []*models.PendingAction
	q := r.db.WithContext(ctx).Model(&models.PendingAction{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// TransitionFromPending is the single write path out of the pending state.
// The conditional update makes concurrent double-approval impossible: only
// one caller observes RowsAffected == 1.
func (r *pendingActionRepository) TransitionFromPending(ctx context.Context, id, newStatus string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.PendingAction{}).
		Where("id = ? AND status = ?", id, models.ActionStatusPending).
		Updates(map[string]interface{}{
			"status":      newStatus,
			"resolved_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *pendingActionRepository) RevertToPending(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.PendingAction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.ActionStatusPending,
			"resolved_at": nil,
		}).Error
}

func (r *pendingActionRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.PendingAction{}).
		Where("status = ? AND created_at < ?", models.ActionStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":      models.ActionStatusExpired,
			"resolved_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
