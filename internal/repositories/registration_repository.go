package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/models"
)

// pqArray adapts a string slice for Postgres array parameters.
func pqArray(s []string) interface{} { return pq.Array(s) }

type registrationRepository struct {
	db *db.DB
}

func NewRegistrationRepository(database *db.DB) RegistrationRepository {
	return &registrationRepository{db: database}
}

func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.Status == "" {
		reg.Status = models.RegistrationStatusPending
	}
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Registration, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []*models.Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *registrationRepository) ListForLeg(ctx context.Context, legID string) ([]*models.Registration, error) {
	var list []*models.Registration
	err := r.db.WithContext(ctx).
		Where("leg_id = ?", legID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *registrationRepository) ExistsForUserAndLeg(ctx context.Context, userID, legID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("user_id = ? AND leg_id = ? AND status != ?", userID, legID, models.RegistrationStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
