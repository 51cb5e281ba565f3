package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sailsmart/sailsmart/internal/db"
	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
)

type profileRepository struct {
	db *db.DB
}

func NewProfileRepository(database *db.DB) ProfileRepository {
	return &profileRepository{db: database}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) ListCrewProfiles(ctx context.Context, limit int) ([]*models.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []*models.Profile
	err := r.db.WithContext(ctx).
		Where("? = ANY(roles)", "crew").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// UpdateAllowedField writes a single profile column. The allow-list check is
// enforced here, not only in callers: identifier columns are unreachable
// through this repository no matter what the assistant layer asks for.
func (r *profileRepository) UpdateAllowedField(ctx context.Context, userID, field string, value interface{}) error {
	if _, ok := models.AIWritableProfileFields[field]; !ok {
		return apperrors.New(apperrors.CodeInvalidValue, "field %q is not writable through the assistant", field)
	}
	if s, ok := value.([]string); ok {
		value = pqArray(s)
	}
	return r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update(field, value).Error
}
