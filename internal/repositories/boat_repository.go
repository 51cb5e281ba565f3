package repositories

import (
	"context"

	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/models"
)

type boatRepository struct {
	db *db.DB
}

func NewBoatRepository(database *db.DB) BoatRepository {
	return &boatRepository{db: database}
}

func (r *boatRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Boat, error) {
	var list []*models.Boat
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
