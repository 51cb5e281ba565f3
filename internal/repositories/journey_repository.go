package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/models"
)

type journeyRepository struct {
	db *db.DB
}

func NewJourneyRepository(database *db.DB) JourneyRepository {
	return &journeyRepository{db: database}
}

func (r *journeyRepository) GetJourney(ctx context.Context, id string) (*models.Journey, error) {
	var j models.Journey
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

func (r *journeyRepository) GetLeg(ctx context.Context, id string) (*models.Leg, error) {
	var l models.Leg
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *journeyRepository) ListJourneysByOwner(ctx context.Context, ownerID string) ([]*models.Journey, error) {
	var list []*models.Journey
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *journeyRepository) ListLegsForJourney(ctx context.Context, journeyID string) ([]*models.Leg, error) {
	var list []*models.Leg
	err := r.db.WithContext(ctx).
		Where("journey_id = ?", journeyID).
		Order("start_date ASC").
		Find(&list).Error
	return list, err
}

func (r *journeyRepository) ListWaypoints(ctx context.Context, legID string) ([]models.Waypoint, error) {
	var list []models.Waypoint
	err := r.db.WithContext(ctx).
		Where("leg_id = ?", legID).
		Order("position ASC").
		Find(&list).Error
	return list, err
}

func (r *journeyRepository) HasRequirements(ctx context.Context, journeyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JourneyRequirement{}).
		Where("journey_id = ?", journeyID).
		Count(&count).Error
	return count > 0, err
}

func (r *journeyRepository) SearchPublishedLegs(ctx context.Context, filter LegSearchFilter) ([]*models.Leg, error) {
	q := r.db.WithContext(ctx).Model(&models.Leg{}).Where("legs.published = ?", true)
	if filter.RiskLevel != "" {
		q = q.Joins("JOIN journeys ON journeys.id = legs.journey_id").
			Where("COALESCE(legs.risk_level, journeys.risk_level) = ?", filter.RiskLevel)
	}
	if len(filter.Skills) > 0 {
		q = q.Where("legs.skills_required && ?", pqArray(filter.Skills))
	}
	if filter.FromDate != nil {
		q = q.Where("legs.start_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("legs.start_date <= ?", *filter.ToDate)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var list []*models.Leg
	err := q.Order("legs.start_date ASC").Limit(limit).Find(&list).Error
	return list, err
}

// SearchLegsInBounds is the server-side containment query against the first
// and last waypoints of each published leg. When the waypoint tables or range
// indexes are unavailable the error surfaces to the caller, which falls back
// to in-process containment.
func (r *journeyRepository) SearchLegsInBounds(ctx context.Context, dep, arr *models.BoundingBox) ([]*models.Leg, error) {
	q := r.db.WithContext(ctx).Model(&models.Leg{}).Where("legs.published = ?", true)

	if dep != nil {
		q = q.Where(`EXISTS (
			SELECT 1 FROM waypoints w
			WHERE w.leg_id = legs.id
			  AND w.position = (SELECT MIN(position) FROM waypoints WHERE leg_id = legs.id)
			  AND w.lng BETWEEN ? AND ? AND w.lat BETWEEN ? AND ?
		)`, dep.MinLng, dep.MaxLng, dep.MinLat, dep.MaxLat)
	}
	if arr != nil {
		q = q.Where(`EXISTS (
			SELECT 1 FROM waypoints w
			WHERE w.leg_id = legs.id
			  AND w.position = (SELECT MAX(position) FROM waypoints WHERE leg_id = legs.id)
			  AND w.lng BETWEEN ? AND ? AND w.lat BETWEEN ? AND ?
		)`, arr.MinLng, arr.MaxLng, arr.MinLat, arr.MaxLat)
	}

	var list []*models.Leg
	err := q.Order("legs.start_date ASC").Find(&list).Error
	return list, err
}

func (r *journeyRepository) ListPublishedLegWaypoints(ctx context.Context) (map[string][]models.Waypoint, error) {
	var legs []*models.Leg
	if err := r.db.WithContext(ctx).Select("id").Where("published = ?", true).Find(&legs).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(legs))
	for _, l := range legs {
		ids = append(ids, l.ID)
	}
	result := make(map[string][]models.Waypoint, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var waypoints []models.Waypoint
	if err := r.db.WithContext(ctx).
		Where("leg_id IN ?", ids).
		Order("leg_id, position ASC").
		Find(&waypoints).Error; err != nil {
		return nil, err
	}
	for _, w := range waypoints {
		result[w.LegID] = append(result[w.LegID], w)
	}
	return result, nil
}
