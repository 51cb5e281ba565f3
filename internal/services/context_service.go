package services

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

// ContextService assembles the per-turn user context snapshot. Snapshots are
// cached briefly so a burst of turns does not refetch the same rows.
type ContextService interface {
	BuildUserContext(ctx context.Context, userID string) (*models.UserContext, error)
	Invalidate(userID string)
}

const (
	contextCacheTTL     = 2 * time.Minute
	contextCacheJanitor = 5 * time.Minute
	recentRegistrations = 5
)

type contextService struct {
	profiles      repositories.ProfileRepository
	boats         repositories.BoatRepository
	registrations repositories.RegistrationRepository
	journeys      repositories.JourneyRepository
	pending       repositories.PendingActionRepository
	suggestions   repositories.SuggestionRepository
	cache         *gocache.Cache
}

func NewContextService(
	profiles repositories.ProfileRepository,
	boats repositories.BoatRepository,
	registrations repositories.RegistrationRepository,
	journeys repositories.JourneyRepository,
	pending repositories.PendingActionRepository,
	suggestions repositories.SuggestionRepository,
) ContextService {
	return &contextService{
		profiles:      profiles,
		boats:         boats,
		registrations: registrations,
		journeys:      journeys,
		pending:       pending,
		suggestions:   suggestions,
		cache:         gocache.New(contextCacheTTL, contextCacheJanitor),
	}
}

func (s *contextService) BuildUserContext(ctx context.Context, userID string) (*models.UserContext, error) {
	if cached, ok := s.cache.Get(userID); ok {
		if uc, ok := cached.(*models.UserContext); ok {
			return uc, nil
		}
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc := &models.UserContext{UserID: userID}
	if profile != nil {
		uc.Roles = profile.Roles
		uc.Skills = profile.Skills
		uc.Certifications = profile.Certifications
		uc.RiskLevel = profile.RiskLevel
		uc.SailingPreferences = profile.SailingPreferences
		uc.ExperienceYears = profile.ExperienceYears
		uc.ProfileCompleteness = profile.Completeness()
		if profile.UserDescription != nil {
			uc.UserDescription = *profile.UserDescription
		}
	}

	if profile != nil && profile.HasRole("owner") {
		boats, err := s.boats.ListByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, b := range boats {
			uc.Boats = append(uc.Boats, models.BoatSummary{
				ID:       b.ID,
				Name:     b.Name,
				BoatType: b.BoatType,
				HomePort: b.HomePort,
			})
		}
	}

	regs, err := s.registrations.ListByUser(ctx, userID, recentRegistrations)
	if err != nil {
		return nil, err
	}
	for _, r := range regs {
		summary := models.RegistrationSummary{ID: r.ID, LegID: r.LegID, Status: r.Status}
		if leg, err := s.journeys.GetLeg(ctx, r.LegID); err == nil && leg != nil {
			summary.LegName = leg.Name
		}
		uc.RecentRegistrations = append(uc.RecentRegistrations, summary)
	}

	pendingActions, err := s.pending.ListByUser(ctx, userID, models.ActionStatusPending, 100, 0)
	if err != nil {
		return nil, err
	}
	uc.PendingActionCount = len(pendingActions)

	activeSuggestions, err := s.suggestions.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	uc.SuggestionCount = int(activeSuggestions)

	s.cache.Set(userID, uc, gocache.DefaultExpiration)
	return uc, nil
}

// Invalidate drops the cached snapshot, called after any approved mutation.
func (s *contextService) Invalidate(userID string) {
	s.cache.Delete(userID)
}
