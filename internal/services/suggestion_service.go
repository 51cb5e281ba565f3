package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sailsmart/sailsmart/internal/assistant"
	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

// SuggestionService generates and serves non-binding recommendations. A
// suggestion never mutates data; acting on one goes through the pending
// action flow.
type SuggestionService interface {
	GenerateForUser(ctx context.Context, userID string) ([]*models.Suggestion, error)
	List(ctx context.Context, userID string, includeDismissed bool) ([]*models.Suggestion, error)
	Dismiss(ctx context.Context, userID, id string) error
}

// minMatchScore is the floor below which a leg match is not worth surfacing.
const minMatchScore = 0.6

const maxGeneratedSuggestions = 5

type suggestionService struct {
	suggestions repositories.SuggestionRepository
	journeys    repositories.JourneyRepository
	profiles    repositories.ProfileRepository
	logger      *zap.Logger
}

func NewSuggestionService(
	suggestions repositories.SuggestionRepository,
	journeys repositories.JourneyRepository,
	profiles repositories.ProfileRepository,
	logger *zap.Logger,
) SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &suggestionService{
		suggestions: suggestions,
		journeys:    journeys,
		profiles:    profiles,
		logger:      logger,
	}
}

// GenerateForUser scores the user's profile against published legs and
// records the strong matches, plus profile-gap nudges when the profile is
// thin.
func (s *suggestionService) GenerateForUser(ctx context.Context, userID string) ([]*models.Suggestion, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load profile")
	}
	if profile == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "profile not found")
	}

	var created []*models.Suggestion

	legs, err := s.journeys.SearchPublishedLegs(ctx, repositories.LegSearchFilter{Limit: 50})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load legs")
	}
	for _, leg := range legs {
		if len(created) >= maxGeneratedSuggestions {
			break
		}
		journey, err := s.journeys.GetJourney(ctx, leg.JourneyID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load journey")
		}
		if journey != nil && journey.OwnerID == userID {
			continue
		}
		hasReqs, err := s.journeys.HasRequirements(ctx, leg.JourneyID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not check requirements")
		}
		view := models.NewLegView(leg, journey, nil, hasReqs)
		breakdown := assistant.ScoreMatch(profile, view)
		if breakdown.Score < minMatchScore {
			continue
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"legId":     leg.ID,
			"journeyId": leg.JourneyID,
			"breakdown": breakdown,
		})
		suggestion := &models.Suggestion{
			UserID:         userID,
			SuggestionType: models.SuggestionTypeLegMatch,
			Title:          fmt.Sprintf("%s looks like a good fit", leg.Name),
			Description:    matchDescription(leg, breakdown),
			Metadata:       metadata,
		}
		if err := s.suggestions.Create(ctx, suggestion); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not store suggestion")
		}
		created = append(created, suggestion)
	}

	if gap := profileGapSuggestion(profile, userID); gap != nil {
		if err := s.suggestions.Create(ctx, gap); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not store suggestion")
		}
		created = append(created, gap)
	}

	s.logger.Info("generated suggestions",
		zap.String("user_id", userID),
		zap.Int("count", len(created)))
	return created, nil
}

func matchDescription(leg *models.Leg, breakdown assistant.MatchBreakdown) string {
	if len(breakdown.MissingSkills) == 0 {
		return fmt.Sprintf("Your profile matches %.0f%% of what %s asks for.", breakdown.Score*100, leg.Name)
	}
	return fmt.Sprintf("Your profile matches %.0f%% of what %s asks for; adding %v would close the gap.",
		breakdown.Score*100, leg.Name, breakdown.MissingSkills)
}

// profileGapSuggestion nudges on the weakest missing profile field, one per
// generation run.
func profileGapSuggestion(profile *models.Profile, userID string) *models.Suggestion {
	var field, title, description string
	switch {
	case len(profile.Skills) == 0:
		field, title = "skills", "Add your sailing skills"
		description = "Owners filter crew by skill; even a short list makes you visible in searches."
	case profile.UserDescription == nil || *profile.UserDescription == "":
		field, title = "user_description", "Write a short description"
		description = "A couple of sentences about how and where you sail helps owners pick you."
	case len(profile.Certifications) == 0:
		field, title = "certifications", "List your certifications"
		description = "Certifications unlock legs with formal requirements."
	case profile.RiskLevel == nil || *profile.RiskLevel == "":
		field, title = "risk_level", "Set your comfort level"
		description = "Stating the conditions you are comfortable in improves your leg matches."
	default:
		return nil
	}

	metadata, _ := json.Marshal(map[string]string{"field": field})
	return &models.Suggestion{
		UserID:         userID,
		SuggestionType: models.SuggestionTypeProfileField,
		Title:          title,
		Description:    description,
		Metadata:       metadata,
	}
}

func (s *suggestionService) List(ctx context.Context, userID string, includeDismissed bool) ([]*models.Suggestion, error) {
	return s.suggestions.ListByUser(ctx, userID, includeDismissed)
}

func (s *suggestionService) Dismiss(ctx context.Context, userID, id string) error {
	return s.suggestions.Dismiss(ctx, id, userID)
}
