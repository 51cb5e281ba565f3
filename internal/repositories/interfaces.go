package repositories

import (
	"context"
	"time"

	"github.com/sailsmart/sailsmart/internal/models"
)

// PendingActionRepository persists assistant-proposed actions. Resolution
// goes through TransitionFromPending so a row can never be resolved twice.
type PendingActionRepository interface {
	Create(ctx context.Context, a *models.PendingAction) error
	GetByID(ctx context.Context, id string) (*models.PendingAction, error)
	ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]*models.PendingAction, error)
	// TransitionFromPending atomically moves a pending row to a terminal
	// status. It reports false when the row was not pending (or missing),
	// without touching it.
	TransitionFromPending(ctx context.Context, id, newStatus string) (bool, error)
	// RevertToPending undoes a claimed transition after a handler failure.
	RevertToPending(ctx context.Context, id string) error
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SuggestionRepository interface {
	Create(ctx context.Context, s *models.Suggestion) error
	ListByUser(ctx context.Context, userID string, includeDismissed bool) ([]*models.Suggestion, error)
	Dismiss(ctx context.Context, id, userID string) error
	CountActive(ctx context.Context, userID string) (int64, error)
}

// LegSearchFilter narrows non-geographic leg searches.
type LegSearchFilter struct {
	Skills    []string
	RiskLevel string
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
}

type JourneyRepository interface {
	GetJourney(ctx context.Context, id string) (*models.Journey, error)
	GetLeg(ctx context.Context, id string) (*models.Leg, error)
	ListJourneysByOwner(ctx context.Context, ownerID string) ([]*models.Journey, error)
	ListLegsForJourney(ctx context.Context, journeyID string) ([]*models.Leg, error)
	ListWaypoints(ctx context.Context, legID string) ([]models.Waypoint, error)
	HasRequirements(ctx context.Context, journeyID string) (bool, error)
	SearchPublishedLegs(ctx context.Context, filter LegSearchFilter) ([]*models.Leg, error)
	// SearchLegsInBounds runs the server-side containment query: published
	// legs whose first waypoint lies in dep and last waypoint lies in arr
	// (either box may be nil). Errors are returned as-is so callers can
	// fall back to in-process containment.
	SearchLegsInBounds(ctx context.Context, dep, arr *models.BoundingBox) ([]*models.Leg, error)
	// ListPublishedLegWaypoints fetches all published legs with their
	// waypoints, for the in-process fallback path.
	ListPublishedLegWaypoints(ctx context.Context) (map[string][]models.Waypoint, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, r *models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Registration, error)
	ListForLeg(ctx context.Context, legID string) ([]*models.Registration, error)
	ExistsForUserAndLeg(ctx context.Context, userID, legID string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// ProfileRepository exposes reads plus a single restricted write path. The
// column allow-list lives at this layer so no caller can reach identifier
// columns.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListCrewProfiles(ctx context.Context, limit int) ([]*models.Profile, error)
	UpdateAllowedField(ctx context.Context, userID, field string, value interface{}) error
}

type BoatRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Boat, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, c *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	AppendMessage(ctx context.Context, m *models.ConversationMessage) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*models.ConversationMessage, error)
}
