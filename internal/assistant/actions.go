package assistant

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

// expiryWindow is how long a pending action stays approvable.
const expiryWindow = 7 * 24 * time.Hour

// UserInput carries the values the user supplies at approval time, such as
// the new value for a profile-field update.
type UserInput map[string]interface{}

func (u UserInput) stringValue(key string) string {
	if u == nil {
		return ""
	}
	if s, ok := u[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// ActionExecutor applies approved pending actions. It is the only path from
// an assistant suggestion to a data mutation.
type ActionExecutor struct {
	pending       repositories.PendingActionRepository
	profiles      repositories.ProfileRepository
	registrations repositories.RegistrationRepository
	journeys      repositories.JourneyRepository
	logger        *zap.Logger
}

func NewActionExecutor(
	pending repositories.PendingActionRepository,
	profiles repositories.ProfileRepository,
	registrations repositories.RegistrationRepository,
	journeys repositories.JourneyRepository,
	logger *zap.Logger,
) *ActionExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionExecutor{
		pending:       pending,
		profiles:      profiles,
		registrations: registrations,
		journeys:      journeys,
		logger:        logger,
	}
}

// loadOwned fetches the action and verifies ownership and pending status.
func (x *ActionExecutor) loadOwned(ctx context.Context, actionID string, actor Actor) (*models.PendingAction, error) {
	action, err := x.pending.GetByID(ctx, actionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load action")
	}
	if action == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "action %s not found", actionID)
	}
	if action.UserID != actor.UserID {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "action belongs to another user")
	}
	if action.Terminal() {
		return nil, apperrors.New(apperrors.CodeInvalidStatus, "action is already %s", action.Status)
	}
	return action, nil
}

// Approve applies a pending action. The atomic pending->approved transition
// claims the row first, so a concurrent second approval observes
// INVALID_STATUS instead of running the handler twice. If the handler fails
// the claim is reverted and the row stays pending.
func (x *ActionExecutor) Approve(ctx context.Context, actionID string, actor Actor, input UserInput) (*models.PendingAction, error) {
	action, err := x.loadOwned(ctx, actionID, actor)
	if err != nil {
		return nil, err
	}

	parsed, err := models.ParseAction(action.ActionType, action.Payload)
	if err != nil {
		return nil, err
	}

	// validate user input before claiming so REQUIRES_USER_INPUT leaves the
	// row untouched
	if err := x.validateInput(parsed, input); err != nil {
		return nil, err
	}

	claimed, err := x.pending.TransitionFromPending(ctx, actionID, models.ActionStatusApproved)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not update action status")
	}
	if !claimed {
		return nil, apperrors.New(apperrors.CodeInvalidStatus, "action is no longer pending")
	}

	if err := x.apply(ctx, parsed, actor, input); err != nil {
		if revertErr := x.pending.RevertToPending(ctx, actionID); revertErr != nil {
			x.logger.Error("could not revert claimed action after handler failure",
				zap.String("action_id", actionID), zap.Error(revertErr))
		}
		return nil, err
	}

	return x.pending.GetByID(ctx, actionID)
}

// Reject marks a pending action rejected. No handler runs; the only write is
// the status change.
func (x *ActionExecutor) Reject(ctx context.Context, actionID string, actor Actor) (*models.PendingAction, error) {
	if _, err := x.loadOwned(ctx, actionID, actor); err != nil {
		return nil, err
	}
	ok, err := x.pending.TransitionFromPending(ctx, actionID, models.ActionStatusRejected)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not update action status")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeInvalidStatus, "action is no longer pending")
	}
	return x.pending.GetByID(ctx, actionID)
}

// ExpireStale marks pending actions older than the expiry window as expired.
// Best effort: failures are logged, not escalated.
func (x *ActionExecutor) ExpireStale(ctx context.Context) int64 {
	n, err := x.pending.ExpireOlderThan(ctx, time.Now().Add(-expiryWindow))
	if err != nil {
		x.logger.Warn("pending action expiry sweep failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		x.logger.Info("expired stale pending actions", zap.Int64("count", n))
	}
	return n
}

func (x *ActionExecutor) validateInput(action models.Action, input UserInput) error {
	if _, ok := action.(models.UpdateProfileFieldAction); ok {
		if input.stringValue("newValue") == "" {
			return apperrors.New(apperrors.CodeRequiresUserInput,
				"a new value is required to approve this profile change")
		}
	}
	return nil
}

func (x *ActionExecutor) apply(ctx context.Context, action models.Action, actor Actor, input UserInput) error {
	switch a := action.(type) {
	case models.UpdateProfileFieldAction:
		return x.applyProfileUpdate(ctx, a, actor, input)
	case models.RegisterForLegAction:
		return x.applyRegistration(ctx, a, actor)
	case models.UpdateRegistrationStatusAction:
		return x.applyRegistrationDecision(ctx, a, actor)
	default:
		return apperrors.New(apperrors.CodeUnknownAction, "unknown action type %s", action.Type())
	}
}

// multiValueFields take a comma-separated user value and store a list.
var multiValueFields = map[string]struct{}{
	"skills":              {},
	"certifications":      {},
	"sailing_preferences": {},
}

func (x *ActionExecutor) applyProfileUpdate(ctx context.Context, a models.UpdateProfileFieldAction, actor Actor, input UserInput) error {
	newValue := input.stringValue("newValue")
	if newValue == "" {
		return apperrors.New(apperrors.CodeRequiresUserInput,
			"a new value is required to approve this profile change")
	}

	var value interface{} = newValue
	if _, multi := multiValueFields[a.Field]; multi {
		parts := strings.Split(newValue, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		value = list
	}

	if err := x.profiles.UpdateAllowedField(ctx, actor.UserID, a.Field, value); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeInvalidValue {
			return err
		}
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not update profile")
	}
	return nil
}

func (x *ActionExecutor) applyRegistration(ctx context.Context, a models.RegisterForLegAction, actor Actor) error {
	leg, err := x.journeys.GetLeg(ctx, a.LegID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load leg")
	}
	if leg == nil {
		return apperrors.New(apperrors.CodeNotFound, "leg %s not found", a.LegID)
	}

	// re-checked at approval time: requirements may have been added since
	// the suggestion was created
	hasReqs, err := x.journeys.HasRequirements(ctx, leg.JourneyID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not check journey requirements")
	}
	if hasReqs {
		return apperrors.New(apperrors.CodeInvalidValue,
			"this journey has qualification questions that must be answered on the leg page; please register through the registration form")
	}

	exists, err := x.registrations.ExistsForUserAndLeg(ctx, actor.UserID, a.LegID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not check existing registrations")
	}
	if exists {
		return apperrors.New(apperrors.CodeInvalidValue, "you already have a registration for this leg")
	}

	reason := a.Reason
	return x.registrations.Create(ctx, &models.Registration{
		LegID:   a.LegID,
		UserID:  actor.UserID,
		Status:  models.RegistrationStatusPending,
		Message: &reason,
	})
}

func (x *ActionExecutor) applyRegistrationDecision(ctx context.Context, a models.UpdateRegistrationStatusAction, actor Actor) error {
	reg, err := x.registrations.GetByID(ctx, a.RegistrationID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load registration")
	}
	if reg == nil {
		return apperrors.New(apperrors.CodeNotFound, "registration %s not found", a.RegistrationID)
	}

	leg, err := x.journeys.GetLeg(ctx, reg.LegID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load leg")
	}
	if leg == nil {
		return apperrors.New(apperrors.CodeNotFound, "leg %s not found", reg.LegID)
	}
	journey, err := x.journeys.GetJourney(ctx, leg.JourneyID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load journey")
	}
	if journey == nil || journey.OwnerID != actor.UserID {
		return apperrors.New(apperrors.CodeUnauthorized, "you do not own this registration's leg")
	}

	if !models.ValidRegistrationTransition(reg.Status, a.NewStatus) {
		return apperrors.New(apperrors.CodeInvalidStatus,
			"registration is %s and cannot become %s", reg.Status, a.NewStatus)
	}

	if err := x.registrations.UpdateStatus(ctx, reg.ID, a.NewStatus); err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not update registration")
	}
	return nil
}
