package assistant

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
)

func newTestActionExecutor() (*ActionExecutor, *fakeJourneyRepo, *fakeRegistrationRepo, *fakeProfileRepo, *fakePendingRepo) {
	journeys := newFakeJourneyRepo()
	registrations := newFakeRegistrationRepo()
	profiles := newFakeProfileRepo()
	pending := newFakePendingRepo()
	x := NewActionExecutor(pending, profiles, registrations, journeys, nil)
	return x, journeys, registrations, profiles, pending
}

func seedPending(pending *fakePendingRepo, userID string, action models.Action) *models.PendingAction {
	a := &models.PendingAction{
		UserID:     userID,
		ActionType: string(action.Type()),
		Payload:    models.MustMarshalAction(action),
		Status:     models.ActionStatusPending,
	}
	_ = pending.Create(context.Background(), a)
	return a
}

func TestApproveProfileUpdateRequiresUserInput(t *testing.T) {
	x, _, _, _, pending := newTestActionExecutor()
	a := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "add what you sail with"})

	_, err := x.Approve(context.Background(), a.ID, Actor{UserID: "u1"}, nil)
	if apperrors.CodeOf(err) != apperrors.CodeRequiresUserInput {
		t.Fatalf("expected REQUIRES_USER_INPUT, got %v", err)
	}
	if pending.actions[a.ID].Status != models.ActionStatusPending {
		t.Error("action must stay pending when input is missing")
	}
}

func TestApproveProfileUpdateAppliesValue(t *testing.T) {
	x, _, _, profiles, pending := newTestActionExecutor()
	a := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "round out the profile"})

	got, err := x.Approve(context.Background(), a.ID, Actor{UserID: "u1"}, UserInput{"newValue": "navigation, night watch"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != models.ActionStatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if len(profiles.updates) != 1 {
		t.Fatalf("expected one profile write, got %v", profiles.updates)
	}
	if profiles.updates[0] != "u1:skills=[navigation night watch]" {
		t.Errorf("comma-separated input should split into a list, got %s", profiles.updates[0])
	}
}

func TestApproveIsOwnershipChecked(t *testing.T) {
	x, _, _, _, pending := newTestActionExecutor()
	a := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})

	_, err := x.Approve(context.Background(), a.ID, Actor{UserID: "intruder"}, UserInput{"newValue": "x"})
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestApproveTerminalActionIsInvalidStatus(t *testing.T) {
	x, _, _, _, pending := newTestActionExecutor()
	a := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})
	a.Status = models.ActionStatusRejected

	_, err := x.Approve(context.Background(), a.ID, Actor{UserID: "u1"}, UserInput{"newValue": "x"})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidStatus {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
}

func TestApproveMissingActionIsNotFound(t *testing.T) {
	x, _, _, _, _ := newTestActionExecutor()
	_, err := x.Approve(context.Background(), "nope", Actor{UserID: "u1"}, nil)
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestApproveRegistrationCreatesRow(t *testing.T) {
	x, journeys, registrations, _, pending := newTestActionExecutor()
	_, leg := seedJourney(journeys, true)
	a := seedPending(pending, "u1", models.RegisterForLegAction{LegID: leg.ID, Reason: "good fit"})

	got, err := x.Approve(context.Background(), a.ID, Actor{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != models.ActionStatusApproved {
		t.Errorf("status = %s", got.Status)
	}
	if len(registrations.registrations) != 1 {
		t.Fatalf("expected one registration, got %d", len(registrations.registrations))
	}
	for _, r := range registrations.registrations {
		if r.UserID != "u1" || r.LegID != leg.ID || r.Status != models.RegistrationStatusPending {
			t.Errorf("unexpected registration %+v", r)
		}
	}
}

func TestApproveRegistrationRechecksRequirements(t *testing.T) {
	x, journeys, registrations, _, pending := newTestActionExecutor()
	journey, leg := seedJourney(journeys, true)
	a := seedPending(pending, "u1", models.RegisterForLegAction{LegID: leg.ID, Reason: "good fit"})

	// requirements added after the suggestion was created
	journeys.requirements[journey.ID] = true

	_, err := x.Approve(context.Background(), a.ID, Actor{UserID: "u1"}, nil)
	if err == nil {
		t.Fatal("approval must re-check requirements")
	}
	if pending.actions[a.ID].Status != models.ActionStatusPending {
		t.Error("failed handler must leave the action pending")
	}
	if len(registrations.registrations) != 0 {
		t.Error("no registration may be created")
	}
}

func TestApproveRegistrationDecisionByOwner(t *testing.T) {
	x, journeys, registrations, _, pending := newTestActionExecutor()
	_, leg := seedJourney(journeys, true)
	reg := &models.Registration{ID: "r1", LegID: leg.ID, UserID: "crew-1", Status: models.RegistrationStatusPending}
	registrations.registrations[reg.ID] = reg
	a := seedPending(pending, "owner-1", models.UpdateRegistrationStatusAction{
		RegistrationID: reg.ID, NewStatus: models.RegistrationStatusApproved, Reason: "experienced",
	})

	if _, err := x.Approve(context.Background(), a.ID, Actor{UserID: "owner-1"}, nil); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if reg.Status != models.RegistrationStatusApproved {
		t.Errorf("registration status = %s, want approved", reg.Status)
	}
}

func TestApproveRegistrationDecisionRequiresJourneyOwner(t *testing.T) {
	x, journeys, registrations, _, pending := newTestActionExecutor()
	_, leg := seedJourney(journeys, true)
	reg := &models.Registration{ID: "r1", LegID: leg.ID, UserID: "crew-1", Status: models.RegistrationStatusPending}
	registrations.registrations[reg.ID] = reg
	a := seedPending(pending, "not-the-owner", models.UpdateRegistrationStatusAction{
		RegistrationID: reg.ID, NewStatus: models.RegistrationStatusApproved, Reason: "r",
	})

	_, err := x.Approve(context.Background(), a.ID, Actor{UserID: "not-the-owner"}, nil)
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if pending.actions[a.ID].Status != models.ActionStatusPending {
		t.Error("failed handler must leave the action pending")
	}
}

func TestApproveRegistrationDecisionRejectsBadTransition(t *testing.T) {
	x, journeys, registrations, _, pending := newTestActionExecutor()
	_, leg := seedJourney(journeys, true)
	reg := &models.Registration{ID: "r1", LegID: leg.ID, UserID: "crew-1", Status: models.RegistrationStatusCancelled}
	registrations.registrations[reg.ID] = reg
	a := seedPending(pending, "owner-1", models.UpdateRegistrationStatusAction{
		RegistrationID: reg.ID, NewStatus: models.RegistrationStatusApproved, Reason: "r",
	})

	_, err := x.Approve(context.Background(), a.ID, Actor{UserID: "owner-1"}, nil)
	if apperrors.CodeOf(err) != apperrors.CodeInvalidStatus {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
	if reg.Status != models.RegistrationStatusCancelled {
		t.Error("registration must be untouched")
	}
}

func TestRejectLeavesDataUntouched(t *testing.T) {
	x, journeys, registrations, _, pending := newTestActionExecutor()
	_, leg := seedJourney(journeys, true)
	a := seedPending(pending, "u1", models.RegisterForLegAction{LegID: leg.ID, Reason: "r"})

	got, err := x.Reject(context.Background(), a.ID, Actor{UserID: "u1"})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != models.ActionStatusRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}
	if len(registrations.registrations) != 0 {
		t.Error("reject must not create data")
	}
}

func TestRejectTwiceIsInvalidStatus(t *testing.T) {
	x, _, _, _, pending := newTestActionExecutor()
	a := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})

	if _, err := x.Reject(context.Background(), a.ID, Actor{UserID: "u1"}); err != nil {
		t.Fatalf("first reject: %v", err)
	}
	_, err := x.Reject(context.Background(), a.ID, Actor{UserID: "u1"})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidStatus {
		t.Fatalf("expected INVALID_STATUS on second reject, got %v", err)
	}
}

func TestExpireStale(t *testing.T) {
	x, _, _, _, pending := newTestActionExecutor()
	old := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})
	old.CreatedAt = old.CreatedAt.Add(-8 * 24 * time.Hour)
	fresh := seedPending(pending, "u1", models.UpdateProfileFieldAction{Field: "risk_level", Reason: "r"})

	n := x.ExpireStale(context.Background())
	if n != 1 {
		t.Fatalf("expired %d actions, want 1", n)
	}
	if pending.actions[old.ID].Status != models.ActionStatusExpired {
		t.Error("old action should be expired")
	}
	if pending.actions[fresh.ID].Status != models.ActionStatusPending {
		t.Error("fresh action should stay pending")
	}
}
