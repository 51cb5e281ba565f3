package services

import (
	"context"
	"testing"

	"github.com/sailsmart/sailsmart/internal/assistant"
	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
)

type pendingFixture struct {
	service  PendingActionService
	pending  *mockPendingRepo
	profiles *mockProfileRepo
	journeys *mockJourneyRepo
	regs     *mockRegistrationRepo
}

func newPendingFixture() *pendingFixture {
	journeys := newMockJourneyRepo()
	registrations := newMockRegistrationRepo()
	profiles := newMockProfileRepo()
	pending := newMockPendingRepo()
	suggestions := newMockSuggestionRepo()
	boats := newMockBoatRepo()

	profiles.profiles["u1"] = &models.Profile{UserID: "u1", Roles: []string{"crew"}}

	contexts := NewContextService(profiles, boats, registrations, journeys, pending, suggestions)
	executor := assistant.NewActionExecutor(pending, profiles, registrations, journeys, nil)
	return &pendingFixture{
		service:  NewPendingActionService(pending, profiles, executor, contexts),
		pending:  pending,
		profiles: profiles,
		journeys: journeys,
		regs:     registrations,
	}
}

func (f *pendingFixture) seed(userID string, action models.Action) *models.PendingAction {
	a := &models.PendingAction{
		UserID:     userID,
		ActionType: string(action.Type()),
		Payload:    models.MustMarshalAction(action),
	}
	_ = f.pending.Create(context.Background(), a)
	return a
}

func TestPendingServiceGetEnforcesOwnership(t *testing.T) {
	f := newPendingFixture()
	a := f.seed("u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})

	if _, err := f.service.GetByID(context.Background(), "u1", a.ID); err != nil {
		t.Fatalf("owner read should work: %v", err)
	}
	_, err := f.service.GetByID(context.Background(), "u2", a.ID)
	if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestPendingServiceApproveFlow(t *testing.T) {
	f := newPendingFixture()
	a := f.seed("u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})

	got, err := f.service.Approve(context.Background(), "u1", a.ID, assistant.UserInput{"newValue": "navigation"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != models.ActionStatusApproved {
		t.Errorf("status = %s", got.Status)
	}
	if f.profiles.updates != 1 {
		t.Errorf("expected one profile write, got %d", f.profiles.updates)
	}
}

func TestPendingServiceRejectFlow(t *testing.T) {
	f := newPendingFixture()
	a := f.seed("u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})

	got, err := f.service.Reject(context.Background(), "u1", a.ID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != models.ActionStatusRejected {
		t.Errorf("status = %s", got.Status)
	}
	if f.profiles.updates != 0 {
		t.Error("reject must not write")
	}
}

func TestPendingServiceListClampsLimit(t *testing.T) {
	f := newPendingFixture()
	f.seed("u1", models.UpdateProfileFieldAction{Field: "skills", Reason: "r"})

	got, err := f.service.List(context.Background(), "u1", "", -3, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d actions", len(got))
	}
}
