package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

type fakeJourneyRepo struct {
	journeys     map[string]*models.Journey
	legs         map[string]*models.Leg
	waypoints    map[string][]models.Waypoint
	requirements map[string]bool
	boundsErr    error
	boundsLegs   []*models.Leg
}

func newFakeJourneyRepo() *fakeJourneyRepo {
	return &fakeJourneyRepo{
		journeys:     map[string]*models.Journey{},
		legs:         map[string]*models.Leg{},
		waypoints:    map[string][]models.Waypoint{},
		requirements: map[string]bool{},
	}
}

func (f *fakeJourneyRepo) GetJourney(_ context.Context, id string) (*models.Journey, error) {
	return f.journeys[id], nil
}

func (f *fakeJourneyRepo) GetLeg(_ context.Context, id string) (*models.Leg, error) {
	return f.legs[id], nil
}

func (f *fakeJourneyRepo) ListJourneysByOwner(_ context.Context, ownerID string) ([]*models.Journey, error) {
	var out []*models.Journey
	for _, j := range f.journeys {
		if j.OwnerID == ownerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJourneyRepo) ListLegsForJourney(_ context.Context, journeyID string) ([]*models.Leg, error) {
	var out []*models.Leg
	for _, l := range f.legs {
		if l.JourneyID == journeyID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeJourneyRepo) ListWaypoints(_ context.Context, legID string) ([]models.Waypoint, error) {
	return f.waypoints[legID], nil
}

func (f *fakeJourneyRepo) HasRequirements(_ context.Context, journeyID string) (bool, error) {
	return f.requirements[journeyID], nil
}

func (f *fakeJourneyRepo) SearchPublishedLegs(_ context.Context, _ repositories.LegSearchFilter) ([]*models.Leg, error) {
	var out []*models.Leg
	for _, l := range f.legs {
		if l.Published {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeJourneyRepo) SearchLegsInBounds(_ context.Context, dep, arr *models.BoundingBox) ([]*models.Leg, error) {
	if f.boundsErr != nil {
		return nil, f.boundsErr
	}
	return f.boundsLegs, nil
}

func (f *fakeJourneyRepo) ListPublishedLegWaypoints(_ context.Context) (map[string][]models.Waypoint, error) {
	out := map[string][]models.Waypoint{}
	for id, l := range f.legs {
		if l.Published {
			out[id] = f.waypoints[id]
		}
	}
	return out, nil
}

type fakeRegistrationRepo struct {
	registrations map[string]*models.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: map[string]*models.Registration{}}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, r *models.Registration) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.registrations[r.ID] = r
	return nil
}

func (f *fakeRegistrationRepo) GetByID(_ context.Context, id string) (*models.Registration, error) {
	return f.registrations[id], nil
}

func (f *fakeRegistrationRepo) ListByUser(_ context.Context, userID string, _ int) ([]*models.Registration, error) {
	var out []*models.Registration
	for _, r := range f.registrations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListForLeg(_ context.Context, legID string) ([]*models.Registration, error) {
	var out []*models.Registration
	for _, r := range f.registrations {
		if r.LegID == legID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ExistsForUserAndLeg(_ context.Context, userID, legID string) (bool, error) {
	for _, r := range f.registrations {
		if r.UserID == userID && r.LegID == legID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r, ok := f.registrations[id]
	if !ok {
		return errors.New("registration not found")
	}
	r.Status = status
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
	updates  []string
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.Profile{}}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) ListCrewProfiles(_ context.Context, _ int) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfileRepo) UpdateAllowedField(_ context.Context, userID, field string, value interface{}) error {
	if _, ok := models.AIWritableProfileFields[field]; !ok {
		return apperrors.New(apperrors.CodeInvalidValue, "field %s is not writable", field)
	}
	f.updates = append(f.updates, fmt.Sprintf("%s:%s=%v", userID, field, value))
	return nil
}

type fakePendingRepo struct {
	actions map[string]*models.PendingAction
	// failCreate forces Create to error, for degradation tests.
	failCreate bool
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{actions: map[string]*models.PendingAction{}}
}

func (f *fakePendingRepo) Create(_ context.Context, a *models.PendingAction) error {
	if f.failCreate {
		return errors.New("store unavailable")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.ActionStatusPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	f.actions[a.ID] = a
	return nil
}

func (f *fakePendingRepo) GetByID(_ context.Context, id string) (*models.PendingAction, error) {
	return f.actions[id], nil
}

func (f *fakePendingRepo) ListByUser(_ context.Context, userID, status string, limit, offset int) ([]*models.PendingAction, error) {
	var out []*models.PendingAction
	for _, a := range f.actions {
		if a.UserID == userID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePendingRepo) TransitionFromPending(_ context.Context, id, newStatus string) (bool, error) {
	a, ok := f.actions[id]
	if !ok || a.Status != models.ActionStatusPending {
		return false, nil
	}
	now := time.Now()
	a.Status = newStatus
	a.ResolvedAt = &now
	return true, nil
}

func (f *fakePendingRepo) RevertToPending(_ context.Context, id string) error {
	a, ok := f.actions[id]
	if !ok {
		return errors.New("action not found")
	}
	a.Status = models.ActionStatusPending
	a.ResolvedAt = nil
	return nil
}

func (f *fakePendingRepo) ExpireOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, a := range f.actions {
		if a.Status == models.ActionStatusPending && a.CreatedAt.Before(cutoff) {
			a.Status = models.ActionStatusExpired
			n++
		}
	}
	return n, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
