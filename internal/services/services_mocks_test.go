package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

type mockJourneyRepo struct {
	journeys     map[string]*models.Journey
	legs         map[string]*models.Leg
	waypoints    map[string][]models.Waypoint
	requirements map[string]bool
}

func newMockJourneyRepo() *mockJourneyRepo {
	return &mockJourneyRepo{
		journeys:     map[string]*models.Journey{},
		legs:         map[string]*models.Leg{},
		waypoints:    map[string][]models.Waypoint{},
		requirements: map[string]bool{},
	}
}

func (m *mockJourneyRepo) GetJourney(_ context.Context, id string) (*models.Journey, error) {
	return m.journeys[id], nil
}

func (m *mockJourneyRepo) GetLeg(_ context.Context, id string) (*models.Leg, error) {
	return m.legs[id], nil
}

func (m *mockJourneyRepo) ListJourneysByOwner(_ context.Context, ownerID string) ([]*models.Journey, error) {
	var out []*models.Journey
	for _, j := range m.journeys {
		if j.OwnerID == ownerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJourneyRepo) ListLegsForJourney(_ context.Context, journeyID string) ([]*models.Leg, error) {
	var out []*models.Leg
	for _, l := range m.legs {
		if l.JourneyID == journeyID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockJourneyRepo) ListWaypoints(_ context.Context, legID string) ([]models.Waypoint, error) {
	return m.waypoints[legID], nil
}

func (m *mockJourneyRepo) HasRequirements(_ context.Context, journeyID string) (bool, error) {
	return m.requirements[journeyID], nil
}

func (m *mockJourneyRepo) SearchPublishedLegs(_ context.Context, _ repositories.LegSearchFilter) ([]*models.Leg, error) {
	var out []*models.Leg
	for _, l := range m.legs {
		if l.Published {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockJourneyRepo) SearchLegsInBounds(_ context.Context, _, _ *models.BoundingBox) ([]*models.Leg, error) {
	return nil, nil
}

func (m *mockJourneyRepo) ListPublishedLegWaypoints(_ context.Context) (map[string][]models.Waypoint, error) {
	return m.waypoints, nil
}

type mockRegistrationRepo struct {
	registrations map[string]*models.Registration
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{registrations: map[string]*models.Registration{}}
}

func (m *mockRegistrationRepo) Create(_ context.Context, r *models.Registration) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.registrations[r.ID] = r
	return nil
}

func (m *mockRegistrationRepo) GetByID(_ context.Context, id string) (*models.Registration, error) {
	return m.registrations[id], nil
}

func (m *mockRegistrationRepo) ListByUser(_ context.Context, userID string, _ int) ([]*models.Registration, error) {
	var out []*models.Registration
	for _, r := range m.registrations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRegistrationRepo) ListForLeg(_ context.Context, legID string) ([]*models.Registration, error) {
	var out []*models.Registration
	for _, r := range m.registrations {
		if r.LegID == legID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRegistrationRepo) ExistsForUserAndLeg(_ context.Context, userID, legID string) (bool, error) {
	for _, r := range m.registrations {
		if r.UserID == userID && r.LegID == legID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegistrationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r, ok := m.registrations[id]
	if !ok {
		return errors.New("registration not found")
	}
	r.Status = status
	return nil
}

type mockProfileRepo struct {
	profiles map[string]*models.Profile
	updates  int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: map[string]*models.Profile{}}
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	return m.profiles[userID], nil
}

func (m *mockProfileRepo) ListCrewProfiles(_ context.Context, _ int) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProfileRepo) UpdateAllowedField(_ context.Context, _, field string, _ interface{}) error {
	if _, ok := models.AIWritableProfileFields[field]; !ok {
		return apperrors.New(apperrors.CodeInvalidValue, "field %s is not writable", field)
	}
	m.updates++
	return nil
}

type mockPendingRepo struct {
	actions map[string]*models.PendingAction
}

func newMockPendingRepo() *mockPendingRepo {
	return &mockPendingRepo{actions: map[string]*models.PendingAction{}}
}

func (m *mockPendingRepo) Create(_ context.Context, a *models.PendingAction) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = models.ActionStatusPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.actions[a.ID] = a
	return nil
}

func (m *mockPendingRepo) GetByID(_ context.Context, id string) (*models.PendingAction, error) {
	return m.actions[id], nil
}

func (m *mockPendingRepo) ListByUser(_ context.Context, userID, status string, _, _ int) ([]*models.PendingAction, error) {
	var out []*models.PendingAction
	for _, a := range m.actions {
		if a.UserID == userID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockPendingRepo) TransitionFromPending(_ context.Context, id, newStatus string) (bool, error) {
	a, ok := m.actions[id]
	if !ok || a.Status != models.ActionStatusPending {
		return false, nil
	}
	now := time.Now()
	a.Status = newStatus
	a.ResolvedAt = &now
	return true, nil
}

func (m *mockPendingRepo) RevertToPending(_ context.Context, id string) error {
	a, ok := m.actions[id]
	if !ok {
		return errors.New("action not found")
	}
	a.Status = models.ActionStatusPending
	a.ResolvedAt = nil
	return nil
}

func (m *mockPendingRepo) ExpireOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, a := range m.actions {
		if a.Status == models.ActionStatusPending && a.CreatedAt.Before(cutoff) {
			a.Status = models.ActionStatusExpired
			n++
		}
	}
	return n, nil
}

type mockSuggestionRepo struct {
	suggestions map[string]*models.Suggestion
}

func newMockSuggestionRepo() *mockSuggestionRepo {
	return &mockSuggestionRepo{suggestions: map[string]*models.Suggestion{}}
}

func (m *mockSuggestionRepo) Create(_ context.Context, s *models.Suggestion) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.suggestions[s.ID] = s
	return nil
}

func (m *mockSuggestionRepo) ListByUser(_ context.Context, userID string, includeDismissed bool) ([]*models.Suggestion, error) {
	var out []*models.Suggestion
	for _, s := range m.suggestions {
		if s.UserID != userID {
			continue
		}
		if s.Dismissed && !includeDismissed {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSuggestionRepo) Dismiss(_ context.Context, id, userID string) error {
	s, ok := m.suggestions[id]
	if !ok || s.UserID != userID {
		return apperrors.New(apperrors.CodeNotFound, "suggestion %s not found", id)
	}
	s.Dismissed = true
	return nil
}

func (m *mockSuggestionRepo) CountActive(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, s := range m.suggestions {
		if s.UserID == userID && !s.Dismissed {
			n++
		}
	}
	return n, nil
}

type mockBoatRepo struct {
	boats map[string][]*models.Boat
}

func newMockBoatRepo() *mockBoatRepo {
	return &mockBoatRepo{boats: map[string][]*models.Boat{}}
}

func (m *mockBoatRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Boat, error) {
	return m.boats[ownerID], nil
}

type mockConversationRepo struct {
	conversations map[string]*models.Conversation
	messages      map[string][]*models.ConversationMessage
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{
		conversations: map[string]*models.Conversation{},
		messages:      map[string][]*models.ConversationMessage{},
	}
}

func (m *mockConversationRepo) Create(_ context.Context, c *models.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.conversations[c.ID] = c
	return nil
}

func (m *mockConversationRepo) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	return m.conversations[id], nil
}

func (m *mockConversationRepo) AppendMessage(_ context.Context, msg *models.ConversationMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], msg)
	return nil
}

func (m *mockConversationRepo) ListMessages(_ context.Context, conversationID string, limit int) ([]*models.ConversationMessage, error) {
	msgs := m.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// scriptedChat replays canned model turns in order.
type scriptedChat struct {
	turns []openai.ChatCompletionResponse
	calls int
	err   error
}

func (c *scriptedChat) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	if c.calls >= len(c.turns) {
		return openai.ChatCompletionResponse{}, errors.New("no scripted turn left")
	}
	resp := c.turns[c.calls]
	c.calls++
	return resp, nil
}

func textTurn(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func toolTurn(name, arguments string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					{
						ID:       "call-1",
						Type:     openai.ToolTypeFunction,
						Function: openai.FunctionCall{Name: name, Arguments: arguments},
					},
				},
			}},
		},
	}
}
