package assistant

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

// Actor identifies the user on whose behalf tools run.
type Actor struct {
	UserID         string
	Roles          []string
	ConversationID *string
}

func (a Actor) hasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Executor dispatches tool calls. Data tools answer immediately and are
// strictly read-only; action tools record a pending action and touch nothing
// else. No failure escapes the ToolResult envelope.
type Executor struct {
	journeys      repositories.JourneyRepository
	registrations repositories.RegistrationRepository
	profiles      repositories.ProfileRepository
	pending       repositories.PendingActionRepository
	logger        *zap.Logger
}

func NewExecutor(
	journeys repositories.JourneyRepository,
	registrations repositories.RegistrationRepository,
	profiles repositories.ProfileRepository,
	pending repositories.PendingActionRepository,
	logger *zap.Logger,
) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		journeys:      journeys,
		registrations: registrations,
		profiles:      profiles,
		pending:       pending,
		logger:        logger,
	}
}

// snakeToCamel converts one snake_case key.
func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// NormalizeArgKeys rewrites snake_case keys to camelCase at every depth.
// Models emit either casing inconsistently; this is the single place where
// the difference is absorbed.
func NormalizeArgKeys(args map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(args))
	for k, v := range args {
		key := snakeToCamel(k)
		switch t := v.(type) {
		case map[string]interface{}:
			result[key] = NormalizeArgKeys(t)
		case []interface{}:
			for i, item := range t {
				if m, ok := item.(map[string]interface{}); ok {
					t[i] = NormalizeArgKeys(m)
				}
			}
			result[key] = t
		default:
			result[key] = v
		}
	}
	return result
}

func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func argStrings(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExecuteTool runs one tool call for the actor and always returns an
// envelope: failures land in Error, never in a panic or returned error.
func (e *Executor) ExecuteTool(ctx context.Context, call models.ToolCall, actor Actor) models.ToolResult {
	result := models.ToolResult{ToolCallID: call.ID, Name: call.Name}

	def, ok := LookupTool(call.Name)
	if !ok {
		result.Error = apperrors.New(apperrors.CodeUnknownTool, "unknown tool: %s", call.Name).Error()
		return result
	}
	if !roleAllowed(def, actor.Roles) {
		result.Error = apperrors.New(apperrors.CodeUnauthorized, "tool %s is not available for your role", call.Name).Error()
		return result
	}

	var args map[string]interface{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			result.Error = apperrors.Wrap(apperrors.CodeInvalidValue, err, "tool arguments are not valid JSON").Error()
			return result
		}
	}
	args = NormalizeArgKeys(args)

	var (
		payload interface{}
		err     error
	)
	if def.IsAction() {
		payload, err = e.createPendingAction(ctx, def, args, actor)
	} else {
		payload, err = e.runDataTool(ctx, call.Name, args, actor)
	}
	if err != nil {
		e.logger.Warn("tool execution failed",
			zap.String("tool", call.Name),
			zap.String("user_id", actor.UserID),
			zap.Error(err))
		result.Error = err.Error()
		return result
	}
	result.Result = payload
	return result
}

func (e *Executor) runDataTool(ctx context.Context, name string, args map[string]interface{}, actor Actor) (interface{}, error) {
	switch name {
	case "search_legs":
		return e.searchLegs(ctx, args)
	case "search_legs_by_location":
		return e.searchLegsByLocation(ctx, args)
	case "get_leg_details":
		return e.getLegView(ctx, argString(args, "legId"))
	case "get_journey_details":
		return e.getJourneyDetails(ctx, argString(args, "journeyId"))
	case "analyze_profile_match":
		return e.analyzeProfileMatch(ctx, argString(args, "legId"), actor)
	case "get_my_registrations":
		return e.registrations.ListByUser(ctx, actor.UserID, 10)
	case "get_profile_summary":
		return e.getProfileSummary(ctx, actor)
	case "get_owner_journeys":
		return e.getOwnerJourneys(ctx, actor)
	case "get_leg_registrations":
		return e.getLegRegistrations(ctx, argString(args, "legId"), actor)
	default:
		return nil, apperrors.New(apperrors.CodeUnknownTool, "unknown tool: %s", name)
	}
}

func (e *Executor) searchLegs(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	filter := repositories.LegSearchFilter{
		Skills:    argStrings(args, "skills"),
		RiskLevel: argString(args, "riskLevel"),
	}
	if s := argString(args, "fromDate"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.FromDate = &t
		}
	}
	if s := argString(args, "toDate"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.ToDate = &t
		}
	}
	legs, err := e.journeys.SearchPublishedLegs(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "leg search failed")
	}
	return e.legViews(ctx, legs)
}

// searchLegsByLocation resolves departure/arrival constraints from bounding
// boxes or place names, then runs the server-side containment query. When
// the query infrastructure fails the search degrades to fetching published
// legs' waypoints and checking containment in-process.
func (e *Executor) searchLegsByLocation(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	dep, err := e.resolveBounds(args, "departure")
	if err != nil {
		return nil, err
	}
	arr, err := e.resolveBounds(args, "arrival")
	if err != nil {
		return nil, err
	}
	if dep == nil && arr == nil {
		return nil, apperrors.New(apperrors.CodeInvalidValue,
			"provide a departure or arrival area, as a place name or bounding box")
	}

	legs, err := e.journeys.SearchLegsInBounds(ctx, dep, arr)
	if err != nil {
		e.logger.Warn("bounds query failed, falling back to in-process containment", zap.Error(err))
		legs, err = e.searchLegsInProcess(ctx, dep, arr)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "location search failed")
		}
	}
	return e.legViews(ctx, legs)
}

func (e *Executor) resolveBounds(args map[string]interface{}, prefix string) (*models.BoundingBox, error) {
	box, err := NormalizeBoundingBox(args, prefix)
	if err != nil {
		return nil, err
	}
	if box != nil {
		return box, nil
	}
	if name := argString(args, prefix+"Location"); name != "" {
		if resolved, ok := ResolveLocation(name); ok {
			return resolved, nil
		}
		return nil, apperrors.New(apperrors.CodeInvalidValue, "unknown %s area: %s", prefix, name)
	}
	return nil, nil
}

func (e *Executor) searchLegsInProcess(ctx context.Context, dep, arr *models.BoundingBox) ([]*models.Leg, error) {
	waypointsByLeg, err := e.journeys.ListPublishedLegWaypoints(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*models.Leg
	for legID, waypoints := range waypointsByLeg {
		if !legMatchesBounds(waypoints, dep, arr) {
			continue
		}
		leg, err := e.journeys.GetLeg(ctx, legID)
		if err != nil {
			return nil, err
		}
		if leg != nil {
			matched = append(matched, leg)
		}
	}
	return matched, nil
}

// legViews joins legs with their journeys and derived requirement fields.
func (e *Executor) legViews(ctx context.Context, legs []*models.Leg) ([]*models.LegView, error) {
	views := make([]*models.LegView, 0, len(legs))
	for _, leg := range legs {
		view, err := e.buildLegView(ctx, leg, false)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (e *Executor) buildLegView(ctx context.Context, leg *models.Leg, withWaypoints bool) (*models.LegView, error) {
	journey, err := e.journeys.GetJourney(ctx, leg.JourneyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load journey")
	}
	hasReqs := false
	if journey != nil {
		hasReqs, err = e.journeys.HasRequirements(ctx, journey.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not check journey requirements")
		}
	}
	var waypoints []models.Waypoint
	if withWaypoints {
		waypoints, err = e.journeys.ListWaypoints(ctx, leg.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load waypoints")
		}
	}
	return models.NewLegView(leg, journey, waypoints, hasReqs), nil
}

func (e *Executor) getLegView(ctx context.Context, legID string) (interface{}, error) {
	if legID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidValue, "legId is required")
	}
	leg, err := e.journeys.GetLeg(ctx, legID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load leg")
	}
	if leg == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "leg %s not found", legID)
	}
	return e.buildLegView(ctx, leg, true)
}

func (e *Executor) getJourneyDetails(ctx context.Context, journeyID string) (interface{}, error) {
	if journeyID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidValue, "journeyId is required")
	}
	journey, err := e.journeys.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load journey")
	}
	if journey == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "journey %s not found", journeyID)
	}
	legs, err := e.journeys.ListLegsForJourney(ctx, journeyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load legs")
	}
	return map[string]interface{}{"journey": journey, "legs": legs}, nil
}

func (e *Executor) analyzeProfileMatch(ctx context.Context, legID string, actor Actor) (interface{}, error) {
	if legID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidValue, "legId is required")
	}
	profile, err := e.profiles.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load profile")
	}
	if profile == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "profile not found")
	}
	view, err := e.getLegView(ctx, legID)
	if err != nil {
		return nil, err
	}
	legView := view.(*models.LegView)
	breakdown := ScoreMatch(profile, legView)
	return map[string]interface{}{
		"legId":     legID,
		"breakdown": breakdown,
	}, nil
}

func (e *Executor) getProfileSummary(ctx context.Context, actor Actor) (interface{}, error) {
	profile, err := e.profiles.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load profile")
	}
	if profile == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "profile not found")
	}
	var description string
	if profile.UserDescription != nil {
		description = *profile.UserDescription
	}
	return map[string]interface{}{
		"completeness":       profile.Completeness(),
		"skills":             []string(profile.Skills),
		"certifications":     []string(profile.Certifications),
		"riskLevel":          profile.RiskLevel,
		"sailingPreferences": []string(profile.SailingPreferences),
		"experienceYears":    profile.ExperienceYears,
		"hasDescription":     description != "",
	}, nil
}

func (e *Executor) getOwnerJourneys(ctx context.Context, actor Actor) (interface{}, error) {
	if !actor.hasRole(RoleOwner) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "owner role required")
	}
	journeys, err := e.journeys.ListJourneysByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load journeys")
	}
	return journeys, nil
}

func (e *Executor) getLegRegistrations(ctx context.Context, legID string, actor Actor) (interface{}, error) {
	if !actor.hasRole(RoleOwner) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "owner role required")
	}
	if legID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidValue, "legId is required")
	}
	leg, err := e.journeys.GetLeg(ctx, legID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load leg")
	}
	if leg == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "leg %s not found", legID)
	}
	journey, err := e.journeys.GetJourney(ctx, leg.JourneyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load journey")
	}
	if journey == nil || journey.OwnerID != actor.UserID {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "you do not own this leg")
	}
	return e.registrations.ListForLeg(ctx, legID)
}

// createPendingAction validates an action tool call and records it for
// approval. The target data is never touched here.
func (e *Executor) createPendingAction(ctx context.Context, def ToolDefinition, args map[string]interface{}, actor Actor) (interface{}, error) {
	action, err := e.buildAction(def, args)
	if err != nil {
		return nil, err
	}

	// the assistant must not route around required qualification questions
	if reg, ok := action.(models.RegisterForLegAction); ok {
		if err := e.checkRegistrable(ctx, reg.LegID, actor); err != nil {
			return nil, err
		}
	}

	explanation := argString(args, "reason")
	if explanation == "" {
		explanation = argString(args, "explanation")
	}

	pending := &models.PendingAction{
		UserID:         actor.UserID,
		ConversationID: actor.ConversationID,
		ActionType:     string(action.Type()),
		Payload:        models.MustMarshalAction(action),
		Explanation:    explanation,
	}
	if err := e.pending.Create(ctx, pending); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not record pending action")
	}

	return map[string]interface{}{
		"pendingActionId": pending.ID,
		"actionType":      pending.ActionType,
		"status":          pending.Status,
		"message":         "Suggestion recorded. The user must approve it before anything changes.",
	}, nil
}

// buildAction maps tool arguments to a validated action variant. The new
// value for profile updates is deliberately not read from the arguments:
// the user supplies it at approval time.
func (e *Executor) buildAction(def ToolDefinition, args map[string]interface{}) (models.Action, error) {
	var action models.Action
	switch def.ActionType {
	case models.ActionUpdateProfileField:
		action = models.UpdateProfileFieldAction{
			Field:  argString(args, "field"),
			Reason: argString(args, "reason"),
		}
	case models.ActionRegisterForLeg:
		action = models.RegisterForLegAction{
			LegID:  argString(args, "legId"),
			Reason: argString(args, "reason"),
		}
	case models.ActionUpdateRegistrationStatus:
		action = models.UpdateRegistrationStatusAction{
			RegistrationID: argString(args, "registrationId"),
			NewStatus:      argString(args, "newStatus"),
			Reason:         argString(args, "reason"),
		}
	default:
		return nil, apperrors.New(apperrors.CodeUnknownAction, "tool %s has no action mapping", def.Name)
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return action, nil
}

func (e *Executor) checkRegistrable(ctx context.Context, legID string, actor Actor) error {
	leg, err := e.journeys.GetLeg(ctx, legID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load leg")
	}
	if leg == nil {
		return apperrors.New(apperrors.CodeNotFound, "leg %s not found", legID)
	}
	hasReqs, err := e.journeys.HasRequirements(ctx, leg.JourneyID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not check journey requirements")
	}
	if hasReqs {
		return apperrors.New(apperrors.CodeInvalidValue,
			"this journey has qualification questions that must be answered on the leg page; please register through the registration form")
	}
	exists, err := e.registrations.ExistsForUserAndLeg(ctx, actor.UserID, legID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeExecutionError, err, "could not check existing registrations")
	}
	if exists {
		return apperrors.New(apperrors.CodeInvalidValue, "you already have a registration for this leg")
	}
	return nil
}
