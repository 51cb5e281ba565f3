package models

import "encoding/json"

// ChatRequest is one user turn sent to the assistant.
type ChatRequest struct {
	ConversationID *string `json:"conversationId,omitempty"`
	Message        string  `json:"message"`
}

// ChatResponse is the assistant's reply, including any actions created this
// turn that now await approval.
type ChatResponse struct {
	ConversationID string           `json:"conversationId"`
	Message        string           `json:"message"`
	PendingActions []*PendingAction `json:"pendingActions,omitempty"`
}

// ToolCall is the JSON contract the model emits for a tool invocation.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the executor's reply for one tool call. Failures are carried
// in Error; the executor never raises past this envelope.
type ToolResult struct {
	ToolCallID string      `json:"toolCallId"`
	Name       string      `json:"name"`
	Result     interface{} `json:"result"`
	Error      string      `json:"error,omitempty"`
}

// BoatSummary is the boat projection included in owner context.
type BoatSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BoatType string `json:"boatType,omitempty"`
	HomePort string `json:"homePort,omitempty"`
}

// RegistrationSummary is the registration projection included in crew context.
type RegistrationSummary struct {
	ID      string `json:"id"`
	LegID   string `json:"legId"`
	LegName string `json:"legName,omitempty"`
	Status  string `json:"status"`
}

// UserContext is the per-turn snapshot handed to the sanitizer and prompt
// builder. It is recomputed on demand and never persisted.
type UserContext struct {
	UserID              string                `json:"userId"`
	Roles               []string              `json:"roles"`
	Skills              []string              `json:"skills,omitempty"`
	Certifications      []string              `json:"certifications,omitempty"`
	RiskLevel           *string               `json:"riskLevel,omitempty"`
	SailingPreferences  []string              `json:"sailingPreferences,omitempty"`
	ExperienceYears     int                   `json:"experienceYears"`
	UserDescription     string                `json:"userDescription,omitempty"`
	ProfileCompleteness float64               `json:"profileCompleteness"`
	Boats               []BoatSummary         `json:"boats,omitempty"`
	RecentRegistrations []RegistrationSummary `json:"recentRegistrations,omitempty"`
	PendingActionCount  int                   `json:"pendingActionCount"`
	SuggestionCount     int                   `json:"suggestionCount"`
}

// LegView is a leg joined with its journey and the derived effective
// requirements. Leg-level values override journey defaults.
type LegView struct {
	Leg                    *Leg       `json:"leg"`
	Journey                *Journey   `json:"journey"`
	Waypoints              []Waypoint `json:"waypoints,omitempty"`
	CombinedSkills         []string   `json:"combinedSkills"`
	EffectiveRiskLevel     *string    `json:"effectiveRiskLevel,omitempty"`
	EffectiveMinExperience *int       `json:"effectiveMinExperience,omitempty"`
	HasRequirements        bool       `json:"hasRequirements"`
}

// NewLegView computes the derived requirement fields for a leg/journey pair.
func NewLegView(leg *Leg, journey *Journey, waypoints []Waypoint, hasRequirements bool) *LegView {
	var journeySkills []string
	if journey != nil {
		journeySkills = journey.SkillsRequired
	}
	return &LegView{
		Leg:                    leg,
		Journey:                journey,
		Waypoints:              waypoints,
		CombinedSkills:         CombinedSkills(journeySkills, leg.SkillsRequired),
		EffectiveRiskLevel:     EffectiveRiskLevel(leg, journey),
		EffectiveMinExperience: EffectiveMinExperience(leg, journey),
		HasRequirements:        hasRequirements,
	}
}
