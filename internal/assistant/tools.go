package assistant

import (
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/samber/lo"

	"github.com/sailsmart/sailsmart/internal/models"
)

// Roles understood by the tool registry.
const (
	RoleOwner = "owner"
	RoleCrew  = "crew"
)

// ToolDefinition describes one callable tool. Action tools never touch data
// directly: invoking one records a pending action for user approval.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	// Roles restricts visibility; empty means available to everyone.
	Roles []string
	// ActionType is set for action tools and empty for data tools.
	ActionType models.ActionType
	// Keywords feed the prioritizer's message-overlap score.
	Keywords []string
}

// IsAction reports whether invoking the tool creates a pending action.
func (t ToolDefinition) IsAction() bool { return t.ActionType != "" }

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func numberProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

// catalog is the static tool inventory, built once.
var catalog = []ToolDefinition{
	{
		Name:        "search_legs",
		Description: "Search published legs by required skills, risk level and date range.",
		Parameters: objectSchema(map[string]interface{}{
			"skills":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Skills the user wants to use"},
			"risk_level": stringProp("Desired risk level, e.g. Coastal cruising or Offshore sailing"),
			"from_date":  stringProp("Earliest start date, YYYY-MM-DD"),
			"to_date":    stringProp("Latest start date, YYYY-MM-DD"),
		}),
		Keywords: []string{"find", "search", "legs", "voyage", "available"},
	},
	{
		Name:        "search_legs_by_location",
		Description: "Search published legs by departure and/or arrival area. Accepts place names or bounding boxes in decimal degrees.",
		Parameters: objectSchema(map[string]interface{}{
			"departure_location":     stringProp("Free-text departure area, e.g. Barcelona"),
			"arrival_location":       stringProp("Free-text arrival area, e.g. Mallorca"),
			"departure_bounding_box": objectSchema(map[string]interface{}{"min_lng": numberProp(""), "min_lat": numberProp(""), "max_lng": numberProp(""), "max_lat": numberProp("")}),
			"arrival_bounding_box":   objectSchema(map[string]interface{}{"min_lng": numberProp(""), "min_lat": numberProp(""), "max_lng": numberProp(""), "max_lat": numberProp("")}),
		}),
		Keywords: []string{"from", "to", "location", "route", "where", "sail"},
	},
	{
		Name:        "get_leg_details",
		Description: "Get a leg with its journey, waypoints and effective requirements.",
		Parameters:  objectSchema(map[string]interface{}{"leg_id": stringProp("Leg id")}, "leg_id"),
		Keywords:    []string{"details", "leg", "requirements"},
	},
	{
		Name:        "get_journey_details",
		Description: "Get a journey with all of its legs.",
		Parameters:  objectSchema(map[string]interface{}{"journey_id": stringProp("Journey id")}, "journey_id"),
		Keywords:    []string{"journey", "details", "itinerary"},
	},
	{
		Name:        "analyze_profile_match",
		Description: "Score how well the current user's profile matches a leg's requirements.",
		Parameters:  objectSchema(map[string]interface{}{"leg_id": stringProp("Leg id")}, "leg_id"),
		Keywords:    []string{"match", "fit", "qualify", "suitable"},
	},
	{
		Name:        "get_my_registrations",
		Description: "List the current user's leg registrations and their statuses.",
		Parameters:  objectSchema(map[string]interface{}{}),
		Keywords:    []string{"registrations", "applications", "status"},
	},
	{
		Name:        "get_profile_summary",
		Description: "Summarize the current user's profile completeness and gaps.",
		Parameters:  objectSchema(map[string]interface{}{}),
		Keywords:    []string{"profile", "complete", "missing"},
	},
	{
		Name:        "get_owner_journeys",
		Description: "List the journeys and legs owned by the current user.",
		Parameters:  objectSchema(map[string]interface{}{}),
		Roles:       []string{RoleOwner},
		Keywords:    []string{"my journeys", "my boat", "manage"},
	},
	{
		Name:        "get_leg_registrations",
		Description: "List crew registrations for a leg the current user owns.",
		Parameters:  objectSchema(map[string]interface{}{"leg_id": stringProp("Leg id")}, "leg_id"),
		Roles:       []string{RoleOwner},
		Keywords:    []string{"applicants", "registrations", "crew", "review"},
	},
	{
		Name:        "suggest_profile_field_update",
		Description: "Suggest that the user updates one profile field. Records the field and the reason only; the user supplies the new value when approving.",
		Parameters: objectSchema(map[string]interface{}{
			"field":  stringProp("One of: user_description, certifications, skills, risk_level, sailing_preferences"),
			"reason": stringProp("Why this change would help"),
		}, "field", "reason"),
		ActionType: models.ActionUpdateProfileField,
		Keywords:   []string{"update", "profile", "improve", "add"},
	},
	{
		Name:        "suggest_register_for_leg",
		Description: "Suggest registering the user for a leg. Creates a pending action; nothing is submitted until the user approves.",
		Parameters: objectSchema(map[string]interface{}{
			"leg_id": stringProp("Leg id"),
			"reason": stringProp("Why this leg fits the user"),
		}, "leg_id", "reason"),
		ActionType: models.ActionRegisterForLeg,
		Keywords:   []string{"register", "join", "sign up", "apply"},
	},
	{
		Name:        "suggest_registration_decision",
		Description: "Suggest approving or rejecting a crew registration on the user's own leg. Creates a pending action for the owner to confirm.",
		Parameters: objectSchema(map[string]interface{}{
			"registration_id": stringProp("Registration id"),
			"new_status":      stringProp("approved or rejected"),
			"reason":          stringProp("Why this decision is suggested"),
		}, "registration_id", "new_status", "reason"),
		Roles:      []string{RoleOwner},
		ActionType: models.ActionUpdateRegistrationStatus,
		Keywords:   []string{"approve", "reject", "decision", "applicant"},
	},
}

// useCaseTools orders tool names per intent. The registry intersects this
// with the role-filtered catalog.
var useCaseTools = map[Intent][]string{
	IntentCrewSearch: {
		"search_legs_by_location", "search_legs", "get_leg_details",
		"get_journey_details", "analyze_profile_match", "suggest_register_for_leg",
	},
	IntentCrewRegister: {
		"get_leg_details", "analyze_profile_match", "suggest_register_for_leg",
		"search_legs_by_location", "search_legs", "get_my_registrations",
	},
	IntentOwnerManagement: {
		"get_owner_journeys", "get_leg_registrations", "suggest_registration_decision",
		"get_leg_details", "get_journey_details",
	},
	IntentProfileImprovement: {
		"get_profile_summary", "suggest_profile_field_update",
		"analyze_profile_match", "get_my_registrations",
	},
	IntentGeneralConversation: {
		"search_legs", "get_profile_summary", "get_my_registrations",
	},
}

// toolsByName indexes the catalog; built at package init, read-only after.
var toolsByName = func() map[string]ToolDefinition {
	m := make(map[string]ToolDefinition, len(catalog))
	for _, t := range catalog {
		m[t.Name] = t
	}
	return m
}()

// LookupTool returns the catalog entry for a tool name.
func LookupTool(name string) (ToolDefinition, bool) {
	t, ok := toolsByName[name]
	return t, ok
}

func roleAllowed(def ToolDefinition, roles []string) bool {
	if len(def.Roles) == 0 {
		return true
	}
	for _, required := range def.Roles {
		if lo.Contains(roles, required) {
			return true
		}
	}
	return false
}

// ToolsForUseCase returns the ordered, role-filtered tool set for an intent.
// Role restrictions are enforced here, not deferred to execution.
func ToolsForUseCase(intent Intent, roles []string) []ToolDefinition {
	names, ok := useCaseTools[intent]
	if !ok {
		names = useCaseTools[IntentGeneralConversation]
	}
	result := make([]ToolDefinition, 0, len(names))
	for _, name := range names {
		def, ok := toolsByName[name]
		if !ok {
			continue
		}
		if roleAllowed(def, roles) {
			result = append(result, def)
		}
	}
	return result
}

// useCasePriority is the fixed base priority table for the prioritizer.
// Higher is more relevant; unlisted tools get zero.
var useCasePriority = map[Intent]map[string]int{
	IntentCrewSearch:         {"search_legs_by_location": 30, "search_legs": 25, "get_leg_details": 15},
	IntentCrewRegister:       {"suggest_register_for_leg": 30, "get_leg_details": 25, "analyze_profile_match": 20},
	IntentOwnerManagement:    {"get_leg_registrations": 30, "suggest_registration_decision": 25, "get_owner_journeys": 20},
	IntentProfileImprovement: {"get_profile_summary": 30, "suggest_profile_field_update": 25},
}

// PrioritizeTools ranks the use-case tool set by fixed priority, contextual
// boosts and keyword overlap with the raw message. Stable sort keeps the
// registry order for ties.
func PrioritizeTools(intent Intent, roles []string, message string, uc *models.UserContext) []ToolDefinition {
	defs := ToolsForUseCase(intent, roles)
	lowered := strings.ToLower(message)

	score := func(def ToolDefinition) int {
		s := useCasePriority[intent][def.Name]
		for _, kw := range def.Keywords {
			if strings.Contains(lowered, kw) {
				s += 5
			}
		}
		if uc != nil && len(uc.RecentRegistrations) > 0 &&
			(def.Name == "get_my_registrations" || def.Name == "suggest_register_for_leg") {
			s += 10
		}
		if uc != nil && uc.ProfileCompleteness < 0.5 && def.Name == "suggest_profile_field_update" {
			s += 10
		}
		return s
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return score(defs[i]) > score(defs[j])
	})
	return defs
}

// OpenAITools converts definitions to the wire format of the chat API.
func OpenAITools(defs []ToolDefinition) []openai.Tool {
	tools := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return tools
}
