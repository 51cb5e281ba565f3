package assistant

// Intent is the coarse classification of what the user is trying to do in
// the current turn. It scopes which tools and prompt sections are active.
type Intent string

const (
	IntentCrewSearch          Intent = "CREW_SEARCH"
	IntentCrewRegister        Intent = "CREW_REGISTER"
	IntentOwnerManagement     Intent = "OWNER_MANAGEMENT"
	IntentProfileImprovement  Intent = "PROFILE_IMPROVEMENT"
	IntentGeneralConversation Intent = "GENERAL_CONVERSATION"

	// IntentClarificationRequest is the degraded state when classification
	// cannot produce a usable intent. It is never emitted by the fast path.
	IntentClarificationRequest Intent = "CLARIFICATION_REQUEST"
)

// classifiableIntents are the values the LLM classifier may return.
var classifiableIntents = []Intent{
	IntentCrewSearch,
	IntentCrewRegister,
	IntentOwnerManagement,
	IntentProfileImprovement,
	IntentGeneralConversation,
}

// ValidIntent reports whether v is one of the classifiable intent values.
func ValidIntent(v string) bool {
	for _, i := range classifiableIntents {
		if string(i) == v {
			return true
		}
	}
	return false
}
