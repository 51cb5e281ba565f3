package assistant

import (
	"strings"
	"testing"

	"github.com/sailsmart/sailsmart/internal/models"
)

func TestSanitizeMessageRedactsIdentifiers(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"email", "reach me at skipper@example.com please"},
		{"phone", "call me on +34 612 345 678"},
		{"long digits", "my id is 123456789012"},
		{"ssn shape", "it is 123-45-6789"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeMessage(tc.in)
			if !strings.Contains(got, "[REDACTED]") {
				t.Errorf("expected redaction token in %q", got)
			}
			if strings.Contains(got, "@") {
				t.Errorf("identifier leaked through: %q", got)
			}
		})
	}
}

func TestSanitizeMessageLeavesCleanTextAlone(t *testing.T) {
	in := "looking for a coastal leg from Barcelona in May"
	if got := SanitizeMessage(in); got != in {
		t.Errorf("clean text was altered: %q", got)
	}
}

func TestSanitizeResponseUsesTypedTokens(t *testing.T) {
	got := SanitizeResponse("write to owner@example.com or +44 20 7946 0958")
	if !strings.Contains(got, "[REDACTED_EMAIL]") {
		t.Errorf("expected email token, got %q", got)
	}
	if !strings.Contains(got, "[REDACTED_PHONE]") && !strings.Contains(got, "[REDACTED]") {
		t.Errorf("expected phone redaction, got %q", got)
	}
	if strings.Contains(got, "@") {
		t.Errorf("email leaked through: %q", got)
	}
}

func TestSanitizeContextProjectsAllowedFields(t *testing.T) {
	uc := &models.UserContext{
		UserID:          "user-1",
		Roles:           []string{"crew"},
		Skills:          []string{"navigation"},
		ExperienceYears: 4,
		Boats:           []models.BoatSummary{{ID: "b1", Name: "Luna"}},
	}

	got, err := SanitizeContext(uc, IntentCrewSearch)
	if err != nil {
		t.Fatalf("SanitizeContext: %v", err)
	}
	if _, ok := got["skills"]; !ok {
		t.Error("skills should survive for crew search")
	}
	if _, ok := got["boats"]; ok {
		t.Error("boats are not part of the crew search context")
	}
	if got["userId"] != "user-1" {
		t.Errorf("userId = %v", got["userId"])
	}
}

func TestStripSensitiveRemovesKeysAtDepth(t *testing.T) {
	in := map[string]interface{}{
		"boats": []interface{}{
			map[string]interface{}{
				"name":  "Luna",
				"email": "owner@example.com",
				"owner": map[string]interface{}{"phone_number": "+34 612 345 678", "roles": []interface{}{"owner"}},
			},
		},
		"FullName": "A. Sailor",
	}

	got := stripSensitive(in).(map[string]interface{})
	if _, present := got["FullName"]; present {
		t.Error("top-level sensitive key survived (case-insensitive match expected)")
	}
	boat := got["boats"].([]interface{})[0].(map[string]interface{})
	if _, present := boat["email"]; present {
		t.Error("sensitive key survived one level down")
	}
	owner := boat["owner"].(map[string]interface{})
	if _, present := owner["phone_number"]; present {
		t.Error("sensitive key survived two levels down")
	}
	if _, present := owner["roles"]; !present {
		t.Error("benign nested key was dropped")
	}
}

func TestSanitizeContextUnknownIntentFallsBackToGeneral(t *testing.T) {
	uc := &models.UserContext{UserID: "user-1", Roles: []string{"crew"}, Skills: []string{"sail trim"}}

	got, err := SanitizeContext(uc, Intent("SOMETHING_ELSE"))
	if err != nil {
		t.Fatalf("SanitizeContext: %v", err)
	}
	if _, ok := got["skills"]; ok {
		t.Error("general fallback should not include skills")
	}
	if _, ok := got["userId"]; !ok {
		t.Error("userId should always be present")
	}
}

func TestValidateOutboundFailsClosedOnEmail(t *testing.T) {
	err := ValidateOutbound(map[string]interface{}{"note": "ping crew@example.com"})
	if err == nil {
		t.Fatal("expected an error for residual email")
	}
	if !strings.Contains(err.Error(), "Sensitive email data detected") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateOutboundFailsClosedOnOversizedContext(t *testing.T) {
	err := ValidateOutbound(map[string]interface{}{"blob": strings.Repeat("x", maxContextChars+1)})
	if err == nil {
		t.Fatal("expected an error for oversized context")
	}
}

func TestValidateOutboundAcceptsCleanPayload(t *testing.T) {
	if err := ValidateOutbound(map[string]interface{}{"skills": []string{"navigation"}}); err != nil {
		t.Fatalf("clean payload rejected: %v", err)
	}
}
