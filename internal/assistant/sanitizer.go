package assistant

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
)

// maxContextChars caps the serialized sanitized context. Exceeding it is an
// error, never a silent truncation.
const maxContextChars = 50000

// sensitiveKeys are deleted recursively from any context object before
// allow-listing, regardless of use case. Both snake_case and camelCase
// spellings are covered because tool arguments and store rows mix the two.
var sensitiveKeys = map[string]struct{}{
	"username":      {},
	"fullname":      {},
	"full_name":     {},
	"email":         {},
	"phone":         {},
	"phone_number":  {},
	"phonenumber":   {},
	"address":       {},
	"image":         {},
	"avatar":        {},
	"avatar_url":    {},
	"dateofbirth":   {},
	"date_of_birth": {},
}

// useCaseAllowedFields keeps only the context fields relevant to the active
// use case. Keys are the JSON field names of models.UserContext.
var useCaseAllowedFields = map[Intent][]string{
	IntentCrewSearch: {
		"userId", "roles", "skills", "certifications", "riskLevel",
		"sailingPreferences", "experienceYears", "recentRegistrations",
	},
	IntentCrewRegister: {
		"userId", "roles", "skills", "certifications", "riskLevel",
		"experienceYears", "recentRegistrations", "pendingActionCount",
	},
	IntentOwnerManagement: {
		"userId", "roles", "boats", "pendingActionCount",
	},
	IntentProfileImprovement: {
		"userId", "roles", "skills", "certifications", "riskLevel",
		"sailingPreferences", "experienceYears", "userDescription",
		"profileCompleteness", "suggestionCount",
	},
	IntentGeneralConversation: {
		"userId", "roles", "pendingActionCount", "suggestionCount",
	},
}

type redactionRule struct {
	re      *regexp.Regexp
	inbound string
}

// Rules are applied in order: the email rule must run before the generic
// digit-run rule so addresses with digits redact as emails.
var redactionRules = []redactionRule{
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED]"},
	{regexp.MustCompile(`\b\d{9,}\b`), "[REDACTED]"},
	{regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`), "[REDACTED_PHONE]"},
	{regexp.MustCompile(`\b[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}\b`), "[REDACTED]"},
}

var (
	emailScanRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneScanRe = regexp.MustCompile(`\+?\d[\d\s().-]{8,}\d`)
)

// SanitizeMessage redacts PII from text travelling outbound to the LLM. The
// outbound direction uses the uniform token so the model cannot infer which
// kind of identifier was present.
func SanitizeMessage(text string) string {
	for _, rule := range redactionRules {
		text = rule.re.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}

// SanitizeResponse redacts PII from text coming back from the LLM, using
// typed tokens so the UI can explain what was removed.
func SanitizeResponse(text string) string {
	for _, rule := range redactionRules {
		text = rule.re.ReplaceAllString(text, rule.inbound)
	}
	return text
}

// SanitizeContext projects a UserContext to the field set allowed for the
// use case, with sensitive keys stripped at every depth first.
func SanitizeContext(uc *models.UserContext, intent Intent) (map[string]interface{}, error) {
	if uc == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(uc)
	if err != nil {
		return nil, err
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	stripped, _ := stripSensitive(generic).(map[string]interface{})

	allowed, ok := useCaseAllowedFields[intent]
	if !ok {
		allowed = useCaseAllowedFields[IntentGeneralConversation]
	}
	result := make(map[string]interface{}, len(allowed))
	for _, field := range allowed {
		if v, present := stripped[field]; present {
			result[field] = v
		}
	}
	return result, nil
}

// stripSensitive removes identifier-like keys from nested maps and slices.
func stripSensitive(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for key, val := range t {
			if _, bad := sensitiveKeys[strings.ToLower(key)]; bad {
				delete(t, key)
				continue
			}
			t[key] = stripSensitive(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = stripSensitive(val)
		}
		return t
	default:
		return v
	}
}

// ValidateOutbound re-scans a fully assembled payload right before it leaves
// for the LLM and fails closed: a sanitization bug must be loud, not
// swallowed.
func ValidateOutbound(payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if len(raw) > maxContextChars {
		return apperrors.New(apperrors.CodeExecutionError,
			"assistant context exceeds %d characters", maxContextChars)
	}
	s := string(raw)
	if emailScanRe.MatchString(s) {
		return apperrors.New(apperrors.CodeExecutionError, "Sensitive email data detected in outbound context")
	}
	if phoneScanRe.MatchString(s) {
		return apperrors.New(apperrors.CodeExecutionError, "Sensitive phone data detected in outbound context")
	}
	return nil
}
