package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Models wrap JSON in markdown fences with arbitrary language tags, or pad it
// with prose. ExtractJSONObject tolerates both; callers treat any error as a
// signal to degrade, never to propagate.
var codeFenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\s*(.*?)```")

// ExtractJSONObject pulls the first JSON object out of an LLM response.
func ExtractJSONObject(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty response")
	}

	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if !strings.HasPrefix(s, "{") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start == -1 || end == -1 || end < start {
			return nil, fmt.Errorf("no JSON object in response")
		}
		s = s[start : end+1]
	}

	if !json.Valid([]byte(s)) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	return []byte(s), nil
}
