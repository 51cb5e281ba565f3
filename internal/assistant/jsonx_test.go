package assistant

import "testing"

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"intent":"CREW_SEARCH"}`, `{"intent":"CREW_SEARCH"}`, false},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"untagged fence", "```\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around object", `Sure! Here you go: {"a":1} hope that helps`, `{"a":1}`, false},
		{"nested braces", `result: {"a":{"b":2}}`, `{"a":{"b":2}}`, false},
		{"empty", "", "", true},
		{"no object", "I cannot classify that.", "", true},
		{"broken json", `{"a":`, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
