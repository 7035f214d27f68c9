package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Criteria
	}{
		{"rate servers", `{"type":"rate_servers","count":5}`, CountCriteria{Type: "rate_servers", Count: 5}},
		{"add server defaults to one", `{"type":"add_server"}`, CountCriteria{Type: "add_server", Count: 1}},
		{"add server with count", `{"type":"add_server","count":3}`, CountCriteria{Type: "add_server", Count: 3}},
		{"first purchase", `{"type":"first_purchase"}`, FirstOccurrenceCriteria{Type: "first_purchase"}},
		{"reach level", `{"type":"reach_level","level":5}`, LevelCriteria{Type: "reach_level", Level: 5}},
		{"navigate", `{"type":"visit_store","navigateTo":"/store","navigationText":"Go shopping"}`,
			NavigateCriteria{Type: "visit_store", NavigateTo: "/store", NavigationText: "Go shopping"}},
		{"unknown", `{"type":"favorite_servers","count":2}`, UnknownCriteria{Type: "favorite_servers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteria([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseCriteria: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
			if got.Kind() != tt.want.Kind() {
				t.Errorf("Kind() = %q", got.Kind())
			}
		})
	}
}

func TestParseCriteriaMalformed(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`{}`,
		`{"count":5}`,
		`{"type":"rate_servers"}`,
		`{"type":"rate_servers","count":0}`,
		`{"type":"reach_level"}`,
		`{"type":"add_server","count":-1}`,
	} {
		if _, err := ParseCriteria([]byte(raw)); !errors.Is(err, ErrMalformedCriteria) {
			t.Errorf("ParseCriteria(%q) err = %v, want ErrMalformedCriteria", raw, err)
		}
	}
}

func TestMissionAvailable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		m    Mission
		want bool
	}{
		{"active no deadline", Mission{IsActive: true}, true},
		{"active future deadline", Mission{IsActive: true, ExpiresAt: &future}, true},
		{"active past deadline", Mission{IsActive: true, ExpiresAt: &past}, false},
		{"deadline is now", Mission{IsActive: true, ExpiresAt: &now}, false},
		{"inactive", Mission{IsActive: false}, false},
	}
	for _, tt := range tests {
		if got := tt.m.Available(now); got != tt.want {
			t.Errorf("%s: Available = %v, want %v", tt.name, got, tt.want)
		}
	}
}
