package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Criteria types understood by the mission checker. The value stored in
// missions.criteria->>'type' is also the action category a page handler reports.
const (
	CriteriaRateServers   = "rate_servers"
	CriteriaAddServer     = "add_server"
	CriteriaFirstPurchase = "first_purchase"
	CriteriaReachLevel    = "reach_level"
)

var ErrMalformedCriteria = errors.New("malformed mission criteria")

// Criteria is the closed set of mission completion rules.
type Criteria interface {
	Kind() string
	isCriteria()
}

// CountCriteria completes when the user's count of qualifying actions reaches Count.
type CountCriteria struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// FirstOccurrenceCriteria completes when the qualifying action happened exactly once.
type FirstOccurrenceCriteria struct {
	Type string `json:"type"`
}

// LevelCriteria completes once the user reaches Level.
type LevelCriteria struct {
	Type  string `json:"type"`
	Level int    `json:"level"`
}

// NavigateCriteria is completed by hand (the missions page links the user somewhere).
// The automatic checker never completes it.
type NavigateCriteria struct {
	Type           string `json:"type"`
	NavigateTo     string `json:"navigateTo"`
	NavigationText string `json:"navigationText,omitempty"`
}

// UnknownCriteria carries a type this build does not know how to check.
type UnknownCriteria struct {
	Type string `json:"type"`
}

func (c CountCriteria) Kind() string           { return c.Type }
func (c FirstOccurrenceCriteria) Kind() string { return c.Type }
func (c LevelCriteria) Kind() string           { return c.Type }
func (c NavigateCriteria) Kind() string        { return c.Type }
func (c UnknownCriteria) Kind() string         { return c.Type }

func (CountCriteria) isCriteria()           {}
func (FirstOccurrenceCriteria) isCriteria() {}
func (LevelCriteria) isCriteria()           {}
func (NavigateCriteria) isCriteria()        {}
func (UnknownCriteria) isCriteria()         {}

type rawCriteria struct {
	Type           string `json:"type"`
	Count          *int64 `json:"count,omitempty"`
	Level          *int   `json:"level,omitempty"`
	NavigateTo     string `json:"navigateTo,omitempty"`
	NavigationText string `json:"navigationText,omitempty"`
}

// ParseCriteria decodes the stored criteria object into its typed form.
func ParseCriteria(raw []byte) (Criteria, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformedCriteria)
	}
	var rc rawCriteria
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCriteria, err)
	}
	if rc.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedCriteria)
	}

	switch rc.Type {
	case CriteriaFirstPurchase:
		return FirstOccurrenceCriteria{Type: rc.Type}, nil

	case CriteriaReachLevel:
		if rc.Level == nil || *rc.Level < 1 {
			return nil, fmt.Errorf("%w: %s needs level >= 1", ErrMalformedCriteria, rc.Type)
		}
		return LevelCriteria{Type: rc.Type, Level: *rc.Level}, nil

	case CriteriaAddServer:
		count := int64(1)
		if rc.Count != nil {
			count = *rc.Count
		}
		if count < 1 {
			return nil, fmt.Errorf("%w: %s needs count >= 1", ErrMalformedCriteria, rc.Type)
		}
		return CountCriteria{Type: rc.Type, Count: count}, nil

	case CriteriaRateServers:
		if rc.Count == nil || *rc.Count < 1 {
			return nil, fmt.Errorf("%w: %s needs count >= 1", ErrMalformedCriteria, rc.Type)
		}
		return CountCriteria{Type: rc.Type, Count: *rc.Count}, nil
	}

	if rc.NavigateTo != "" {
		return NavigateCriteria{Type: rc.Type, NavigateTo: rc.NavigateTo, NavigationText: rc.NavigationText}, nil
	}
	return UnknownCriteria{Type: rc.Type}, nil
}
