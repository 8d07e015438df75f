package domain

import (
	"encoding/json"
	"fmt"
)

// RuleSet is the compatibility payload returned by the backend for a user-day
type RuleSet struct {
	Avoid   []AvoidRule   `json:"avoid"`
	UseWith []UseWithRule `json:"usewith"`
}

// AvoidRule reads as "comp contains tag, avoid pairing with source"
type AvoidRule struct {
	Source string     `json:"source"`
	Comp   string     `json:"comp"`
	Rule   RuleDetail `json:"rule"`
}

// RuleDetail carries the ingredient tags and the advice message of an avoid rule
type RuleDetail struct {
	Tag     TagList `json:"tag"`
	Message string  `json:"message"`
}

// UseWithRule is a recommendation tied to a specific product
type UseWithRule struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// TagList holds one tag for a raw rule and the unioned tags of a consolidated one.
// It decodes from either a JSON string or an array of strings.
type TagList []string

// UnmarshalJSON accepts "retinol", ["retinol","AHA"] and null
func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*t = TagList{}
		} else {
			*t = TagList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("tag must be a string or an array of strings: %w", err)
	}
	*t = TagList(many)
	return nil
}
