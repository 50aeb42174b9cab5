package entity

import "strings"

// Summary is the structured payload attached to a summarized item. The field
// set mirrors the JSON contract with the LLM provider: five required fields
// plus KeyQuotes, which may be absent entirely.
type Summary struct {
	ELI5               string   `json:"eli5"`
	ELI16              string   `json:"eli16"`
	WhyThisMatters     string   `json:"why_this_matters"`
	WhatChanged        string   `json:"what_changed"`
	KeyQuotes          []string `json:"key_quotes,omitempty"`
	ConfidenceUnknowns string   `json:"confidence_unknowns"`
}

// Validate enforces the summary schema: every field except KeyQuotes must be
// a non-empty string.
func (s *Summary) Validate() error {
	required := map[string]string{
		"eli5":                s.ELI5,
		"eli16":               s.ELI16,
		"why_this_matters":    s.WhyThisMatters,
		"what_changed":        s.WhatChanged,
		"confidence_unknowns": s.ConfidenceUnknowns,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: "must be a non-empty string"}
		}
	}
	return nil
}
