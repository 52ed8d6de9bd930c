package domain

import (
	"strings"
	"unicode"
)

// Identity is what a validator reports for an accepted credential.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName returns the best human-readable label for the identity.
func (i Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.ID != "":
		return i.ID
	default:
		return "unknown identity"
	}
}

// ParseCredentials splits a raw list on whitespace and commas, strips
// surrounding quotes and keeps only fragments longer than minLen
// characters. A minLen of zero or less keeps every non-empty fragment.
func ParseCredentials(raw string, minLen int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		c := CleanCredential(f)
		if c == "" || len(c) <= minLen {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CleanCredential trims whitespace and any single or double quotes.
func CleanCredential(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), `"'`)
}
