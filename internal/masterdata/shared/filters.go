// Package shared holds helpers common to the master data lists.
package shared

import "strings"

// KeywordFilter is the filter of lists backed by a keyword search endpoint.
type KeywordFilter struct {
	Query string `json:"query"`
}

// IsEmpty reports whether no keyword was entered.
func (f KeywordFilter) IsEmpty() bool { return strings.TrimSpace(f.Query) == "" }

// Keyword returns the trimmed keyword.
func (f KeywordFilter) Keyword() string { return strings.TrimSpace(f.Query) }
