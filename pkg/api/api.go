// Package api defines the request and response messages of the splitsmart
// RPC services. Messages travel as JSON; field names are camelCase.
//
// Money fields are numbers in the owning group's master currency unless the
// name says otherwise (OriginalAmount is in OriginalCurrency). Dates are
// YYYY-MM-DD or RFC 3339 strings.
package api

// SplitEntry is one participant in a split request. Amount is read for EXACT
// splits and Parts for PARTS splits; EQUAL splits only use UserID.
type SplitEntry struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount,omitempty"`
	Parts  int     `json:"parts,omitempty"`
}

// Split describes how an expense is divided. Type is EQUAL, EXACT or PARTS.
type Split struct {
	Type    string       `json:"type"`
	Entries []SplitEntry `json:"entries"`
}

// Share is a participant's resolved portion of an expense.
type Share struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Parts  *int    `json:"parts,omitempty"`
}
