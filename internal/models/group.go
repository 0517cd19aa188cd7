package models

import "slices"

// Group is a set of members sharing expenses in one master currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Hawaii Trip").
	Name string

	// MasterCurrency is the ISO code every balance in the group is expressed in.
	MasterCurrency string

	// Members is the current membership, as user IDs.
	// Expenses may still reference users that have since left.
	Members []string

	// ImageURL is an optional cover image.
	ImageURL string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is a current member.
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

// Invite is a join code for a group.
type Invite struct {
	Code      string
	GroupID   string
	CreatedBy string
	CreatedAt int64
}
