package api

// Member is a group member with display details.
type Member struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Group is a set of members sharing expenses in one master currency.
type Group struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MasterCurrency string   `json:"masterCurrency"`
	Members        []Member `json:"members"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	CreatedAt      int64    `json:"createdAt"`
}

// MemberBalance is one person's position in a group.
type MemberBalance struct {
	UserID    string  `json:"userId"`
	Name      string  `json:"name"`
	Net       float64 `json:"net"`
	TotalPaid float64 `json:"totalPaid"`
	TotalOwed float64 `json:"totalOwed"`
	Settled   bool    `json:"settled"`
	// Member is false for users who have left but still appear in expenses.
	Member bool `json:"member"`
}

// Transfer is a suggested payment that would settle debts.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Invite is a join code for a group.
type Invite struct {
	Code      string `json:"code"`
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
}

// CreateGroupRequest creates a group. The caller is always a member and is
// added to MemberIDs when missing.
type CreateGroupRequest struct {
	Name           string   `json:"name"`
	MasterCurrency string   `json:"masterCurrency"`
	MemberIDs      []string `json:"memberIds"`
	ImageURL       string   `json:"imageUrl,omitempty"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// UpdateGroupRequest changes the given fields. MasterCurrency can only change
// while the group has no expenses.
type UpdateGroupRequest struct {
	GroupID        string  `json:"groupId"`
	Name           *string `json:"name,omitempty"`
	MasterCurrency *string `json:"masterCurrency,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
}

type UpdateGroupResponse struct {
	Group Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type CreateInviteRequest struct {
	GroupID string `json:"groupId"`
}

type CreateInviteResponse struct {
	Invite Invite `json:"invite"`
}

type GetInviteRequest struct {
	Code string `json:"code"`
}

type GetInviteResponse struct {
	Invite Invite `json:"invite"`
}

type JoinGroupRequest struct {
	Code string `json:"code"`
}

type JoinGroupResponse struct {
	Group Group `json:"group"`
}

// RemoveMemberRequest removes a member. It is refused while the member's
// balance is not settled.
type RemoveMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type RemoveMemberResponse struct {
	Group Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	Currency  string          `json:"currency"`
	Balances  []MemberBalance `json:"balances"`
	Transfers []Transfer      `json:"transfers"`
}
