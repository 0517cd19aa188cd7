package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/money"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/internal/validation"
	"github.com/mmynk/splitsmart/pkg/api"
	"github.com/mmynk/splitsmart/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store               storage.Store
	balanceComputations prometheus.Counter
}

// NewGroupService creates a new GroupService with the given storage backend.
// Its collectors are registered with reg when reg is not nil.
func NewGroupService(store storage.Store, reg prometheus.Registerer) *GroupService {
	s := &GroupService{
		store: store,
		balanceComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitsmart",
			Name:      "balance_computations_total",
			Help:      "Group balance recomputations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(s.balanceComputations)
	}
	return s
}

// groupResponse loads member names and converts g for a response.
func (s *GroupService) groupResponse(ctx context.Context, g *models.Group) (api.Group, error) {
	users, err := s.store.GetUsersByIDs(ctx, g.Members)
	if err != nil {
		return api.Group{}, err
	}
	return toAPIGroup(g, users), nil
}

// CreateGroup creates a new group. The caller becomes its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"currency", req.Msg.MasterCurrency,
		"members_count", len(req.Msg.MemberIDs),
	)

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	members := []string{userID}
	for _, id := range req.Msg.MemberIDs {
		if id != userID {
			members = append(members, id)
		}
	}

	in, err := validation.ValidateGroupInput(validation.GroupInput{
		Name:           req.Msg.Name,
		MasterCurrency: req.Msg.MasterCurrency,
		Members:        members,
		ImageURL:       req.Msg.ImageURL,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	users, err := s.store.GetUsersByIDs(ctx, in.Members)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, id := range in.Members {
		if _, ok := users[id]; !ok {
			return nil, toConnectError(apperrors.New(apperrors.InvalidGroup, "members", "Unknown user %s", id))
		}
	}

	group := &models.Group{
		Name:           in.Name,
		MasterCurrency: in.MasterCurrency,
		Members:        in.Members,
		ImageURL:       in.ImageURL,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group, users)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: resp}), nil
}

// ListGroups retrieves the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.Members...)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g, users)
	}

	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup changes a group's name, image or master currency. The
// currency is locked once the group has expenses.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	update, err := validation.ValidateGroupUpdate(validation.GroupUpdate{
		Name:           req.Msg.Name,
		MasterCurrency: req.Msg.MasterCurrency,
		ImageURL:       req.Msg.ImageURL,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	if update.Name != nil {
		group.Name = *update.Name
	}
	if update.ImageURL != nil {
		group.ImageURL = *update.ImageURL
	}
	if update.MasterCurrency != nil && *update.MasterCurrency != group.MasterCurrency {
		expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if len(expenses) > 0 {
			return nil, toConnectError(errCurrencyLocked)
		}
		group.MasterCurrency = *update.MasterCurrency
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&api.UpdateGroupResponse{Group: resp}), nil
}

// DeleteGroup removes a group and its expenses.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// CreateInvite issues a join code for a group.
func (s *GroupService) CreateInvite(ctx context.Context, req *connect.Request[api.CreateInviteRequest]) (*connect.Response[api.CreateInviteResponse], error) {
	group, userID, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	invite := &models.Invite{GroupID: group.ID, CreatedBy: userID}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		slog.Error("CreateInvite failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Invite created", "group_id", group.ID, "created_by", userID)
	return connect.NewResponse(&api.CreateInviteResponse{Invite: toAPIInvite(invite, group)}), nil
}

// GetInvite describes an invite so a prospective member can see which group
// it is for.
func (s *GroupService) GetInvite(ctx context.Context, req *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	invite, group, err := s.resolveInvite(ctx, req.Msg.Code)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetInviteResponse{Invite: toAPIInvite(invite, group)}), nil
}

// JoinGroup adds the caller to the group an invite points at. Joining a
// group twice is harmless.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invite, _, err := s.resolveInvite(ctx, req.Msg.Code)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.AddMember(ctx, invite.GroupID, userID); err != nil {
		slog.Error("JoinGroup failed", "group_id", invite.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, invite.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("User joined group", "group_id", group.ID, "user_id", userID)
	return connect.NewResponse(&api.JoinGroupResponse{Group: resp}), nil
}

func (s *GroupService) resolveInvite(ctx context.Context, code string) (*models.Invite, *models.Group, error) {
	invite, err := s.store.GetInvite(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.store.GetGroup(ctx, invite.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return invite, group, nil
}

// RemoveMember takes a user out of a group. A member whose balance is not
// settled cannot be removed; their past shares keep counting either way.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	target := req.Msg.UserID
	if !group.HasMember(target) {
		return nil, toConnectError(fmt.Errorf("member %s: %w", target, storage.ErrNotFound))
	}
	if len(group.Members) == 1 {
		return nil, toConnectError(errLastMember)
	}

	expenses, err := s.groupExpenses(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	balance := calculator.ComputeBalances(group.Members, expenses)[target]
	if !calculator.IsSettled(balance, group.MasterCurrency) {
		slog.Warn("RemoveMember refused", "group_id", group.ID, "user_id", target, "balance", balance)
		return nil, toConnectError(fmt.Errorf("%w: %s", errUnsettledBalance, money.Format(balance, group.MasterCurrency)))
	}

	if err := s.store.RemoveMember(ctx, group.ID, target); err != nil {
		slog.Error("RemoveMember failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	group, err = s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Member removed", "group_id", group.ID, "user_id", target)
	return connect.NewResponse(&api.RemoveMemberResponse{Group: resp}), nil
}

// GetGroupBalances recomputes every balance in the group from its expenses
// and suggests the transfers that would settle them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.groupExpenses(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.balanceComputations.Inc()

	breakdown := calculator.MemberBalances(group.Members, expenses)
	transfers := calculator.SuggestTransfers(calculator.ComputeBalances(group.Members, expenses))

	ids := make([]string, len(breakdown))
	for i, b := range breakdown {
		ids[i] = b.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, toConnectError(err)
	}

	cur := group.MasterCurrency
	resp := &api.GetGroupBalancesResponse{
		Currency:  cur,
		Balances:  make([]api.MemberBalance, len(breakdown)),
		Transfers: make([]api.Transfer, len(transfers)),
	}
	for i, b := range breakdown {
		name := ""
		if u, ok := users[b.UserID]; ok {
			name = u.Name
		}
		resp.Balances[i] = api.MemberBalance{
			UserID:    b.UserID,
			Name:      name,
			Net:       money.Round(b.Net, cur),
			TotalPaid: money.Round(b.TotalPaid, cur),
			TotalOwed: money.Round(b.TotalOwed, cur),
			Settled:   calculator.IsSettled(b.Net, cur),
			Member:    group.HasMember(b.UserID),
		}
	}
	for i, t := range transfers {
		resp.Transfers[i] = api.Transfer{From: t.From, To: t.To, Amount: money.Round(t.Amount, cur)}
	}

	slog.Info("GetGroupBalances successful", "group_id", group.ID, "expenses", len(expenses), "transfers", len(transfers))
	return connect.NewResponse(resp), nil
}

// groupExpenses lists a group's expenses in the form the calculator takes.
func (s *GroupService) groupExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	list, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Expense, len(list))
	for i, e := range list {
		out[i] = *e
	}
	return out, nil
}
