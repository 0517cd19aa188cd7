package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/events"
	"github.com/mmynk/splitsmart/internal/export"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/money"
	"github.com/mmynk/splitsmart/internal/rates"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/internal/validation"
	"github.com/mmynk/splitsmart/pkg/api"
	"github.com/mmynk/splitsmart/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store     storage.Store
	converter *rates.Converter
	publisher events.Publisher
	now       func() time.Time
}

// NewExpenseService creates an ExpenseService. A nil publisher drops events.
func NewExpenseService(store storage.Store, converter *rates.Converter, publisher events.Publisher) *ExpenseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ExpenseService{
		store:     store,
		converter: converter,
		publisher: publisher,
		now:       time.Now,
	}
}

// submission is an expense write before it is checked.
type submission struct {
	draft       validation.Draft
	split       calculator.Directive
	attachments []string
	location    string
}

func submissionFromInput(in api.ExpenseInput) (submission, error) {
	split, err := directiveFromAPI(in.Split)
	if err != nil {
		return submission{}, err
	}
	return submission{
		draft: validation.Draft{
			Description:      in.Description,
			OriginalAmount:   in.OriginalAmount,
			OriginalCurrency: in.OriginalCurrency,
			Date:             in.Date,
			GroupID:          in.GroupID,
			PaidBy:           in.PaidBy,
			Participants:     calculator.Participants(split),
			Tags:             in.Tags,
		},
		split:       split,
		attachments: in.Attachments,
		location:    in.Location,
	}, nil
}

// submissionFromExpense rebuilds the inputs that produced e, as the base of
// a partial edit.
func submissionFromExpense(e *models.Expense) submission {
	split := calculator.DirectiveFromShares(e.SplitType, e.Participants)
	return submission{
		draft: validation.Draft{
			Description:      e.Description,
			OriginalAmount:   e.OriginalAmount,
			OriginalCurrency: e.OriginalCurrency,
			Date:             e.Date.Format(time.RFC3339),
			GroupID:          e.GroupID,
			PaidBy:           e.PaidBy,
			Participants:     calculator.Participants(split),
			Tags:             e.Tags,
		},
		split:       split,
		attachments: e.Attachments,
		location:    e.Location,
	}
}

// build runs the rest of the write pipeline on a validated draft: conversion
// to the group's master currency, split allocation, membership and the sum
// check. group must already be loaded and authorized.
func (s *ExpenseService) build(ctx context.Context, group *models.Group, draft *validation.ValidatedDraft, sub submission) (*models.Expense, error) {
	amount, rate, err := s.converter.Convert(ctx, draft.OriginalAmount, draft.OriginalCurrency, group.MasterCurrency)
	if err != nil {
		return nil, err
	}

	details, err := calculator.ResolveSplit(amount, sub.split)
	if err != nil {
		return nil, err
	}

	if err := checkMembership(group, draft.PaidBy, details); err != nil {
		return nil, err
	}
	if err := calculator.CheckSum(amount, details); err != nil {
		return nil, err
	}

	return &models.Expense{
		GroupID:          group.ID,
		Description:      draft.Description,
		Amount:           amount,
		OriginalAmount:   draft.OriginalAmount,
		OriginalCurrency: draft.OriginalCurrency,
		ConversionRate:   rate,
		PaidBy:           draft.PaidBy,
		Participants:     details,
		SplitType:        sub.split.Type(),
		Date:             draft.Date,
		Tags:             draft.Tags,
		Attachments:      sub.attachments,
		TransactionType:  models.TransactionExpense,
		Location:         strings.TrimSpace(sub.location),
	}, nil
}

func (s *ExpenseService) validateAndBuild(ctx context.Context, group *models.Group, sub submission) (*models.Expense, error) {
	draft, err := validation.ValidateExpenseSubmission(sub.draft, s.now())
	if err != nil {
		return nil, err
	}
	return s.build(ctx, group, draft, sub)
}

// checkMembership requires the payer and every participant to be current
// members of the group.
func checkMembership(group *models.Group, paidBy string, details []models.SplitDetail) error {
	if paidBy == "" {
		return apperrors.New(apperrors.InvalidPayer, "paidBy", "Please select who paid")
	}
	if !group.HasMember(paidBy) {
		return apperrors.New(apperrors.InvalidPayer, "paidBy", "Payer must be a member of this group")
	}
	for _, d := range details {
		if !group.HasMember(d.UserID) {
			return apperrors.New(apperrors.NoParticipants, "participants",
				"Participant %s is not a member of this group", d.UserID)
		}
	}
	return nil
}

// publish announces a change. Delivery failures are logged only.
func (s *ExpenseService) publish(ctx context.Context, typ events.Type, e *models.Expense, actorID, currency string) {
	event := events.Event{
		Type:      typ,
		GroupID:   e.GroupID,
		ExpenseID: e.ID,
		ActorID:   actorID,
		Amount:    e.Amount,
		Currency:  currency,
		At:        s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish expense event", "type", typ, "expense_id", e.ID, "error", err)
	}
}

// memberExpense loads an expense and the group it belongs to, checking the
// caller is a member.
func (s *ExpenseService) memberExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Group, string, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, nil, "", err
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, "", err
	}
	group, userID, err := memberGroup(ctx, s.store, expense.GroupID)
	if err != nil {
		return nil, nil, "", err
	}
	return expense, group, userID, nil
}

// CreateExpense validates, allocates and records a new expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	in := req.Msg.Expense
	slog.Info("CreateExpense request received",
		"group_id", in.GroupID,
		"amount", in.OriginalAmount,
		"currency", in.OriginalCurrency,
		"split_type", in.Split.Type,
	)

	sub, err := submissionFromInput(in)
	if err != nil {
		return nil, toConnectError(err)
	}
	draft, err := validation.ValidateExpenseSubmission(sub.draft, s.now())
	if err != nil {
		slog.Warn("CreateExpense rejected", "error", err)
		return nil, toConnectError(err)
	}

	group, userID, err := memberGroup(ctx, s.store, draft.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.build(ctx, group, draft, sub)
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, events.ExpenseCreated, expense, userID, group.MasterCurrency)

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID, "amount", expense.Amount)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, _, _, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense. Every rule runs again and the split is
// re-allocated; the expense stays in its group.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, group, userID, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	in := req.Msg.Expense
	in.GroupID = existing.GroupID
	sub, err := submissionFromInput(in)
	if err != nil {
		return nil, toConnectError(err)
	}
	expense, err := s.replace(ctx, existing, group, userID, sub)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ApplyExpensePatch changes only the given fields of an expense, then runs
// the full update pipeline.
func (s *ExpenseService) ApplyExpensePatch(ctx context.Context, req *connect.Request[api.ApplyExpensePatchRequest]) (*connect.Response[api.ApplyExpensePatchResponse], error) {
	slog.Info("ApplyExpensePatch request received", "expense_id", req.Msg.ExpenseID)

	existing, group, userID, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	p := req.Msg.Patch
	patch := validation.Patch{
		Description:      p.Description,
		OriginalAmount:   p.OriginalAmount,
		OriginalCurrency: p.OriginalCurrency,
		Date:             p.Date,
		PaidBy:           p.PaidBy,
		Tags:             p.Tags,
		Category:         p.Category,
	}
	if p.Split != nil {
		split, err := directiveFromAPI(*p.Split)
		if err != nil {
			return nil, toConnectError(err)
		}
		patch.Split = split
	}
	if patch.IsEmpty() {
		return connect.NewResponse(&api.ApplyExpensePatchResponse{Expense: toAPIExpense(existing)}), nil
	}

	sub := submissionFromExpense(existing)
	sub.draft, sub.split = patch.Apply(sub.draft, sub.split)
	expense, err := s.replace(ctx, existing, group, userID, sub)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ApplyExpensePatchResponse{Expense: toAPIExpense(expense)}), nil
}

// replace builds the new version of existing from sub and stores it.
func (s *ExpenseService) replace(ctx context.Context, existing *models.Expense, group *models.Group, userID string, sub submission) (*models.Expense, error) {
	if existing.TransactionType == models.TransactionTransfer {
		return nil, errTransferReadOnly
	}

	expense, err := s.validateAndBuild(ctx, group, sub)
	if err != nil {
		slog.Warn("Expense update rejected", "expense_id", existing.ID, "error", err)
		return nil, err
	}
	expense.ID = existing.ID

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", existing.ID, "error", err)
		return nil, err
	}
	s.publish(ctx, events.ExpenseUpdated, expense, userID, group.MasterCurrency)

	slog.Info("Expense updated", "expense_id", expense.ID, "amount", expense.Amount)
	return expense, nil
}

// DeleteExpense removes an expense; balances stop counting it immediately.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, group, userID, err := s.memberExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, events.ExpenseDeleted, expense, userID, group.MasterCurrency)

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a group's expenses, newest first, optionally only
// those carrying a tag.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID, "tag", req.Msg.Tag)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	tag := strings.TrimSpace(req.Msg.Tag)
	out := make([]api.Expense, 0, len(expenses))
	for _, e := range expenses {
		if tag != "" && !slices.ContainsFunc(e.Tags, func(t string) bool { return strings.EqualFold(t, tag) }) {
			continue
		}
		out = append(out, toAPIExpense(e))
	}

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// PreviewSplit converts and allocates an amount without saving anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if currency == "" {
		currency = group.MasterCurrency
	}
	if !money.IsSupported(currency) {
		return nil, toConnectError(apperrors.New(apperrors.UnsupportedCurrency, "currency", "Currency is not supported"))
	}
	if _, err := money.ValidateAmount(req.Msg.Amount, currency); err != nil {
		return nil, toConnectError(err)
	}

	split, err := directiveFromAPI(req.Msg.Split)
	if err != nil {
		return nil, toConnectError(err)
	}

	amount, rate, err := s.converter.Convert(ctx, req.Msg.Amount, currency, group.MasterCurrency)
	if err != nil {
		return nil, toConnectError(err)
	}
	details, err := calculator.ResolveSplit(amount, split)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := calculator.CheckSum(amount, details); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{
		Amount:         amount,
		Currency:       group.MasterCurrency,
		ConversionRate: rate,
		Shares:         toAPIShares(details),
	}), nil
}

// ExportGroupExpenses renders a group's expenses as CSV.
func (s *ExpenseService) ExportGroupExpenses(ctx context.Context, req *connect.Request[api.ExportGroupExpensesRequest]) (*connect.Response[api.ExportGroupExpensesResponse], error) {
	slog.Info("ExportGroupExpenses request received", "group_id", req.Msg.GroupID)

	group, _, err := memberGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	ids := slices.Clone(group.Members)
	for _, e := range expenses {
		ids = append(ids, e.PaidBy)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, toConnectError(err)
	}
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}

	var buf bytes.Buffer
	if err := export.WriteGroupCSV(&buf, group, expenses, names); err != nil {
		return nil, toConnectError(fmt.Errorf("export group %s: %w", group.ID, err))
	}

	slog.Info("ExportGroupExpenses successful", "group_id", group.ID, "count", len(expenses))
	return connect.NewResponse(&api.ExportGroupExpensesResponse{
		Filename: export.Filename(group),
		CSV:      buf.String(),
	}), nil
}

// ListCurrencies returns the supported currency table in display order.
func (s *ExpenseService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	table := money.Currencies()
	resp := &api.ListCurrenciesResponse{Currencies: make([]api.Currency, len(table))}
	for i, c := range table {
		resp.Currencies[i] = api.Currency{
			Code:        c.Code,
			Symbol:      c.Symbol,
			Name:        c.Name,
			ZeroDecimal: money.IsZeroDecimal(c.Code),
		}
	}
	return connect.NewResponse(resp), nil
}
