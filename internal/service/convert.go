package service

import (
	"strings"
	"time"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/pkg/api"
)

// directiveFromAPI reads a split request. The type name is case-insensitive.
func directiveFromAPI(split api.Split) (calculator.Directive, error) {
	switch models.SplitType(strings.ToUpper(strings.TrimSpace(split.Type))) {
	case models.SplitEqual:
		ids := make([]string, len(split.Entries))
		for i, e := range split.Entries {
			ids[i] = e.UserID
		}
		return calculator.EqualSplit{Participants: ids}, nil
	case models.SplitExact:
		amounts := make([]calculator.ExactAmount, len(split.Entries))
		for i, e := range split.Entries {
			amounts[i] = calculator.ExactAmount{UserID: e.UserID, Amount: e.Amount}
		}
		return calculator.ExactSplit{Amounts: amounts}, nil
	case models.SplitParts:
		weights := make([]calculator.PartsWeight, len(split.Entries))
		for i, e := range split.Entries {
			weights[i] = calculator.PartsWeight{UserID: e.UserID, Parts: e.Parts}
		}
		return calculator.PartsSplit{Parts: weights}, nil
	}
	return nil, apperrors.New(apperrors.InvalidSplitType, "split", "Unknown split method %q", split.Type)
}

func toAPIShares(details []models.SplitDetail) []api.Share {
	shares := make([]api.Share, len(details))
	for i, d := range details {
		shares[i] = api.Share{UserID: d.UserID, Amount: d.Amount, Parts: d.Parts}
	}
	return shares
}

func toAPIExpense(e *models.Expense) api.Expense {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	attachments := e.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return api.Expense{
		ID:               e.ID,
		GroupID:          e.GroupID,
		Description:      e.Description,
		Amount:           e.Amount,
		OriginalAmount:   e.OriginalAmount,
		OriginalCurrency: e.OriginalCurrency,
		ConversionRate:   e.ConversionRate,
		PaidBy:           e.PaidBy,
		Participants:     toAPIShares(e.Participants),
		SplitType:        string(e.SplitType),
		Date:             e.Date.Format(time.RFC3339),
		Tags:             tags,
		Attachments:      attachments,
		TransactionType:  string(e.TransactionType),
		Location:         e.Location,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// toAPIGroup resolves member names from users; members without an account
// keep an empty name.
func toAPIGroup(g *models.Group, users map[string]*models.User) api.Group {
	members := make([]api.Member, len(g.Members))
	for i, id := range g.Members {
		members[i] = api.Member{UserID: id}
		if u, ok := users[id]; ok {
			members[i].Name = u.Name
			members[i].AvatarURL = u.AvatarURL
		}
	}
	return api.Group{
		ID:             g.ID,
		Name:           g.Name,
		MasterCurrency: g.MasterCurrency,
		Members:        members,
		ImageURL:       g.ImageURL,
		CreatedAt:      g.CreatedAt,
	}
}

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

func toAPIInvite(inv *models.Invite, group *models.Group) api.Invite {
	return api.Invite{
		Code:      inv.Code,
		GroupID:   inv.GroupID,
		GroupName: group.Name,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt,
	}
}
