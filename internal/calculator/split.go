package calculator

import (
	"strings"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/money"
)

// Directive is a split request. It is one of EqualSplit, ExactSplit or
// PartsSplit.
type Directive interface {
	Type() models.SplitType
	isDirective()
}

// EqualSplit divides the total evenly between Participants.
type EqualSplit struct {
	Participants []string
}

// ExactAmount is a fixed share for one user.
type ExactAmount struct {
	UserID string
	Amount float64
}

// ExactSplit assigns each user a fixed amount.
type ExactSplit struct {
	Amounts []ExactAmount
}

// PartsWeight is an integer weight for one user.
type PartsWeight struct {
	UserID string
	Parts  int
}

// PartsSplit divides the total proportionally to integer weights.
type PartsSplit struct {
	Parts []PartsWeight
}

func (EqualSplit) Type() models.SplitType { return models.SplitEqual }
func (ExactSplit) Type() models.SplitType { return models.SplitExact }
func (PartsSplit) Type() models.SplitType { return models.SplitParts }

func (EqualSplit) isDirective() {}
func (ExactSplit) isDirective() {}
func (PartsSplit) isDirective() {}

// ResolveSplit turns a directive into the participant list persisted on an
// expense. The shares sum to total within money.Epsilon.
//
// EXACT and PARTS drop entries that end up with nothing to pay instead of
// rejecting the request, so a member toggled into the split but left at zero
// is simply not listed.
func ResolveSplit(total float64, d Directive) ([]models.SplitDetail, error) {
	switch d := d.(type) {
	case EqualSplit:
		return resolveEqual(total, d)
	case ExactSplit:
		return resolveExact(total, d)
	case PartsSplit:
		return resolveParts(total, d)
	default:
		return nil, apperrors.New(apperrors.InvalidSplitType, "split", "Unknown split method")
	}
}

// resolveEqual gives everyone total/count. The remainder of an uneven
// division is not redistributed, so 100/3 leaves a fraction of a cent
// unassigned.
func resolveEqual(total float64, d EqualSplit) ([]models.SplitDetail, error) {
	ids := uniqueIDs(d.Participants)
	if len(ids) == 0 {
		return nil, apperrors.New(apperrors.NoParticipants, "participants",
			"Please select at least one participant.")
	}

	share := total / float64(len(ids))
	details := make([]models.SplitDetail, len(ids))
	for i, id := range ids {
		details[i] = models.SplitDetail{UserID: id, Amount: share}
	}
	return details, nil
}

func resolveExact(total float64, d ExactSplit) ([]models.SplitDetail, error) {
	order, values := collectExact(d.Amounts)

	var sum float64
	for _, id := range order {
		sum += values[id]
	}
	if !money.AmountsMatch(sum, total) {
		return nil, apperrors.New(apperrors.SplitSumMismatch, "split",
			"Split amounts (%s) do not add up to total (%s).",
			money.FormatPlain(sum), money.FormatPlain(total))
	}

	details := make([]models.SplitDetail, 0, len(order))
	for _, id := range order {
		if v := values[id]; v > 0 {
			details = append(details, models.SplitDetail{UserID: id, Amount: v})
		}
	}
	if len(details) == 0 {
		return nil, apperrors.New(apperrors.NoParticipants, "participants",
			"Please select at least one participant.")
	}
	return details, nil
}

func resolveParts(total float64, d PartsSplit) ([]models.SplitDetail, error) {
	order, weights := collectParts(d.Parts)

	totalParts := 0
	for _, id := range order {
		p := weights[id]
		if p < 0 {
			return nil, apperrors.New(apperrors.InvalidParts, "split",
				"Parts cannot be negative.")
		}
		totalParts += p
	}
	if totalParts == 0 {
		return nil, apperrors.New(apperrors.NoPartsAssigned, "split",
			"Please assign parts to at least one participant.")
	}

	details := make([]models.SplitDetail, 0, len(order))
	for _, id := range order {
		p := weights[id]
		if p == 0 {
			continue
		}
		parts := p
		details = append(details, models.SplitDetail{
			UserID: id,
			Amount: float64(p) / float64(totalParts) * total,
			Parts:  &parts,
		})
	}
	return details, nil
}

// CheckSum verifies that details add up to total within money.Epsilon.
func CheckSum(total float64, details []models.SplitDetail) error {
	var sum float64
	for _, d := range details {
		sum += d.Amount
	}
	if !money.AmountsMatch(sum, total) {
		return apperrors.New(apperrors.SplitSumMismatch, "split",
			"Split amounts (%s) do not add up to total (%s).",
			money.FormatPlain(sum), money.FormatPlain(total))
	}
	return nil
}

// DirectiveFromShares rebuilds the directive that would reproduce a
// persisted participant list, for re-editing an expense.
func DirectiveFromShares(splitType models.SplitType, shares []models.SplitDetail) Directive {
	switch splitType {
	case models.SplitExact:
		amounts := make([]ExactAmount, len(shares))
		for i, s := range shares {
			amounts[i] = ExactAmount{UserID: s.UserID, Amount: s.Amount}
		}
		return ExactSplit{Amounts: amounts}
	case models.SplitParts:
		weights := make([]PartsWeight, len(shares))
		for i, s := range shares {
			p := 0
			if s.Parts != nil {
				p = *s.Parts
			}
			weights[i] = PartsWeight{UserID: s.UserID, Parts: p}
		}
		return PartsSplit{Parts: weights}
	default:
		ids := make([]string, len(shares))
		for i, s := range shares {
			ids[i] = s.UserID
		}
		return EqualSplit{Participants: ids}
	}
}

// Participants lists the user IDs a directive names, in input order.
func Participants(d Directive) []string {
	switch d := d.(type) {
	case EqualSplit:
		return uniqueIDs(d.Participants)
	case ExactSplit:
		order, _ := collectExact(d.Amounts)
		return order
	case PartsSplit:
		order, _ := collectParts(d.Parts)
		return order
	}
	return nil
}

// uniqueIDs trims IDs and drops empty and repeated ones, keeping first
// occurrence order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// collectExact applies map semantics to an ordered list: a repeated user
// keeps its first position and its last value.
func collectExact(entries []ExactAmount) ([]string, map[string]float64) {
	order := make([]string, 0, len(entries))
	values := make(map[string]float64, len(entries))
	for _, e := range entries {
		id := strings.TrimSpace(e.UserID)
		if id == "" {
			continue
		}
		if _, ok := values[id]; !ok {
			order = append(order, id)
		}
		values[id] = e.Amount
	}
	return order, values
}

func collectParts(entries []PartsWeight) ([]string, map[string]int) {
	order := make([]string, 0, len(entries))
	weights := make(map[string]int, len(entries))
	for _, e := range entries {
		id := strings.TrimSpace(e.UserID)
		if id == "" {
			continue
		}
		if _, ok := weights[id]; !ok {
			order = append(order, id)
		}
		weights[id] = e.Parts
	}
	return order, weights
}
