package validation

import (
	"slices"
	"strings"

	"github.com/mmynk/splitsmart/internal/calculator"
)

// Patch is a partial edit of an expense. Nil fields are left untouched.
type Patch struct {
	Description      *string
	OriginalAmount   *float64
	OriginalCurrency *string
	Date             *string
	PaidBy           *string
	Tags             *[]string
	// Category is added to the tags when not already present.
	Category *string
	Split    calculator.Directive
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Description == nil && p.OriginalAmount == nil &&
		p.OriginalCurrency == nil && p.Date == nil && p.PaidBy == nil &&
		p.Tags == nil && p.Category == nil && p.Split == nil
}

// Apply returns a copy of d and split with the patched fields replaced.
// A new split also replaces the draft's participant list. The result still
// has to go through ValidateExpenseSubmission.
func (p Patch) Apply(d Draft, split calculator.Directive) (Draft, calculator.Directive) {
	out := d
	out.Participants = slices.Clone(d.Participants)
	out.Tags = slices.Clone(d.Tags)

	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.OriginalAmount != nil {
		out.OriginalAmount = *p.OriginalAmount
	}
	if p.OriginalCurrency != nil {
		out.OriginalCurrency = *p.OriginalCurrency
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.PaidBy != nil {
		out.PaidBy = *p.PaidBy
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(*p.Tags)
	}
	if p.Category != nil {
		if c := strings.TrimSpace(*p.Category); c != "" && !slices.Contains(out.Tags, c) {
			out.Tags = append(out.Tags, c)
		}
	}
	if p.Split != nil {
		split = p.Split
		out.Participants = calculator.Participants(split)
	}
	return out, split
}
