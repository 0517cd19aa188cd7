package models

import "time"

// SplitType records which allocation produced an expense's participants.
type SplitType string

const (
	SplitEqual SplitType = "EQUAL"
	SplitExact SplitType = "EXACT"
	SplitParts SplitType = "PARTS"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitParts:
		return true
	}
	return false
}

// TransactionType distinguishes shared expenses from member-to-member
// transfers. Only expenses are written by this service.
type TransactionType string

const (
	TransactionExpense  TransactionType = "EXPENSE"
	TransactionTransfer TransactionType = "TRANSFER"
)

// SplitDetail is one participant's share of an expense, in master currency.
type SplitDetail struct {
	UserID string
	Amount float64

	// Parts is the weight used for PARTS splits; nil otherwise.
	Parts *int
}

// Expense is a recorded shared cost.
//
// Amount is what all balance math uses. OriginalAmount and OriginalCurrency
// are the values as entered; ConversionRate is set only when the original
// currency differs from the group's master currency.
type Expense struct {
	ID      string
	GroupID string

	Description string

	Amount           float64
	OriginalAmount   float64
	OriginalCurrency string
	ConversionRate   *float64

	// PaidBy is credited the full Amount.
	PaidBy string

	// Participants sum to Amount within money.Epsilon at write time.
	Participants []SplitDetail
	SplitType    SplitType

	Date            time.Time
	Tags            []string
	Attachments     []string
	TransactionType TransactionType
	Location        string

	CreatedAt int64
	UpdatedAt int64
}

// ShareOf returns userID's share, or 0 if they are not a participant.
func (e *Expense) ShareOf(userID string) float64 {
	var total float64
	for _, p := range e.Participants {
		if p.UserID == userID {
			total += p.Amount
		}
	}
	return total
}

// Involves reports whether userID paid for or participates in the expense.
func (e *Expense) Involves(userID string) bool {
	if e.PaidBy == userID {
		return true
	}
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
