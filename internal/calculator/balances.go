package calculator

import (
	"sort"

	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/money"
)

// MemberBalance is one person's position in a group.
type MemberBalance struct {
	UserID    string
	Net       float64 // Positive = owed money, Negative = owes money
	TotalPaid float64 // Sum of expense amounts this person paid
	TotalOwed float64 // Sum of this person's shares
}

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// ComputeBalances folds expenses into a net balance per user.
//
// Every member starts at 0 so members with no activity are still listed.
// The payer of each expense is credited its full amount and each participant
// is debited their persisted share. Users who are no longer members keep the
// balance their historical shares produce. Persisted shares are trusted;
// nothing is re-derived or re-validated here.
func ComputeBalances(members []string, expenses []models.Expense) map[string]float64 {
	balances := make(map[string]float64, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	for _, e := range expenses {
		balances[e.PaidBy] += e.Amount
		for _, p := range e.Participants {
			balances[p.UserID] -= p.Amount
		}
	}
	return balances
}

// MemberBalances is ComputeBalances with paid/owed totals, sorted by net
// balance (largest creditor first), ties by user ID.
func MemberBalances(members []string, expenses []models.Expense) []MemberBalance {
	byUser := make(map[string]*MemberBalance, len(members))
	get := func(id string) *MemberBalance {
		if b, ok := byUser[id]; ok {
			return b
		}
		b := &MemberBalance{UserID: id}
		byUser[id] = b
		return b
	}

	for _, m := range members {
		get(m)
	}
	for _, e := range expenses {
		get(e.PaidBy).TotalPaid += e.Amount
		for _, p := range e.Participants {
			get(p.UserID).TotalOwed += p.Amount
		}
	}

	out := make([]MemberBalance, 0, len(byUser))
	for _, b := range byUser {
		b.Net = b.TotalPaid - b.TotalOwed
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Net != out[j].Net {
			return out[i].Net > out[j].Net
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// IsSettled reports whether a balance is zero within money.Epsilon, compared
// in the currency's minor units. A zero-decimal balance must round to zero.
func IsSettled(balance float64, currencyCode string) bool {
	tolerance := money.ToMinorUnits(money.Epsilon, currencyCode)
	units := money.ToMinorUnits(balance, currencyCode)
	return units >= -tolerance && units <= tolerance
}

// SuggestTransfers pairs debtors with creditors so that the listed payments
// would bring every balance to zero. It does not record anything.
//
// Algorithm: sort debtors and creditors by magnitude, then greedily match the
// largest debt with the largest credit, moving on once either side is within
// money.Epsilon of settled.
func SuggestTransfers(balances map[string]float64) []Transfer {
	type entry struct {
		id     string
		amount float64
	}

	var debtors, creditors []entry
	for id, b := range balances {
		switch {
		case b > money.Epsilon:
			creditors = append(creditors, entry{id, b})
		case b < -money.Epsilon:
			debtors = append(debtors, entry{id, -b})
		}
	}
	byAmount := func(s []entry) {
		sort.Slice(s, func(i, j int) bool {
			if s[i].amount != s[j].amount {
				return s[i].amount > s[j].amount
			}
			return s[i].id < s[j].id
		})
	}
	byAmount(debtors)
	byAmount(creditors)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount > money.Epsilon { // Avoid floating point noise
			transfers = append(transfers, Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < money.Epsilon {
			i++
		}
		if creditors[j].amount < money.Epsilon {
			j++
		}
	}
	return transfers
}
