package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mmynk/splitsmart/internal/models"
)

func equalExpense(payer string, amount float64, participants ...string) models.Expense {
	details, _ := ResolveSplit(amount, EqualSplit{Participants: participants})
	return models.Expense{
		PaidBy:       payer,
		Amount:       amount,
		Participants: details,
		SplitType:    models.SplitEqual,
	}
}

func TestComputeBalances_EndToEnd(t *testing.T) {
	expenses := []models.Expense{
		equalExpense("A", 100, "A", "B"),
		{
			PaidBy: "B",
			Amount: 30,
			Participants: []models.SplitDetail{
				{UserID: "A", Amount: 10},
				{UserID: "B", Amount: 20},
			},
			SplitType: models.SplitExact,
		},
	}

	balances := ComputeBalances([]string{"A", "B"}, expenses[:1])
	if math.Abs(balances["A"]-50) > 0.01 || math.Abs(balances["B"]+50) > 0.01 {
		t.Fatalf("after first expense = %v, want A:+50 B:-50", balances)
	}

	balances = ComputeBalances([]string{"A", "B"}, expenses)
	if math.Abs(balances["A"]-40) > 0.01 {
		t.Errorf("A = %v, want +40", balances["A"])
	}
	if math.Abs(balances["B"]+40) > 0.01 {
		t.Errorf("B = %v, want -40", balances["B"])
	}
}

func TestComputeBalances_ZeroActivityMember(t *testing.T) {
	balances := ComputeBalances(
		[]string{"A", "B", "C"},
		[]models.Expense{equalExpense("A", 20, "A", "B")},
	)

	c, ok := balances["C"]
	if !ok {
		t.Fatal("member with no expenses missing from balances")
	}
	if c != 0 {
		t.Errorf("C = %v, want 0", c)
	}
}

func TestComputeBalances_NoExpenses(t *testing.T) {
	balances := ComputeBalances([]string{"A", "B"}, nil)
	if len(balances) != 2 {
		t.Fatalf("got %d entries, want 2", len(balances))
	}
	for id, b := range balances {
		if b != 0 {
			t.Errorf("%s = %v, want 0", id, b)
		}
	}
}

func TestComputeBalances_FormerMemberKeepsHistory(t *testing.T) {
	// D left the group after sharing a dinner.
	balances := ComputeBalances(
		[]string{"A", "B"},
		[]models.Expense{equalExpense("A", 90, "A", "B", "D")},
	)

	if math.Abs(balances["D"]+30) > 0.01 {
		t.Errorf("D = %v, want -30", balances["D"])
	}
	if math.Abs(balances["A"]-60) > 0.01 {
		t.Errorf("A = %v, want +60", balances["A"])
	}
}

func TestComputeBalances_OrderIndependent(t *testing.T) {
	members := []string{"A", "B", "C", "D"}
	two, one, three := 2, 1, 3
	expenses := []models.Expense{
		equalExpense("A", 100, "A", "B", "C"),
		equalExpense("B", 45.5, "B", "D"),
		equalExpense("C", 12.34, "A", "B", "C", "D"),
		{
			PaidBy: "D",
			Amount: 60,
			Participants: []models.SplitDetail{
				{UserID: "A", Amount: 20, Parts: &two},
				{UserID: "C", Amount: 10, Parts: &one},
				{UserID: "D", Amount: 30, Parts: &three},
			},
			SplitType: models.SplitParts,
		},
		equalExpense("A", 7.77, "D"),
	}

	want := ComputeBalances(members, expenses)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Expense, len(expenses))
		copy(shuffled, expenses)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ComputeBalances(members, shuffled)
		for _, m := range members {
			if math.Abs(got[m]-want[m]) > 1e-9 {
				t.Fatalf("permutation %d: %s = %v, want %v", i, m, got[m], want[m])
			}
		}
	}

	var total float64
	for _, b := range want {
		total += b
	}
	if math.Abs(total) > 0.01 {
		t.Errorf("balances sum to %v, want 0", total)
	}
}

func TestMemberBalances(t *testing.T) {
	got := MemberBalances(
		[]string{"A", "B", "C"},
		[]models.Expense{equalExpense("A", 100, "A", "B")},
	)

	if len(got) != 3 {
		t.Fatalf("got %d balances, want 3", len(got))
	}
	if got[0].UserID != "A" || math.Abs(got[0].Net-50) > 0.01 {
		t.Errorf("first = %+v, want A +50", got[0])
	}
	if got[0].TotalPaid != 100 || got[0].TotalOwed != 50 {
		t.Errorf("A totals = paid %v owed %v", got[0].TotalPaid, got[0].TotalOwed)
	}
	if got[1].UserID != "C" || got[1].Net != 0 {
		t.Errorf("second = %+v, want C 0", got[1])
	}
	if got[2].UserID != "B" || math.Abs(got[2].Net+50) > 0.01 {
		t.Errorf("last = %+v, want B -50", got[2])
	}
}

func TestIsSettled(t *testing.T) {
	tests := []struct {
		balance  float64
		currency string
		want     bool
	}{
		{0, "USD", true},
		{0.01, "USD", true},
		{-0.01, "USD", true},
		{0.009, "USD", true},
		{0.02, "USD", false},
		{-30, "USD", false},
		{0.4, "JPY", true},
		{0.5, "JPY", false},
		{-1, "JPY", false},
	}
	for _, tt := range tests {
		if got := IsSettled(tt.balance, tt.currency); got != tt.want {
			t.Errorf("IsSettled(%v, %s) = %v, want %v", tt.balance, tt.currency, got, tt.want)
		}
	}
}

func TestSuggestTransfers(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]float64
		want     []Transfer
	}{
		{
			name:     "everyone settled",
			balances: map[string]float64{"A": 0, "B": 0.004},
			want:     nil,
		},
		{
			name:     "single debt",
			balances: map[string]float64{"A": 40, "B": -40},
			want:     []Transfer{{From: "B", To: "A", Amount: 40}},
		},
		{
			name:     "two debtors one creditor",
			balances: map[string]float64{"A": 60, "B": -20, "C": -40},
			want: []Transfer{
				{From: "C", To: "A", Amount: 40},
				{From: "B", To: "A", Amount: 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTransfers(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To ||
					math.Abs(got[i].Amount-tt.want[i].Amount) > 0.01 {
					t.Errorf("transfer %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
