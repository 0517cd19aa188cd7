package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/events"
	"github.com/mmynk/splitsmart/pkg/api"
)

func TestCreateExpense_EqualSplit(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		group := env.createGroup(t, "alice", "USD", "bob", "carol")

		created := env.addExpense(t, "alice", expenseInput(group.ID, "alice", 100, "alice", "bob", "carol"))

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, group.ID, created.GroupID)
		assert.Equal(t, 100.0, created.Amount)
		assert.Nil(t, created.ConversionRate)
		assert.Equal(t, "EQUAL", created.SplitType)
		assert.Equal(t, "EXPENSE", created.TransactionType)
		assert.Equal(t, "2024-06-01T00:00:00Z", created.Date)
		require.Len(t, created.Participants, 3)

		var sum float64
		for _, p := range created.Participants {
			assert.InDelta(t, 33.333, p.Amount, 0.001)
			sum += p.Amount
		}
		assert.InDelta(t, 100, sum, 0.01)

		got, err := env.expenses.GetExpense(context.Background(), as("bob", &api.GetExpenseRequest{ExpenseID: created.ID}))
		require.NoError(t, err)
		assert.Equal(t, created, got.Msg.Expense)

		published := env.recorder.Events()
		require.Len(t, published, 1)
		assert.Equal(t, events.ExpenseCreated, published[0].Type)
		assert.Equal(t, created.ID, published[0].ExpenseID)
		assert.Equal(t, "alice", published[0].ActorID)
		assert.Equal(t, "USD", published[0].Currency)
	})
}

func TestCreateExpense_ConvertsToMasterCurrency(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		group := env.createGroup(t, "alice", "CAD", "bob")

		in := expenseInput(group.ID, "alice", 100, "alice", "bob")
		in.Split = api.Split{Type: "exact", Entries: []api.SplitEntry{
			{UserID: "alice", Amount: 100},
			{UserID: "bob", Amount: 37},
		}}
		created := env.addExpense(t, "alice", in)

		assert.InDelta(t, 137, created.Amount, 1e-9)
		assert.Equal(t, 100.0, created.OriginalAmount)
		assert.Equal(t, "USD", created.OriginalCurrency)
		require.NotNil(t, created.ConversionRate)
		assert.InDelta(t, 1.37, *created.ConversionRate, 1e-9)
		assert.Equal(t, "EXACT", created.SplitType)
	})
}

func TestCreateExpense_PartsOmitsZeroWeights(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		group := env.createGroup(t, "alice", "USD", "bob", "carol")

		in := expenseInput(group.ID, "alice", 90)
		in.Split = api.Split{Type: "PARTS", Entries: []api.SplitEntry{
			{UserID: "alice", Parts: 2},
			{UserID: "bob", Parts: 1},
			{UserID: "carol", Parts: 0},
		}}
		created := env.addExpense(t, "alice", in)

		require.Len(t, created.Participants, 2)
		assert.Equal(t, "alice", created.Participants[0].UserID)
		assert.InDelta(t, 60, created.Participants[0].Amount, 1e-9)
		require.NotNil(t, created.Participants[0].Parts)
		assert.Equal(t, 2, *created.Participants[0].Parts)
		assert.Equal(t, "bob", created.Participants[1].UserID)
		assert.InDelta(t, 30, created.Participants[1].Amount, 1e-9)
	})
}

func TestCreateExpense_TrimsParticipantIDs(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		group := env.createGroup(t, "alice", "USD", "bob")

		created := env.addExpense(t, "alice", expenseInput(group.ID, "alice", 40, "alice", " bob"))
		require.Len(t, created.Participants, 2)
		assert.Equal(t, "bob", created.Participants[1].UserID)

		in := expenseInput(group.ID, "alice", 40)
		in.Split = api.Split{Type: "EXACT", Entries: []api.SplitEntry{
			{UserID: "alice ", Amount: 10},
			{UserID: " bob", Amount: 30},
		}}
		created = env.addExpense(t, "alice", in)
		require.Len(t, created.Participants, 2)
		assert.Equal(t, "alice", created.Participants[0].UserID)
		assert.Equal(t, "bob", created.Participants[1].UserID)
	})
}

func TestCreateExpense_Rejected(t *testing.T) {
	env := setupTestServer(t, testStores[0].open(t))
	group := env.createGroup(t, "alice", "USD", "bob")

	tests := []struct {
		name   string
		mutate func(in *api.ExpenseInput)
		kind   string
		field  string
	}{
		{
			name:   "missing description",
			mutate: func(in *api.ExpenseInput) { in.Description = "" },
			kind:   "InvalidDescription", field: "description",
		},
		{
			name:   "script in description",
			mutate: func(in *api.ExpenseInput) { in.Description = "<script>alert(1)</script>" },
			kind:   "InvalidDescription", field: "description",
		},
		{
			name:   "unsupported currency",
			mutate: func(in *api.ExpenseInput) { in.OriginalCurrency = "XYZ" },
			kind:   "UnsupportedCurrency", field: "originalCurrency",
		},
		{
			name:   "zero amount",
			mutate: func(in *api.ExpenseInput) { in.OriginalAmount = 0 },
			kind:   "InvalidAmount", field: "originalAmount",
		},
		{
			name:   "three decimals",
			mutate: func(in *api.ExpenseInput) { in.OriginalAmount = 100.001 },
			kind:   "TooManyDecimals", field: "originalAmount",
		},
		{
			name: "fractional yen",
			mutate: func(in *api.ExpenseInput) {
				in.OriginalCurrency = "JPY"
				in.OriginalAmount = 100.5
			},
			kind: "TooManyDecimals", field: "originalAmount",
		},
		{
			name:   "too large",
			mutate: func(in *api.ExpenseInput) { in.OriginalAmount = 2_000_000_000 },
			kind:   "AmountTooLarge", field: "originalAmount",
		},
		{
			name:   "eleven years ago",
			mutate: func(in *api.ExpenseInput) { in.Date = "2013-06-01" },
			kind:   "InvalidDate", field: "date",
		},
		{
			name:   "two years ahead",
			mutate: func(in *api.ExpenseInput) { in.Date = "2026-06-15" },
			kind:   "InvalidDate", field: "date",
		},
		{
			name:   "missing group",
			mutate: func(in *api.ExpenseInput) { in.GroupID = "" },
			kind:   "InvalidGroup", field: "groupId",
		},
		{
			name:   "no participants",
			mutate: func(in *api.ExpenseInput) { in.Split = equalSplit() },
			kind:   "NoParticipants", field: "participants",
		},
		{
			name:   "unknown split type",
			mutate: func(in *api.ExpenseInput) { in.Split.Type = "PERCENT" },
			kind:   "InvalidSplitType", field: "split",
		},
		{
			name: "exact sum mismatch",
			mutate: func(in *api.ExpenseInput) {
				in.Split = api.Split{Type: "EXACT", Entries: []api.SplitEntry{
					{UserID: "alice", Amount: 50},
					{UserID: "bob", Amount: 30},
				}}
			},
			kind: "SplitSumMismatch", field: "split",
		},
		{
			name: "no parts assigned",
			mutate: func(in *api.ExpenseInput) {
				in.Split = api.Split{Type: "PARTS", Entries: []api.SplitEntry{{UserID: "alice"}, {UserID: "bob"}}}
			},
			kind: "NoPartsAssigned", field: "split",
		},
		{
			name: "negative parts",
			mutate: func(in *api.ExpenseInput) {
				in.Split = api.Split{Type: "PARTS", Entries: []api.SplitEntry{
					{UserID: "alice", Parts: 3},
					{UserID: "bob", Parts: -1},
				}}
			},
			kind: "InvalidParts", field: "split",
		},
		{
			name:   "too many tags",
			mutate: func(in *api.ExpenseInput) { in.Tags = strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",") },
			kind:   "TooManyTags", field: "tags",
		},
		{
			name:   "payer outside group",
			mutate: func(in *api.ExpenseInput) { in.PaidBy = "dave" },
			kind:   "InvalidPayer", field: "paidBy",
		},
		{
			name:   "missing payer",
			mutate: func(in *api.ExpenseInput) { in.PaidBy = "" },
			kind:   "InvalidPayer", field: "paidBy",
		},
		{
			name:   "participant outside group",
			mutate: func(in *api.ExpenseInput) { in.Split = equalSplit("alice", "dave") },
			kind:   "NoParticipants", field: "participants",
		},
		{
			name:   "no exchange rate",
			mutate: func(in *api.ExpenseInput) { in.OriginalCurrency = "KRW" },
			kind:   "RateUnavailable", field: "originalCurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := expenseInput(group.ID, "alice", 100, "alice", "bob")
			tt.mutate(&in)

			_, err := env.expenses.CreateExpense(context.Background(), as("alice", &api.CreateExpenseRequest{Expense: in}))
			requireRule(t, err, tt.kind, tt.field)
		})
	}

	list, err := env.expenses.ListExpenses(context.Background(), as("alice", &api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses, "rejected expenses are never stored")
	assert.Empty(t, env.recorder.Events())
}

func TestCreateExpense_Access(t *testing.T) {
	env := setupTestServer(t, testStores[0].open(t))
	group := env.createGroup(t, "alice", "USD", "bob")
	ctx := context.Background()

	_, err := env.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		Expense: expenseInput(group.ID, "alice", 10, "alice"),
	}))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = env.expenses.CreateExpense(ctx, as("carol", &api.CreateExpenseRequest{
		Expense: expenseInput(group.ID, "alice", 10, "alice"),
	}))
	requireCode(t, err, connect.CodePermissionDenied)

	_, err = env.expenses.CreateExpense(ctx, as("alice", &api.CreateExpenseRequest{
		Expense: expenseInput("no-such-group", "alice", 10, "alice"),
	}))
	requireCode(t, err, connect.CodeNotFound)

	created := env.addExpense(t, "alice", expenseInput(group.ID, "alice", 10, "alice", "bob"))
	_, err = env.expenses.GetExpense(ctx, as("carol", &api.GetExpenseRequest{ExpenseID: created.ID}))
	requireCode(t, err, connect.CodePermissionDenied)

	_, err = env.expenses.GetExpense(ctx, as("alice", &api.GetExpenseRequest{ExpenseID: "missing"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestCreateExpense_PublishFailureIsIgnored(t *testing.T) {
	env := setupTestServer(t, testStores[0].open(t))
	env.recorder.Err = errors.New("broker down")
	group := env.createGroup(t, "alice", "USD", "bob")

	created := env.addExpense(t, "alice", expenseInput(group.ID, "alice", 10, "alice", "bob"))
	assert.NotEmpty(t, created.ID)
	assert.Len(t, env.recorder.Events(), 1)
}

// Alice pays 100 split with Bob, Bob pays 20 split with Alice.
func TestExpenses_EndToEndBalances(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		group := env.createGroup(t, "alice", "USD", "bob", "carol")

		env.addExpense(t, "alice", expenseInput(group.ID, "alice", 100, "alice", "bob"))
		env.addExpense(t, "bob", expenseInput(group.ID, "bob", 20, "alice", "bob"))

		balances := env.balances(t, "carol", group.ID)
		assert.Equal(t, 40.0, balances["alice"].Net)
		assert.Equal(t, -40.0, balances["bob"].Net)
		assert.Equal(t, 0.0, balances["carol"].Net)
		assert.True(t, balances["carol"].Settled)
		assert.Equal(t, 100.0, balances["alice"].TotalPaid)
		assert.Equal(t, 60.0, balances["alice"].TotalOwed)
	})
}

func TestUpdateExpense(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()
		group := env.createGroup(t, "alice", "USD", "bob")
		other := env.createGroup(t, "alice", "USD", "carol")
		created := env.addExpense(t, "alice", expenseInput(group.ID, "alice", 50, "alice", "bob"))

		in := expenseInput(other.ID, "bob", 90)
		in.Description = "Groceries"
		in.Tags = []string{" food ", ""}
		in.Split = api.Split{Type: "PARTS", Entries: []api.SplitEntry{
			{UserID: "alice", Parts: 2},
			{UserID: "bob", Parts: 1},
		}}
		resp, err := env.expenses.UpdateExpense(ctx, as("bob", &api.UpdateExpenseRequest{ExpenseID: created.ID, Expense: in}))
		require.NoError(t, err)

		updated := resp.Msg.Expense
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, group.ID, updated.GroupID, "group is immutable")
		assert.Equal(t, "Groceries", updated.Description)
		assert.Equal(t, "bob", updated.PaidBy)
		assert.Equal(t, []string{"food"}, updated.Tags)
		assert.Equal(t, "PARTS", updated.SplitType)
		assert.InDelta(t, 60, updated.Participants[0].Amount, 1e-9)

		balances := env.balances(t, "alice", group.ID)
		assert.InDelta(t, -60, balances["alice"].Net, 1e-9)
		assert.InDelta(t, 60, balances["bob"].Net, 1e-9)

		published := env.recorder.Events()
		require.Len(t, published, 2)
		assert.Equal(t, events.ExpenseUpdated, published[1].Type)

		in.Split = equalSplit("alice", "bob")
		in.OriginalAmount = -5
		_, err = env.expenses.UpdateExpense(ctx, as("bob", &api.UpdateExpenseRequest{ExpenseID: created.ID, Expense: in}))
		requireRule(t, err, "InvalidAmount", "originalAmount")

		_, err = env.expenses.UpdateExpense(ctx, as("bob", &api.UpdateExpenseRequest{ExpenseID: "missing", Expense: in}))
		requireCode(t, err, connect.CodeNotFound)
	})
}

func TestApplyExpensePatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()
		group := env.createGroup(t, "alice", "USD", "bob")

		in := expenseInput(group.ID, "alice", 40, "alice", "bob")
		in.Tags = []string{"food"}
		created := env.addExpense(t, "alice", in)

		amount := 60.0
		category := "travel"
		resp, err := env.expenses.ApplyExpensePatch(ctx, as("alice", &api.ApplyExpensePatchRequest{
			ExpenseID: created.ID,
			Patch:     api.ExpensePatch{OriginalAmount: &amount, Category: &category},
		}))
		require.NoError(t, err)

		patched := resp.Msg.Expense
		assert.Equal(t, "Dinner", patched.Description, "untouched fields survive")
		assert.Equal(t, 60.0, patched.Amount)
		assert.Equal(t, []string{"food", "travel"}, patched.Tags)
		require.Len(t, patched.Participants, 2)
		assert.Equal(t, 30.0, patched.Participants[0].Amount, "equal split is re-allocated")

		resp, err = env.expenses.ApplyExpensePatch(ctx, as("alice", &api.ApplyExpensePatchRequest{ExpenseID: created.ID}))
		require.NoError(t, err)
		assert.Equal(t, patched.Amount, resp.Msg.Expense.Amount, "empty patch changes nothing")

		resp, err = env.expenses.ApplyExpensePatch(ctx, as("alice", &api.ApplyExpensePatchRequest{
			ExpenseID: created.ID,
			Patch: api.ExpensePatch{Split: &api.Split{Type: "EXACT", Entries: []api.SplitEntry{
				{UserID: "alice", Amount: 10},
				{UserID: "bob", Amount: 50},
			}}},
		}))
		require.NoError(t, err)
		assert.Equal(t, "EXACT", resp.Msg.Expense.SplitType)

		// An exact split no longer matches a new total.
		amount = 70
		_, err = env.expenses.ApplyExpensePatch(ctx, as("alice", &api.ApplyExpensePatchRequest{
			ExpenseID: created.ID,
			Patch:     api.ExpensePatch{OriginalAmount: &amount},
		}))
		requireRule(t, err, "SplitSumMismatch", "split")

		desc := "x"
		_, err = env.expenses.ApplyExpensePatch(ctx, as("alice", &api.ApplyExpensePatchRequest{
			ExpenseID: created.ID,
			Patch:     api.ExpensePatch{Description: &desc},
		}))
		requireRule(t, err, "InvalidDescription", "description")
	})
}

func TestDeleteExpense(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()
		group := env.createGroup(t, "alice", "USD", "bob")
		created := env.addExpense(t, "alice", expenseInput(group.ID, "alice", 50, "alice", "bob"))

		_, err := env.expenses.DeleteExpense(ctx, as("carol", &api.DeleteExpenseRequest{ExpenseID: created.ID}))
		requireCode(t, err, connect.CodePermissionDenied)

		_, err = env.expenses.DeleteExpense(ctx, as("bob", &api.DeleteExpenseRequest{ExpenseID: created.ID}))
		require.NoError(t, err)

		_, err = env.expenses.GetExpense(ctx, as("bob", &api.GetExpenseRequest{ExpenseID: created.ID}))
		requireCode(t, err, connect.CodeNotFound)

		balances := env.balances(t, "alice", group.ID)
		assert.Equal(t, 0.0, balances["alice"].Net)
		assert.Equal(t, 0.0, balances["bob"].Net)

		published := env.recorder.Events()
		require.Len(t, published, 2)
		assert.Equal(t, events.ExpenseDeleted, published[1].Type)
		assert.Equal(t, "bob", published[1].ActorID)
	})
}

func TestListExpenses(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()
		group := env.createGroup(t, "alice", "USD", "bob")

		older := expenseInput(group.ID, "alice", 10, "alice", "bob")
		older.Date = "2024-05-01"
		older.Tags = []string{"Food"}
		newer := expenseInput(group.ID, "bob", 20, "alice", "bob")
		newer.Date = "2024-06-10"
		newer.Tags = []string{"taxi"}
		env.addExpense(t, "alice", older)
		env.addExpense(t, "bob", newer)

		resp, err := env.expenses.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{GroupID: group.ID}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Expenses, 2)
		assert.Equal(t, 20.0, resp.Msg.Expenses[0].Amount, "newest first")

		resp, err = env.expenses.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{GroupID: group.ID, Tag: "food"}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Expenses, 1)
		assert.Equal(t, 10.0, resp.Msg.Expenses[0].Amount)

		_, err = env.expenses.ListExpenses(ctx, as("carol", &api.ListExpensesRequest{GroupID: group.ID}))
		requireCode(t, err, connect.CodePermissionDenied)
	})
}

func TestListCurrencies(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		resp, err := env.expenses.ListCurrencies(context.Background(), as("alice", &api.ListCurrenciesRequest{}))
		require.NoError(t, err)

		require.Len(t, resp.Msg.Currencies, 13)
		assert.Equal(t, api.Currency{Code: "USD", Symbol: "$", Name: "US Dollar"}, resp.Msg.Currencies[0])
		for _, c := range resp.Msg.Currencies {
			if c.Code == "JPY" {
				assert.True(t, c.ZeroDecimal)
				assert.Equal(t, "¥", c.Symbol)
			}
		}
	})
}

func TestPreviewSplit(t *testing.T) {
	env := setupTestServer(t, testStores[0].open(t))
	ctx := context.Background()
	group := env.createGroup(t, "alice", "USD", "bob", "carol")

	resp, err := env.expenses.PreviewSplit(ctx, as("alice", &api.PreviewSplitRequest{
		GroupID: group.ID,
		Amount:  90,
		Split: api.Split{Type: "PARTS", Entries: []api.SplitEntry{
			{UserID: "alice", Parts: 2},
			{UserID: "bob", Parts: 1},
			{UserID: "carol", Parts: 0},
		}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Msg.Currency)
	assert.Nil(t, resp.Msg.ConversionRate)
	require.Len(t, resp.Msg.Shares, 2)
	assert.InDelta(t, 60, resp.Msg.Shares[0].Amount, 1e-9)
	assert.InDelta(t, 30, resp.Msg.Shares[1].Amount, 1e-9)

	resp, err = env.expenses.PreviewSplit(ctx, as("alice", &api.PreviewSplitRequest{
		GroupID:  group.ID,
		Amount:   92,
		Currency: "eur",
		Split:    equalSplit("alice", "bob"),
	}))
	require.NoError(t, err)
	require.NotNil(t, resp.Msg.ConversionRate)
	assert.InDelta(t, 100, resp.Msg.Amount, 1e-9)
	assert.InDelta(t, 50, resp.Msg.Shares[0].Amount, 1e-9)

	_, err = env.expenses.PreviewSplit(ctx, as("alice", &api.PreviewSplitRequest{
		GroupID: group.ID,
		Amount:  100,
		Split: api.Split{Type: "EXACT", Entries: []api.SplitEntry{
			{UserID: "alice", Amount: 80},
		}},
	}))
	requireRule(t, err, "SplitSumMismatch", "split")

	list, err := env.expenses.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses, "preview never stores")
}

func TestExportGroupExpenses(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()
		group := env.createGroup(t, "alice", "USD", "bob")

		_, err := env.expenses.ExportGroupExpenses(ctx, as("alice", &api.ExportGroupExpensesRequest{GroupID: group.ID}))
		requireCode(t, err, connect.CodeFailedPrecondition)

		env.addExpense(t, "alice", expenseInput(group.ID, "alice", 50, "alice", "bob"))

		resp, err := env.expenses.ExportGroupExpenses(ctx, as("bob", &api.ExportGroupExpensesRequest{GroupID: group.ID}))
		require.NoError(t, err)
		assert.Equal(t, "hawaii_trip_expenses.csv", resp.Msg.Filename)

		lines := strings.Split(strings.TrimSpace(resp.Msg.CSV), "\r\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "Owed by Alice (USD),Owed by Bob (USD)"), lines[0])
		assert.Equal(t, "2024-06-01,Dinner,Alice,50.00,50.00,USD,N/A,,25.00,25.00", lines[1])
	})
}
