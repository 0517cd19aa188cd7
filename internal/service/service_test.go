package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/events"
	"github.com/mmynk/splitsmart/internal/middleware"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/rates"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/internal/storage/memory"
	"github.com/mmynk/splitsmart/internal/storage/sqlite"
	"github.com/mmynk/splitsmart/pkg/api"
	"github.com/mmynk/splitsmart/pkg/api/apiconnect"
)

// testUserHeader names the caller in tests instead of a signed token.
const testUserHeader = "X-Test-User"

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

// testUsers are seeded into every test store.
var testUsers = []*models.User{
	{ID: "alice", Name: "Alice", Email: "alice@example.com", CreatedAt: 1, UpdatedAt: 1},
	{ID: "bob", Name: "Bob", Email: "bob@example.com", CreatedAt: 1, UpdatedAt: 1},
	{ID: "carol", Name: "Carol", Email: "carol@example.com", CreatedAt: 1, UpdatedAt: 1},
	{ID: "dave", Name: "Dave", Email: "dave@example.com", CreatedAt: 1, UpdatedAt: 1},
}

// testStores lists the backends every service test runs against.
var testStores = []struct {
	name string
	open func(t *testing.T) storage.Store
}{
	{"memory", func(t *testing.T) storage.Store { return memory.New() }},
	{"sqlite", func(t *testing.T) storage.Store {
		store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	}},
}

// forEachStore runs fn once per backend.
func forEachStore(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	for _, s := range testStores {
		t.Run(s.name, func(t *testing.T) {
			fn(t, setupTestServer(t, s.open(t)))
		})
	}
}

// testAuthInterceptor returns a Connect interceptor that takes the caller
// from testUserHeader.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := req.Header().Get(testUserHeader); id != "" {
				ctx = context.WithValue(ctx, middleware.UserIDKey, id)
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	store    storage.Store
	expenses apiconnect.ExpenseServiceClient
	groups   apiconnect.GroupServiceClient
	recorder *events.Recorder
	groupSvc *GroupService
}

// setupTestServer serves the expense and group services over store.
func setupTestServer(t *testing.T, store storage.Store) *testEnv {
	t.Helper()

	ctx := context.Background()
	for _, u := range testUsers {
		user := *u
		require.NoError(t, store.CreateUser(ctx, &user))
	}

	recorder := &events.Recorder{}
	expenseSvc := NewExpenseService(store, rates.NewConverter(rates.NewStaticProvider(), rates.DefaultTTL), recorder)
	expenseSvc.now = func() time.Time { return testNow }
	groupSvc := NewGroupService(store, prometheus.NewRegistry())

	authInterceptor := connect.WithInterceptors(testAuthInterceptor())
	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(expenseSvc, authInterceptor)
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(groupSvc, authInterceptor)

	mux := http.NewServeMux()
	mux.Handle(expensePath, expenseHandler)
	mux.Handle(groupPath, groupHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:    store,
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		recorder: recorder,
		groupSvc: groupSvc,
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}

// requireRule checks err is an InvalidArgument carrying kind and field.
func requireRule(t *testing.T, err error, kind, field string) {
	t.Helper()
	requireCode(t, err, connect.CodeInvalidArgument)
	gotKind, gotField, ok := apiconnect.ErrorDetail(err)
	require.True(t, ok, "error has no detail: %v", err)
	require.Equal(t, kind, gotKind, "error: %v", err)
	require.Equal(t, field, gotField, "error: %v", err)
}

// createGroup makes a group owned by owner with the other members.
func (env *testEnv) createGroup(t *testing.T, owner, currency string, members ...string) api.Group {
	t.Helper()
	resp, err := env.groups.CreateGroup(context.Background(), as(owner, &api.CreateGroupRequest{
		Name:           "Hawaii Trip",
		MasterCurrency: currency,
		MemberIDs:      members,
	}))
	require.NoError(t, err)
	return resp.Msg.Group
}

// addExpense records an expense and fails the test on error.
func (env *testEnv) addExpense(t *testing.T, caller string, in api.ExpenseInput) api.Expense {
	t.Helper()
	resp, err := env.expenses.CreateExpense(context.Background(), as(caller, &api.CreateExpenseRequest{Expense: in}))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func (env *testEnv) balances(t *testing.T, caller, groupID string) map[string]api.MemberBalance {
	t.Helper()
	resp, err := env.groups.GetGroupBalances(context.Background(), as(caller, &api.GetGroupBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	out := make(map[string]api.MemberBalance, len(resp.Msg.Balances))
	for _, b := range resp.Msg.Balances {
		out[b.UserID] = b
	}
	return out
}

func equalSplit(ids ...string) api.Split {
	entries := make([]api.SplitEntry, len(ids))
	for i, id := range ids {
		entries[i] = api.SplitEntry{UserID: id}
	}
	return api.Split{Type: "EQUAL", Entries: entries}
}

// expenseInput is a valid USD expense paid by paidBy and split equally.
func expenseInput(groupID, paidBy string, amount float64, participants ...string) api.ExpenseInput {
	return api.ExpenseInput{
		GroupID:          groupID,
		Description:      "Dinner",
		OriginalAmount:   amount,
		OriginalCurrency: "USD",
		Date:             "2024-06-01",
		PaidBy:           paidBy,
		Split:            equalSplit(participants...),
	}
}
