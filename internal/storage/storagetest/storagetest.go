// Package storagetest is a conformance suite run against every
// storage.Store implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
)

// Run exercises newStore's implementation. newStore must return an empty
// store; the suite does not close it.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Groups", func(t *testing.T) { testGroups(t, newStore(t)) })
	t.Run("Membership", func(t *testing.T) { testMembership(t, newStore(t)) })
	t.Run("Expenses", func(t *testing.T) { testExpenses(t, newStore(t)) })
	t.Run("DeleteGroupCascades", func(t *testing.T) { testDeleteGroupCascades(t, newStore(t)) })
	t.Run("Invites", func(t *testing.T) { testInvites(t, newStore(t)) })
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, s.CreateUser(ctx, alice))

	got, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = s.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	dup := models.NewUser("alice@example.com", "Other", "hash")
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrAlreadyExists)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	bob := models.NewUser("bob@example.com", "Bob", "hash")
	require.NoError(t, s.CreateUser(ctx, bob))

	users, err := s.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Bob", users[bob.ID].Name)

	users, err = s.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func testGroups(t *testing.T, s storage.Store) {
	ctx := context.Background()

	older := &models.Group{Name: "Ski Week", MasterCurrency: "EUR", Members: []string{"u1", "u2"}, CreatedAt: 100}
	newer := &models.Group{Name: "Flat", MasterCurrency: "CAD", Members: []string{"u2", "u3"}, CreatedAt: 200}
	require.NoError(t, s.CreateGroup(ctx, older))
	require.NoError(t, s.CreateGroup(ctx, newer))
	require.NotEmpty(t, older.ID)

	got, err := s.GetGroup(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older, got)

	groups, err := s.ListGroupsByMember(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, newer.ID, groups[0].ID)
	assert.Equal(t, []string{"u2", "u3"}, groups[0].Members)

	groups, err = s.ListGroupsByMember(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, groups, 1)

	groups, err = s.ListGroupsByMember(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, groups)

	older.Name = "Ski Trip"
	older.MasterCurrency = "CHF"
	older.ImageURL = "https://example.com/ski.png"
	require.NoError(t, s.UpdateGroup(ctx, older))
	got, err = s.GetGroup(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ski Trip", got.Name)
	assert.Equal(t, "CHF", got.MasterCurrency)
	assert.Equal(t, "https://example.com/ski.png", got.ImageURL)

	assert.ErrorIs(t, s.UpdateGroup(ctx, &models.Group{ID: "missing"}), storage.ErrNotFound)
	_, err = s.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testMembership(t *testing.T, s storage.Store) {
	ctx := context.Background()

	g := &models.Group{Name: "Trip", MasterCurrency: "USD", Members: []string{"u1", "u2"}}
	require.NoError(t, s.CreateGroup(ctx, g))

	require.NoError(t, s.AddMember(ctx, g.ID, "u3"))
	require.NoError(t, s.AddMember(ctx, g.ID, "u3"))
	got, err := s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3"}, got.Members)

	require.NoError(t, s.RemoveMember(ctx, g.ID, "u2"))
	got, err = s.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, got.Members)

	assert.ErrorIs(t, s.RemoveMember(ctx, g.ID, "u2"), storage.ErrNotFound)
	assert.ErrorIs(t, s.AddMember(ctx, "missing", "u1"), storage.ErrNotFound)
}

func sampleExpense(groupID string, date time.Time, desc string) *models.Expense {
	two, one := 2, 1
	rate := 1.37
	return &models.Expense{
		GroupID:          groupID,
		Description:      desc,
		Amount:           137,
		OriginalAmount:   100,
		OriginalCurrency: "USD",
		ConversionRate:   &rate,
		PaidBy:           "u1",
		Participants: []models.SplitDetail{
			{UserID: "u2", Amount: 91.33, Parts: &two},
			{UserID: "u1", Amount: 45.67, Parts: &one},
		},
		SplitType:       models.SplitParts,
		Date:            date,
		Tags:            []string{"food"},
		Attachments:     []string{},
		TransactionType: models.TransactionExpense,
	}
}

func testExpenses(t *testing.T, s storage.Store) {
	ctx := context.Background()

	g := &models.Group{Name: "Trip", MasterCurrency: "CAD", Members: []string{"u1", "u2"}}
	require.NoError(t, s.CreateGroup(ctx, g))

	day := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	first := sampleExpense(g.ID, day, "Lunch")
	second := sampleExpense(g.ID, day.AddDate(0, 0, 2), "Dinner")
	second.ConversionRate = nil
	second.OriginalCurrency = "CAD"
	require.NoError(t, s.CreateExpense(ctx, first))
	require.NoError(t, s.CreateExpense(ctx, second))
	require.NotEmpty(t, first.ID)
	require.NotZero(t, first.CreatedAt)

	got, err := s.GetExpense(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	list, err := s.ListExpensesByGroup(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dinner", list[0].Description, "newest date first")
	assert.Nil(t, list[0].ConversionRate)

	update := *first
	update.GroupID = "someone-else"
	update.Description = "Long lunch"
	update.Amount = 50
	update.SplitType = models.SplitEqual
	update.Participants = []models.SplitDetail{{UserID: "u1", Amount: 25}, {UserID: "u2", Amount: 25}}
	require.NoError(t, s.UpdateExpense(ctx, &update))

	got, err = s.GetExpense(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.GroupID, "group is immutable")
	assert.Equal(t, "Long lunch", got.Description)
	assert.Equal(t, update.Participants, got.Participants)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)

	require.NoError(t, s.DeleteExpense(ctx, first.ID))
	_, err = s.GetExpense(ctx, first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, first.ID), storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateExpense(ctx, &update), storage.ErrNotFound)

	orphan := sampleExpense("missing", day, "Orphan")
	assert.ErrorIs(t, s.CreateExpense(ctx, orphan), storage.ErrNotFound)
}

func testDeleteGroupCascades(t *testing.T, s storage.Store) {
	ctx := context.Background()

	g := &models.Group{Name: "Trip", MasterCurrency: "USD", Members: []string{"u1", "u2"}}
	require.NoError(t, s.CreateGroup(ctx, g))
	e := sampleExpense(g.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Taxi")
	require.NoError(t, s.CreateExpense(ctx, e))
	inv := &models.Invite{GroupID: g.ID, CreatedBy: "u1"}
	require.NoError(t, s.CreateInvite(ctx, inv))

	require.NoError(t, s.DeleteGroup(ctx, g.ID))

	_, err := s.GetGroup(ctx, g.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetExpense(ctx, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetInvite(ctx, inv.Code)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteGroup(ctx, g.ID), storage.ErrNotFound)
}

func testInvites(t *testing.T, s storage.Store) {
	ctx := context.Background()

	g := &models.Group{Name: "Trip", MasterCurrency: "USD", Members: []string{"u1", "u2"}}
	require.NoError(t, s.CreateGroup(ctx, g))

	inv := &models.Invite{GroupID: g.ID, CreatedBy: "u1"}
	require.NoError(t, s.CreateInvite(ctx, inv))
	require.NotEmpty(t, inv.Code)

	got, err := s.GetInvite(ctx, inv.Code)
	require.NoError(t, err)
	assert.Equal(t, inv, got)

	_, err = s.GetInvite(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.CreateInvite(ctx, &models.Invite{GroupID: "missing", CreatedBy: "u1"}), storage.ErrNotFound)
}
