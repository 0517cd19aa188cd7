// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitsmart/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique key is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group. The ID and CreatedAt fields are
	// populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember returns the groups userID currently belongs to,
	// newest first.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup overwrites name, currency and image. Membership is changed
	// with AddMember and RemoveMember.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group with its expenses and invites.
	DeleteGroup(ctx context.Context, groupID string) error

	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// ExpenseStore persists expenses with their participant shares.
type ExpenseStore interface {
	// CreateExpense persists a new expense. The ID and timestamps are
	// populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces every field of an existing expense except
	// GroupID and CreatedAt.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup returns a group's expenses, newest date first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
}

// InviteStore persists group join codes.
type InviteStore interface {
	CreateInvite(ctx context.Context, invite *models.Invite) error
	GetInvite(ctx context.Context, code string) (*models.Invite, error)
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends (in-memory, SQLite)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	InviteStore

	// Close releases any resources held by the store.
	Close() error
}
