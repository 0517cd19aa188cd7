// Package memory provides an in-process implementation of storage.Store.
// It is used for the demo backend and in tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by a single RWMutex. Records are
// copied on the way in and out so callers never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	groups   map[string]*models.Group
	expenses map[string]*models.Expense
	invites  map[string]*models.Invite
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		groups:   make(map[string]*models.Group),
		expenses: make(map[string]*models.Expense),
		invites:  make(map[string]*models.Invite),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// CreateUser stores a new user. Emails are unique, case-insensitively.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrAlreadyExists)
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrAlreadyExists)
		}
	}
	u := *user
	s.users[u.ID] = &u
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if _, ok := s.groups[group.ID]; ok {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrAlreadyExists)
	}
	s.groups[group.ID] = copyGroup(group)
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return copyGroup(g), nil
}

func (s *Store) ListGroupsByMember(_ context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Group
	for _, g := range s.groups {
		if g.HasMember(userID) {
			out = append(out, copyGroup(g))
		}
	}
	slices.SortFunc(out, func(a, b *models.Group) int {
		if c := cmp.Compare(b.CreatedAt, a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) UpdateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[group.ID]
	if !ok {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	g.Name = group.Name
	g.MasterCurrency = group.MasterCurrency
	g.ImageURL = group.ImageURL
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	delete(s.groups, groupID)
	for id, e := range s.expenses {
		if e.GroupID == groupID {
			delete(s.expenses, id)
		}
	}
	for code, inv := range s.invites {
		if inv.GroupID == groupID {
			delete(s.invites, code)
		}
	}
	return nil
}

// AddMember appends userID to the group. Adding an existing member is a no-op.
func (s *Store) AddMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if !g.HasMember(userID) {
		g.Members = append(g.Members, userID)
	}
	return nil
}

func (s *Store) RemoveMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	i := slices.Index(g.Members, userID)
	if i < 0 {
		return fmt.Errorf("member %s of group %s: %w", userID, groupID, storage.ErrNotFound)
	}
	g.Members = slices.Delete(g.Members, i, i+1)
	return nil
}

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[expense.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", expense.GroupID, storage.ErrNotFound)
	}
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if _, ok := s.expenses[expense.ID]; ok {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrAlreadyExists)
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}
	s.expenses[expense.ID] = copyExpense(expense)
	return nil
}

func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return copyExpense(e), nil
}

func (s *Store) UpdateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[expense.ID]
	if !ok {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}
	expense.GroupID = existing.GroupID
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = time.Now().Unix()
	s.expenses[expense.ID] = copyExpense(expense)
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[expenseID]; !ok {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	delete(s.expenses, expenseID)
	return nil
}

func (s *Store) ListExpensesByGroup(_ context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Expense
	for _, e := range s.expenses {
		if e.GroupID == groupID {
			out = append(out, copyExpense(e))
		}
	}
	slices.SortFunc(out, compareExpenses)
	return out, nil
}

func (s *Store) CreateInvite(_ context.Context, invite *models.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[invite.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", invite.GroupID, storage.ErrNotFound)
	}
	if invite.Code == "" {
		invite.Code = uuid.New().String()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = time.Now().Unix()
	}
	inv := *invite
	s.invites[inv.Code] = &inv
	return nil
}

func (s *Store) GetInvite(_ context.Context, code string) (*models.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invites[code]
	if !ok {
		return nil, fmt.Errorf("invite %s: %w", code, storage.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

// compareExpenses orders by date descending, then creation time descending.
func compareExpenses(a, b *models.Expense) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(b.CreatedAt, a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func copyGroup(g *models.Group) *models.Group {
	cp := *g
	cp.Members = slices.Clone(g.Members)
	return &cp
}

func copyExpense(e *models.Expense) *models.Expense {
	cp := *e
	if e.ConversionRate != nil {
		r := *e.ConversionRate
		cp.ConversionRate = &r
	}
	cp.Participants = make([]models.SplitDetail, len(e.Participants))
	for i, p := range e.Participants {
		cp.Participants[i] = p
		if p.Parts != nil {
			n := *p.Parts
			cp.Participants[i].Parts = &n
		}
	}
	cp.Tags = slices.Clone(e.Tags)
	cp.Attachments = slices.Clone(e.Attachments)
	return &cp
}
