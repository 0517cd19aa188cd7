package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/splitsmart/internal/models"
)

var groupColumns = []string{"id", "name", "master_currency", "image_url", "created_at"}

// CreateGroup persists a new group with its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate ID if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := builder.Insert("groups").
		Columns(groupColumns...).
		Values(group.ID, group.Name, group.MasterCurrency, group.ImageURL, group.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, userID := range group.Members {
		if err := insertMember(ctx, tx, group.ID, userID, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members in join order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query, args, err := builder.Select(groupColumns...).From("groups").
		Where(sq.Eq{"id": groupID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}

	group := &models.Group{}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&group.ID, &group.Name, &group.MasterCurrency, &group.ImageURL, &group.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.listMembers(ctx, []string{groupID})
	if err != nil {
		return nil, err
	}
	group.Members = members[groupID]
	return group, nil
}

// ListGroupsByMember returns the groups a user belongs to, newest first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	cols := make([]string, len(groupColumns))
	for i, c := range groupColumns {
		cols[i] = "g." + c
	}
	query, args, err := builder.Select(cols...).
		From("groups g").
		Join("group_members m ON m.group_id = g.id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("g.created_at DESC", "g.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build groups query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	var ids []string
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.MasterCurrency, &g.ImageURL, &g.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
		ids = append(ids, g.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	members, err := s.listMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.Members = members[g.ID]
	}
	return groups, nil
}

// UpdateGroup overwrites a group's name, currency and image.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	query, args, err := builder.Update("groups").
		Set("name", group.Name).
		Set("master_currency", group.MasterCurrency).
		Set("image_url", group.ImageURL).
		Where(sq.Eq{"id": group.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group update: %w", err)
	}
	return s.execAffecting(ctx, query, args, "group", group.ID)
}

// DeleteGroup removes a group. Members, expenses and invites cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	query, args, err := builder.Delete("groups").Where(sq.Eq{"id": groupID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build group delete: %w", err)
	}
	return s.execAffecting(ctx, query, args, "group", groupID)
}

// AddMember appends a user to a group. Adding an existing member is a no-op.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", groupID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return notFound("group", groupID)
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?", groupID,
	).Scan(&next); err != nil {
		return fmt.Errorf("failed to get member position: %w", err)
	}

	query, args, err := builder.Insert("group_members").
		Columns("group_id", "user_id", "position").
		Values(groupID, userID, next).
		Suffix("ON CONFLICT (group_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build member insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveMember drops a user from a group's membership.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	query, args, err := builder.Delete("group_members").
		Where(sq.Eq{"group_id": groupID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build member delete: %w", err)
	}
	return s.execAffecting(ctx, query, args, "member", userID)
}

func insertMember(ctx context.Context, q queryer, groupID, userID string, position int) error {
	query, args, err := builder.Insert("group_members").
		Columns("group_id", "user_id", "position").
		Values(groupID, userID, position).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build member insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// listMembers returns member IDs per group, in join order.
func (s *SQLiteStore) listMembers(ctx context.Context, groupIDs []string) (map[string][]string, error) {
	members := make(map[string][]string, len(groupIDs))
	if len(groupIDs) == 0 {
		return members, nil
	}

	query, args, err := builder.Select("group_id", "user_id").From("group_members").
		Where(sq.Eq{"group_id": groupIDs}).
		OrderBy("group_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build members query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[groupID] = append(members[groupID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// execAffecting runs a statement and maps zero affected rows to not found.
func (s *SQLiteStore) execAffecting(ctx context.Context, query string, args []any, what, id string) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return notFound(what, id)
	}
	return nil
}
