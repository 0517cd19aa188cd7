package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/splitsmart/internal/models"
)

// CreateInvite persists a join code for a group.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.Invite) error {
	if invite.Code == "" {
		invite.Code = uuid.New().String()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = time.Now().Unix()
	}

	query, args, err := builder.Insert("invites").
		Columns("code", "group_id", "created_by", "created_at").
		Values(invite.Code, invite.GroupID, invite.CreatedBy, invite.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build invite insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return notFound("group", invite.GroupID)
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

// GetInvite retrieves an invite by its code.
func (s *SQLiteStore) GetInvite(ctx context.Context, code string) (*models.Invite, error) {
	query, args, err := builder.Select("code", "group_id", "created_by", "created_at").
		From("invites").
		Where(sq.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build invite query: %w", err)
	}

	invite := &models.Invite{}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&invite.Code, &invite.GroupID, &invite.CreatedBy, &invite.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("invite", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return invite, nil
}
