package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/splitsmart/internal/models"
)

var expenseColumns = []string{
	"id", "group_id", "description", "amount", "original_amount", "original_currency",
	"conversion_rate", "paid_by", "split_type", "date_ms", "tags", "attachments",
	"transaction_type", "location", "created_at", "updated_at",
}

// CreateExpense persists a new expense and its participant shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	tags, attachments, err := encodeLists(expense)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupExists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", expense.GroupID).Scan(&groupExists); err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if !groupExists {
		return notFound("group", expense.GroupID)
	}

	query, args, err := builder.Insert("expenses").
		Columns(expenseColumns...).
		Values(
			expense.ID, expense.GroupID, expense.Description, expense.Amount,
			expense.OriginalAmount, expense.OriginalCurrency, nullFloat(expense.ConversionRate),
			expense.PaidBy, string(expense.SplitType), expense.Date.UnixMilli(), tags, attachments,
			string(expense.TransactionType), expense.Location, expense.CreatedAt, expense.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expense insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertParticipants(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its participant shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expenses, err := s.queryExpenses(ctx, sq.Eq{"id": expenseID})
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, notFound("expense", expenseID)
	}
	return expenses[0], nil
}

// UpdateExpense replaces an expense's fields and shares. GroupID and
// CreatedAt keep their stored values.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tags, attachments, err := encodeLists(expense)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"SELECT group_id, created_at FROM expenses WHERE id = ?", expense.ID,
	).Scan(&expense.GroupID, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("expense", expense.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}
	expense.UpdatedAt = time.Now().Unix()

	query, args, err := builder.Update("expenses").
		Set("description", expense.Description).
		Set("amount", expense.Amount).
		Set("original_amount", expense.OriginalAmount).
		Set("original_currency", expense.OriginalCurrency).
		Set("conversion_rate", nullFloat(expense.ConversionRate)).
		Set("paid_by", expense.PaidBy).
		Set("split_type", string(expense.SplitType)).
		Set("date_ms", expense.Date.UnixMilli()).
		Set("tags", tags).
		Set("attachments", attachments).
		Set("transaction_type", string(expense.TransactionType)).
		Set("location", expense.Location).
		Set("updated_at", expense.UpdatedAt).
		Where(sq.Eq{"id": expense.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expense update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense. Its shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	query, args, err := builder.Delete("expenses").Where(sq.Eq{"id": expenseID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expense delete: %w", err)
	}
	return s.execAffecting(ctx, query, args, "expense", expenseID)
}

// ListExpensesByGroup returns a group's expenses, newest date first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx, sq.Eq{"group_id": groupID})
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, where sq.Sqlizer) ([]*models.Expense, error) {
	query, args, err := builder.Select(expenseColumns...).From("expenses").
		Where(where).
		OrderBy("date_ms DESC", "created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expense query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadParticipants(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		e                 models.Expense
		rate              sql.NullFloat64
		splitType, txType string
		dateMS            int64
		tags, attachments string
	)
	err := row.Scan(
		&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.OriginalAmount, &e.OriginalCurrency,
		&rate, &e.PaidBy, &splitType, &dateMS, &tags, &attachments,
		&txType, &e.Location, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rate.Valid {
		r := rate.Float64
		e.ConversionRate = &r
	}
	e.SplitType = models.SplitType(splitType)
	e.TransactionType = models.TransactionType(txType)
	e.Date = time.UnixMilli(dateMS).UTC()
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(attachments), &e.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	return &e, nil
}

func insertParticipants(ctx context.Context, q queryer, expense *models.Expense) error {
	if len(expense.Participants) == 0 {
		return nil
	}

	insert := builder.Insert("expense_participants").
		Columns("expense_id", "user_id", "amount", "parts", "position")
	for i, p := range expense.Participants {
		var parts sql.NullInt64
		if p.Parts != nil {
			parts = sql.NullInt64{Int64: int64(*p.Parts), Valid: true}
		}
		insert = insert.Values(expense.ID, p.UserID, p.Amount, parts, i)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build participant insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert participants: %w", err)
	}
	return nil
}

// loadParticipants fills in the shares of every expense with one query.
func (s *SQLiteStore) loadParticipants(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
		e.Participants = []models.SplitDetail{}
	}

	query, args, err := builder.Select("expense_id", "user_id", "amount", "parts").
		From("expense_participants").
		Where(sq.Eq{"expense_id": ids}).
		OrderBy("expense_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build participant query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID string
			detail    models.SplitDetail
			parts     sql.NullInt64
		)
		if err := rows.Scan(&expenseID, &detail.UserID, &detail.Amount, &parts); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if parts.Valid {
			n := int(parts.Int64)
			detail.Parts = &n
		}
		if e, ok := byID[expenseID]; ok {
			e.Participants = append(e.Participants, detail)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func encodeLists(expense *models.Expense) (string, string, error) {
	tags := expense.Tags
	if tags == nil {
		tags = []string{}
	}
	attachments := expense.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	t, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("encode tags: %w", err)
	}
	a, err := json.Marshal(attachments)
	if err != nil {
		return "", "", fmt.Errorf("encode attachments: %w", err)
	}
	return string(t), string(a), nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
