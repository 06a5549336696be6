package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/divvy/internal/models"
)

// CreateExpense inserts a new expense row and populates expense.ID.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO expenses (group_id, description, amount, category, date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		expense.GroupID,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date,
		expense.CreatedBy,
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}
	expense.ID = id

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	query := `
		SELECT id, group_id, description, amount, category, date, created_by, created_at
		FROM expenses
		WHERE id = ?
	`

	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.Date,
		&expense.CreatedBy,
		&expense.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Expense not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListExpensesByGroup returns the group's expenses in insertion order.
// The creator's username is resolved in the same query; a creator that
// no longer resolves yields "Unknown".
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.description, e.amount, e.category, e.date,
		       e.created_by, e.created_at, COALESCE(u.username, 'Unknown')
		FROM expenses e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.group_id = ?
		ORDER BY e.id
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.Description,
			&e.Amount,
			&e.Category,
			&e.Date,
			&e.CreatedBy,
			&e.CreatedAt,
			&e.CreatedByName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense overwrites the mutable fields of the expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET description = ?, amount = ?, category = ?, date = ?
		WHERE id = ?
	`

	if _, err := s.db.ExecContext(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date,
		expense.ID,
	); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return nil
}

// DeleteExpenseByCreator deletes the expense only when it belongs to
// creatorID. Returns the number of rows deleted: a mismatched creator
// simply matches zero rows.
func (s *SQLiteStore) DeleteExpenseByCreator(ctx context.Context, expenseID, creatorID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND created_by = ?",
		expenseID, creatorID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

// GroupExpenseTotal returns the sum of the group's expense amounts.
func (s *SQLiteStore) GroupExpenseTotal(ctx context.Context, groupID int64) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE group_id = ?",
		groupID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}
