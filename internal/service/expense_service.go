package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/policy"
	"github.com/mmynk/divvy/internal/storage"
)

// ExpenseService implements expense operations scoped to a group.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense carries the fields of a new expense.
type CreateExpense struct {
	Description string
	Amount      float64
	Category    string
	Date        string
	CreatedBy   int64
}

// List returns the group's expenses, each annotated with the creator's
// username. Ordering is insertion order.
func (s *ExpenseService) List(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	if groupID <= 0 {
		return nil, fmt.Errorf("%w: invalid group id", ErrInvalidInput)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return expenses, nil
}

// Create persists a new expense in the group. The creator is not
// required to be a group member; the membership check is a pending
// product decision.
func (s *ExpenseService) Create(ctx context.Context, groupID int64, in CreateExpense) (*models.Expense, error) {
	if groupID <= 0 {
		return nil, fmt.Errorf("%w: invalid group id", ErrInvalidInput)
	}
	if in.CreatedBy <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", ErrInvalidInput)
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		CreatedBy:   in.CreatedBy,
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", groupID, "created_by", in.CreatedBy)
	return expense, nil
}

// CreatorName resolves a creator id to a username. Returns ErrNotFound
// when the user does not exist.
func (s *ExpenseService) CreatorName(ctx context.Context, creatorID int64) (string, error) {
	user, err := s.store.GetUserByID(ctx, creatorID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user == nil {
		return "", fmt.Errorf("%w: user %d", ErrNotFound, creatorID)
	}
	return user.Username, nil
}

// Update applies a partial edit to an expense. Only the recorded
// creator may edit; anyone else is denied. Returns the updated expense
// annotated with the creator's username.
func (s *ExpenseService) Update(ctx context.Context, expenseID, actorID int64, upd models.ExpenseUpdate) (*models.Expense, error) {
	if expenseID <= 0 {
		return nil, fmt.Errorf("%w: invalid expense id", ErrInvalidInput)
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		slog.Error("UpdateExpense lookup failed", "expense_id", expenseID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if expense == nil {
		return nil, fmt.Errorf("%w: expense %d", ErrNotFound, expenseID)
	}

	if !policy.CanMutateExpense(actorID, expense) {
		slog.Warn("UpdateExpense denied", "expense_id", expenseID, "actor_id", actorID, "creator_id", expense.CreatedBy)
		return nil, fmt.Errorf("%w: only the creator may edit an expense", ErrForbidden)
	}

	if upd.Description != nil {
		expense.Description = *upd.Description
	}
	if upd.Amount != nil {
		if *upd.Amount < 0 {
			return nil, fmt.Errorf("%w: amount must be non-negative", ErrInvalidInput)
		}
		expense.Amount = *upd.Amount
	}
	if upd.Category != nil {
		expense.Category = *upd.Category
	}
	if upd.Date != nil {
		expense.Date = *upd.Date
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if name, err := s.CreatorName(ctx, expense.CreatedBy); err == nil {
		expense.CreatedByName = name
	} else {
		expense.CreatedByName = "Unknown"
	}

	slog.Info("Expense updated", "expense_id", expenseID, "actor_id", actorID)
	return expense, nil
}

// Delete removes the expense if and only if the actor is its creator.
// A mismatched actor matches zero rows and is NOT reported as an error;
// the affected-row count is logged so the no-op stays observable.
func (s *ExpenseService) Delete(ctx context.Context, expenseID, actorID int64) error {
	if actorID <= 0 {
		return fmt.Errorf("%w: actor identity required", ErrUnauthorized)
	}

	affected, err := s.store.DeleteExpenseByCreator(ctx, expenseID, actorID)
	if err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("Expense delete", "expense_id", expenseID, "actor_id", actorID, "rows", affected)
	return nil
}

// GroupTotal returns the sum of the group's expense amounts. Currency
// conversion and formatting are the caller's concern.
func (s *ExpenseService) GroupTotal(ctx context.Context, groupID int64) (float64, error) {
	if groupID <= 0 {
		return 0, fmt.Errorf("%w: invalid group id", ErrInvalidInput)
	}

	total, err := s.store.GroupExpenseTotal(ctx, groupID)
	if err != nil {
		slog.Error("GroupTotal failed", "group_id", groupID, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return total, nil
}
