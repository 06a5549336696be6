package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/divvy/internal/models"
)

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func TestCreateExpense(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	creator := createUser(t, store, "creator@example.com", "creator")
	group, err := NewGroupService(store).Create(ctx, "Trip", creator.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	t.Run("valid expense persists", func(t *testing.T) {
		expense, err := svc.Create(ctx, group.ID, CreateExpense{
			Description: "Dinner",
			Amount:      42.50,
			Category:    "Food",
			Date:        "2026-08-01",
			CreatedBy:   creator.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if expense.ID <= 0 {
			t.Errorf("expected assigned id, got %d", expense.ID)
		}
		if expense.CreatedBy != creator.ID {
			t.Errorf("created_by: expected %d, got %d", creator.ID, expense.CreatedBy)
		}
	})

	t.Run("missing creator is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, group.ID, CreateExpense{Description: "x", Amount: 1})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, group.ID, CreateExpense{Amount: -1, CreatedBy: creator.ID})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		if _, err := svc.Create(ctx, group.ID, CreateExpense{Description: "Freebie", CreatedBy: creator.ID}); err != nil {
			t.Errorf("zero-amount expense should be accepted: %v", err)
		}
	})

	t.Run("invalid group id is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, 0, CreateExpense{Amount: 1, CreatedBy: creator.ID})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestListExpensesAnnotatesCreator(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	creator := createUser(t, store, "creator@example.com", "creator")
	group, err := NewGroupService(store).Create(ctx, "Trip", creator.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	first, err := svc.Create(ctx, group.ID, CreateExpense{Description: "Taxi", Amount: 10, CreatedBy: creator.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// An expense whose creator is gone still lists, with a fallback name.
	if _, err := svc.Create(ctx, group.ID, CreateExpense{Description: "Orphan", Amount: 5, CreatedBy: 999999}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expenses, err := svc.List(ctx, group.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if expenses[0].ID != first.ID {
		t.Errorf("expected insertion order, got %+v first", expenses[0])
	}
	if expenses[0].CreatedByName != "creator" {
		t.Errorf("created_by_name: expected %q, got %q", "creator", expenses[0].CreatedByName)
	}
	if expenses[1].CreatedByName != "Unknown" {
		t.Errorf("orphan created_by_name: expected %q, got %q", "Unknown", expenses[1].CreatedByName)
	}
}

func TestUpdateExpense(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	creator := createUser(t, store, "creator@example.com", "creator")
	other := createUser(t, store, "other@example.com", "other")
	group, err := NewGroupService(store).Create(ctx, "Trip", creator.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	expense, err := svc.Create(ctx, group.ID, CreateExpense{Description: "Dinner", Amount: 42.50, Category: "Food", Date: "2026-08-01", CreatedBy: creator.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("non-creator is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, expense.ID, other.ID, models.ExpenseUpdate{Amount: f64Ptr(1)})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("forbidden update leaves expense untouched", func(t *testing.T) {
		stored, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if stored.Amount != 42.50 || stored.Description != "Dinner" {
			t.Errorf("expense changed after denied update: %+v", stored)
		}
	})

	t.Run("partial update touches only given fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, expense.ID, creator.ID, models.ExpenseUpdate{
			Amount: f64Ptr(50),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Amount != 50 {
			t.Errorf("amount: expected 50, got %v", updated.Amount)
		}
		if updated.Description != "Dinner" || updated.Category != "Food" || updated.Date != "2026-08-01" {
			t.Errorf("untouched fields changed: %+v", updated)
		}
		if updated.CreatedByName != "creator" {
			t.Errorf("created_by_name: expected %q, got %q", "creator", updated.CreatedByName)
		}
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, expense.ID, creator.ID, models.ExpenseUpdate{Amount: f64Ptr(-5)})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown expense 404s", func(t *testing.T) {
		_, err := svc.Update(ctx, 999999, creator.ID, models.ExpenseUpdate{Description: strPtr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteExpense(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	creator := createUser(t, store, "creator@example.com", "creator")
	other := createUser(t, store, "other@example.com", "other")
	group, err := NewGroupService(store).Create(ctx, "Trip", creator.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	expense, err := svc.Create(ctx, group.ID, CreateExpense{Description: "Dinner", Amount: 42.50, CreatedBy: creator.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("missing actor is unauthorized", func(t *testing.T) {
		err := svc.Delete(ctx, expense.ID, 0)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("non-creator delete is a silent no-op", func(t *testing.T) {
		if err := svc.Delete(ctx, expense.ID, other.ID); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		stored, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if stored == nil {
			t.Fatal("expense deleted by non-creator")
		}
	})

	t.Run("creator delete removes the row", func(t *testing.T) {
		if err := svc.Delete(ctx, expense.ID, creator.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		stored, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if stored != nil {
			t.Errorf("expense still present after creator delete: %+v", stored)
		}
	})

	t.Run("repeat delete is a no-op", func(t *testing.T) {
		if err := svc.Delete(ctx, expense.ID, creator.ID); err != nil {
			t.Errorf("repeat Delete returned error: %v", err)
		}
	})
}

func TestGroupTotal(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	creator := createUser(t, store, "creator@example.com", "creator")
	group, err := NewGroupService(store).Create(ctx, "Trip", creator.ID)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	t.Run("empty group totals zero", func(t *testing.T) {
		total, err := svc.GroupTotal(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupTotal failed: %v", err)
		}
		if total != 0 {
			t.Errorf("expected 0, got %v", total)
		}
	})

	t.Run("total sums all expenses", func(t *testing.T) {
		for _, amount := range []float64{10.25, 4.75, 5} {
			if _, err := svc.Create(ctx, group.ID, CreateExpense{Amount: amount, CreatedBy: creator.ID}); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}
		total, err := svc.GroupTotal(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupTotal failed: %v", err)
		}
		if total != 20 {
			t.Errorf("expected 20, got %v", total)
		}
	})
}
