package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giannigrespan/pfin/internal/core"
)

// ExpenseService validates and records expenses.
type ExpenseService struct {
	repo Repository
}

func NewExpenseService(repo Repository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

// Create validates and stores a new expense.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validation failed: %w", err)
	}

	created, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", created.ID,
		"household_id", created.HouseholdID,
		"amount_cents", created.Amount.Cents,
		"date", created.Date.ISO())
	return created, nil
}

// Delete soft-deletes an expense so a mistaken entry can be removed
// without losing history.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// ListMonth returns all live expenses of one household in a calendar
// month, categories resolved.
func (s *ExpenseService) ListMonth(ctx context.Context, householdID string, year, month int) ([]core.Expense, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	expenses, err := s.repo.ListExpensesForMonth(ctx, householdID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}
