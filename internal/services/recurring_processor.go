package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/schedule"
)

// RecurringProcessor materializes due recurring templates into real
// expenses and advances their schedules.
type RecurringProcessor struct {
	repo     Repository
	expenses *ExpenseService
}

func NewRecurringProcessor(repo Repository, expenses *ExpenseService) *RecurringProcessor {
	return &RecurringProcessor{repo: repo, expenses: expenses}
}

// ProcessDue creates an expense for every active auto-create template
// whose next_due has arrived, then moves next_due forward. A template
// that failed to materialize keeps its due date so the next run
// retries it.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, today core.Date) (int, error) {
	if p.repo == nil || p.expenses == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	due, err := p.repo.ListDueRecurring(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"due", len(due),
		"as_of", today.ISO())

	processed := 0
	for _, re := range due {
		if err := p.fire(ctx, re, today); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring expense",
				"recurring_id", re.ID,
				"description", re.Description,
				"error", err)
			continue
		}
		processed++
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"due", len(due))
	return processed, nil
}

// FireNow materializes one template immediately regardless of its due
// date, for the manual "create now" action.
func (p *RecurringProcessor) FireNow(ctx context.Context, id string, today core.Date) (core.Expense, error) {
	re, err := p.repo.GetRecurring(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get recurring expense: %w", err)
	}
	if !re.Active {
		return core.Expense{}, fmt.Errorf("recurring expense %s is not active", id)
	}

	draft := schedule.Materialize(re, today)
	created, err := p.expenses.Create(ctx, draft)
	if err != nil {
		return core.Expense{}, err
	}

	// Manual firing advances the schedule too, so the next automatic
	// run does not double-create.
	next := schedule.NextOccurrence(re.NextDue, re.Frequency)
	if err := p.repo.UpdateRecurringNextDue(ctx, re.ID, next); err != nil {
		slog.ErrorContext(ctx, "Failed to advance recurring schedule",
			"recurring_id", re.ID,
			"error", err)
	}

	return created, nil
}

func (p *RecurringProcessor) fire(ctx context.Context, re core.RecurringExpense, today core.Date) error {
	draft := schedule.Materialize(re, today)
	if _, err := p.expenses.Create(ctx, draft); err != nil {
		return err
	}

	// Advance from the scheduled date, not from today, so a late run
	// does not drift the cadence.
	next := schedule.NextOccurrence(re.NextDue, re.Frequency)

	// Catch up when more than one period was missed.
	for !next.After(today.Time) {
		next = schedule.NextOccurrence(next, re.Frequency)
	}

	if err := p.repo.UpdateRecurringNextDue(ctx, re.ID, next); err != nil {
		return fmt.Errorf("update next due: %w", err)
	}

	slog.InfoContext(ctx, "Created expense from recurring template",
		"recurring_id", re.ID,
		"description", re.Description,
		"amount_cents", re.Amount.Cents,
		"frequency", re.Frequency,
		"next_due", next.ISO())
	return nil
}
