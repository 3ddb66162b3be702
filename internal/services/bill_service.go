package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giannigrespan/pfin/internal/core"
)

// BillService manages recurring bills and their payment state.
type BillService struct {
	repo     Repository
	expenses *ExpenseService
}

func NewBillService(repo Repository, expenses *ExpenseService) *BillService {
	return &BillService{repo: repo, expenses: expenses}
}

func (s *BillService) Create(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, fmt.Errorf("validation failed: %w", err)
	}
	b.Active = true

	created, err := s.repo.CreateBill(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	slog.InfoContext(ctx, "Bill created",
		"id", created.ID,
		"name", created.Name,
		"due_day", created.DueDay)
	return created, nil
}

func (s *BillService) List(ctx context.Context, householdID string) ([]core.Bill, error) {
	bills, err := s.repo.ListBills(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

// MarkPaid records a payment. amountCents overrides the bill's stored
// amount when positive, for bills whose amount varies month to month.
// When the bill has a category and a known amount, a matching expense
// is recorded so the payment shows up in the monthly reconciliation.
func (s *BillService) MarkPaid(ctx context.Context, billID string, paidBy string, paid core.Date, amountCents int64) (core.Bill, error) {
	bill, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}

	amount := bill.Amount.Cents
	if amountCents > 0 {
		amount = amountCents
	}

	if bill.CategoryID != "" && amount > 0 && paidBy != "" {
		expense := core.Expense{
			HouseholdID: bill.HouseholdID,
			PaidBy:      paidBy,
			CategoryID:  bill.CategoryID,
			Amount:      core.Money{Cents: amount},
			Description: bill.Name,
			Date:        paid,
		}
		if _, err := s.expenses.Create(ctx, expense); err != nil {
			return core.Bill{}, fmt.Errorf("record bill payment expense: %w", err)
		}
	}

	if err := s.repo.UpdateBillLastPaid(ctx, billID, paid); err != nil {
		return core.Bill{}, fmt.Errorf("update bill last paid: %w", err)
	}

	bill.LastPaid = paid
	slog.InfoContext(ctx, "Bill marked paid",
		"id", bill.ID,
		"name", bill.Name,
		"paid", paid.ISO(),
		"amount_cents", amount)
	return bill, nil
}

func (s *BillService) Deactivate(ctx context.Context, billID string) error {
	if err := s.repo.DeactivateBill(ctx, billID); err != nil {
		return fmt.Errorf("deactivate bill: %w", err)
	}
	slog.InfoContext(ctx, "Bill deactivated", "id", billID)
	return nil
}
