// Package services holds the application use cases between the HTTP
// and worker entry points and the storage layer.
package services

import (
	"context"

	"github.com/giannigrespan/pfin/internal/amqp"
	"github.com/giannigrespan/pfin/internal/core"
)

// Repository is the storage surface the services need. Both the SQLite
// and the in-memory repositories implement it.
type Repository interface {
	CreateHousehold(ctx context.Context, h core.Household) (core.Household, error)
	GetHousehold(ctx context.Context, id string) (core.Household, error)
	ListHouseholds(ctx context.Context) ([]core.Household, error)

	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	ListCategories(ctx context.Context, householdID string) ([]core.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	SoftDeleteExpense(ctx context.Context, id string) error
	ListExpensesForMonth(ctx context.Context, householdID string, year, month int) ([]core.Expense, error)

	CreateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error)
	GetRecurring(ctx context.Context, id string) (core.RecurringExpense, error)
	ListRecurring(ctx context.Context, householdID string) ([]core.RecurringExpense, error)
	ListDueRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringExpense, error)
	UpdateRecurringNextDue(ctx context.Context, id string, nextDue core.Date) error
	DeactivateRecurring(ctx context.Context, id string) error

	CreateBill(ctx context.Context, b core.Bill) (core.Bill, error)
	GetBill(ctx context.Context, id string) (core.Bill, error)
	ListBills(ctx context.Context, householdID string) ([]core.Bill, error)
	ListActiveBills(ctx context.Context) ([]core.Bill, error)
	UpdateBillLastPaid(ctx context.Context, id string, paid core.Date) error
	DeactivateBill(ctx context.Context, id string) error
}

// Publisher pushes reminder and report messages onto the broker.
type Publisher interface {
	PublishBillReminder(ctx context.Context, msg *amqp.BillReminderMessage) error
	PublishMonthlyReport(ctx context.Context, msg *amqp.MonthlyReportMessage) error
}
