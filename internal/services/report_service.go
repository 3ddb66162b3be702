package services

import (
	"context"
	"fmt"
	"time"

	"github.com/giannigrespan/pfin/internal/cache"
	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/reconcile"
)

// MonthlyReport is the full derived view of one household month.
type MonthlyReport struct {
	Household  core.Household
	Year       int
	Month      int
	Expenses   []core.Expense
	Result     reconcile.Result
	Categories []reconcile.CategoryTotal
}

// ReportService computes reconciliation reports over stored expenses.
// Results are cached briefly, so a report may lag a new expense by up
// to the cache TTL.
type ReportService struct {
	repo  Repository
	cache *cache.LRU[MonthlyReport]
}

const reportCacheTTL = time.Minute

func NewReportService(repo Repository) *ReportService {
	return &ReportService{
		repo:  repo,
		cache: cache.NewLRU[MonthlyReport](100, reportCacheTTL),
	}
}

// Monthly loads a household's expenses for one month and reconciles
// them.
func (s *ReportService) Monthly(ctx context.Context, householdID string, year, month int) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, fmt.Errorf("invalid month %d", month)
	}

	key := fmt.Sprintf("%s:%04d-%02d", householdID, year, month)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	household, err := s.repo.GetHousehold(ctx, householdID)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("get household: %w", err)
	}

	expenses, err := s.repo.ListExpensesForMonth(ctx, householdID, year, month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("list expenses: %w", err)
	}

	result := reconcile.Compute(expenses, household.MemberA, household.MemberB)
	groups := reconcile.GroupByCategory(expenses)

	report := MonthlyReport{
		Household:  household,
		Year:       year,
		Month:      month,
		Expenses:   expenses,
		Result:     result,
		Categories: groups,
	}
	s.cache.Set(key, report)
	return report, nil
}

// Invalidate drops the cached report for one household month, for
// callers that just wrote an expense and need a fresh view.
func (s *ReportService) Invalidate(householdID string, year, month int) {
	s.cache.Delete(fmt.Sprintf("%s:%04d-%02d", householdID, year, month))
}
