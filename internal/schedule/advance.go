// Package schedule advances recurring-expense templates and classifies
// bill urgency. Like the reconciliation engine it is pure: callers pass
// in "today" and persist whatever comes back.
//
// Each frequency has its own Advancer strategy, registered in a lookup
// table so new frequencies slot in without touching the callers.
package schedule

import (
	"fmt"
	"time"

	"github.com/giannigrespan/pfin/internal/core"
)

// Advancer computes the occurrence after the given due date for one
// frequency type.
type Advancer interface {
	Next(due core.Date) core.Date
}

// WeeklyAdvancer implements Advancer for weekly templates.
type WeeklyAdvancer struct{}

// Next returns the date seven days later.
func (WeeklyAdvancer) Next(due core.Date) core.Date {
	return core.Date{Time: due.AddDate(0, 0, 7)}
}

// MonthlyAdvancer implements Advancer for monthly templates.
type MonthlyAdvancer struct{}

// Next returns the same day one calendar month later, clamped to the
// target month's length (Jan 31 advances to the last day of February,
// never to March 2).
func (MonthlyAdvancer) Next(due core.Date) core.Date {
	return addMonthsClamped(due, 1)
}

// YearlyAdvancer implements Advancer for yearly templates.
type YearlyAdvancer struct{}

// Next returns the same day one year later; Feb 29 clamps to Feb 28 in
// non-leap years.
func (YearlyAdvancer) Next(due core.Date) core.Date {
	return addMonthsClamped(due, 12)
}

var advancers = map[core.Frequency]Advancer{
	core.Weekly:  WeeklyAdvancer{},
	core.Monthly: MonthlyAdvancer{},
	core.Yearly:  YearlyAdvancer{},
}

// GetAdvancer returns the advancer for a frequency, or an error for an
// unsupported one.
func GetAdvancer(f core.Frequency) (Advancer, error) {
	a, ok := advancers[f]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", f)
	}
	return a, nil
}

// RegisterAdvancer registers a custom advancer for a new frequency type.
func RegisterAdvancer(f core.Frequency, a Advancer) {
	advancers[f] = a
}

// NextOccurrence advances due by one period of f. Unknown frequencies
// fall back to monthly, matching how templates are created.
func NextOccurrence(due core.Date, f core.Frequency) core.Date {
	a, err := GetAdvancer(f)
	if err != nil {
		a = MonthlyAdvancer{}
	}
	return a.Next(due)
}

// Materialize builds the one-off expense a fired template produces:
// the template's amount, category and description on today's date, with
// a back-reference to the template. The caller persists the expense and
// the advanced NextDue.
func Materialize(r core.RecurringExpense, today core.Date) core.Expense {
	return core.Expense{
		HouseholdID: r.HouseholdID,
		PaidBy:      r.PaidBy,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        today,
		IsRecurring: true,
		RecurringID: r.ID,
	}
}

// addMonthsClamped adds months preserving the day of month where valid
// and clamping to the last day otherwise. time.AddDate alone would
// normalize Jan 31 + 1 month into March.
func addMonthsClamped(d core.Date, months int) core.Date {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
