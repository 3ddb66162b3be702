// Package reconcile computes the month-end settlement between the two
// household members and the per-category spending breakdown.
//
// Everything here is a pure function of its inputs: no storage access,
// no clock, no mutation of the expense slice. Results are recomputed on
// every query so they always reflect the latest data.
package reconcile

import (
	"math"
	"sort"

	"github.com/giannigrespan/pfin/internal/core"
)

// SettledThresholdCents is the sub-cent noise floor below which a balance
// is reported as settled rather than as a real debt.
const SettledThresholdCents = 1.0

// Fallback bucket for expenses whose category is missing or was deleted.
const (
	otherName  = "Altro"
	otherIcon  = "\U0001F4E6"
	otherColor = "#6b7280"
)

// Result is the derived settlement for one set of expenses. Exact sums
// (who paid what, totals) are integer cents; ratio-weighted values
// (owed, balance, amount) keep full float64 precision so presentation
// can round once without compounding error.
type Result struct {
	TotalAll      core.Money
	TotalShared   core.Money
	TotalPersonal core.Money

	PaidByA core.Money
	PaidByB core.Money

	OwedByA float64 // cents
	OwedByB float64 // cents

	// Balance is PaidByA - OwedByA. Positive means A covered more than
	// A's share of the shared expenses, so B owes A.
	Balance float64 // cents

	DebtorName   string
	CreditorName string
	Amount       float64 // cents, absolute value of Balance
}

// Settled reports whether the residual debt is below the noise floor.
// An exactly even month names A as nominal creditor with Amount 0;
// callers must check Settled before attributing meaning to the direction.
func (r Result) Settled() bool {
	return r.Amount < SettledThresholdCents
}

// CategoryTotal is one bucket of the per-category breakdown.
type CategoryTotal struct {
	Name  string
	Icon  string
	Color string
	Total core.Money
}

// Compute folds the expenses into a settlement between memberA and memberB.
//
// Per expense:
//   - the amount is credited to whichever member paid; a payer outside the
//     pair still counts toward the totals but toward neither member
//   - a missing category, or one with a personal split policy, keeps the
//     whole amount out of the shared accounting
//   - a shared category assigns amount*ratio to A's obligation and the
//     rest to B's
//
// The fold is order-independent: any permutation of expenses yields the
// same Result. Empty input yields all zeros with A as nominal creditor.
func Compute(expenses []core.Expense, memberA, memberB core.Member) Result {
	var (
		paidByA, paidByB           int64
		totalShared, totalPersonal int64
		owedByA, owedByB           float64
	)

	for _, e := range expenses {
		switch e.PaidBy {
		case memberA.ID:
			paidByA += e.Amount.Cents
		case memberB.ID:
			paidByB += e.Amount.Cents
		}

		cat := e.Category
		if cat == nil || cat.Split.Kind != core.SplitShared {
			totalPersonal += e.Amount.Cents
			continue
		}

		totalShared += e.Amount.Cents
		a, b := cat.Split.ShareOf(e.Amount)
		owedByA += a
		owedByB += b
	}

	balance := float64(paidByA) - owedByA

	debtor, creditor := memberA.Name, memberB.Name
	if balance >= 0 {
		debtor, creditor = memberB.Name, memberA.Name
	}

	return Result{
		TotalAll:      core.Money{Cents: paidByA + paidByB},
		TotalShared:   core.Money{Cents: totalShared},
		TotalPersonal: core.Money{Cents: totalPersonal},
		PaidByA:       core.Money{Cents: paidByA},
		PaidByB:       core.Money{Cents: paidByB},
		OwedByA:       owedByA,
		OwedByB:       owedByB,
		Balance:       balance,
		DebtorName:    debtor,
		CreditorName:  creditor,
		Amount:        math.Abs(balance),
	}
}

// GroupByCategory sums expenses per category name and returns the buckets
// sorted by descending total. Uncategorized expenses land in the "Altro"
// bucket. Buckets with equal totals keep first-encountered order, so the
// output is deterministic for a fixed input order.
func GroupByCategory(expenses []core.Expense) []CategoryTotal {
	index := make(map[string]int)
	var groups []CategoryTotal

	for _, e := range expenses {
		name, icon, color := otherName, otherIcon, otherColor
		if e.Category != nil {
			name, icon, color = e.Category.Name, e.Category.Icon, e.Category.Color
		}

		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryTotal{Name: name, Icon: icon, Color: color})
		}
		groups[i].Total.Cents += e.Amount.Cents
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.Cents > groups[j].Total.Cents
	})
	return groups
}
