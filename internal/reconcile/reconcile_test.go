package reconcile

import (
	"math"
	"math/rand"
	"testing"

	"github.com/giannigrespan/pfin/internal/core"
)

var (
	anna  = core.Member{ID: "user-a", Name: "Anna"}
	bruno = core.Member{ID: "user-b", Name: "Bruno"}
)

func sharedCat(name string, ratio float64) *core.Category {
	return &core.Category{ID: "cat-" + name, Name: name, Icon: "x", Color: "#000", Split: core.Shared(ratio)}
}

func personalCat(name string) *core.Category {
	return &core.Category{ID: "cat-" + name, Name: name, Icon: "x", Color: "#000", Split: core.Personal()}
}

func expense(paidBy string, cents int64, cat *core.Category) core.Expense {
	id := ""
	if cat != nil {
		id = cat.ID
	}
	return core.Expense{
		PaidBy:     paidBy,
		Amount:     core.Money{Cents: cents},
		CategoryID: id,
		Category:   cat,
		Date:       core.NewDate(2024, 3, 10),
	}
}

func TestComputeSingleSharedExpense(t *testing.T) {
	// 100.00 shared 50/50, paid entirely by A: B owes A 50.00.
	r := Compute([]core.Expense{expense(anna.ID, 10000, sharedCat("Casa", 0.5))}, anna, bruno)

	if r.OwedByA != 5000 || r.OwedByB != 5000 {
		t.Errorf("owed = %v / %v, want 5000 / 5000", r.OwedByA, r.OwedByB)
	}
	if r.Balance != 5000 {
		t.Errorf("balance = %v, want 5000", r.Balance)
	}
	if r.DebtorName != "Bruno" || r.CreditorName != "Anna" {
		t.Errorf("debtor/creditor = %s/%s, want Bruno/Anna", r.DebtorName, r.CreditorName)
	}
	if r.Amount != 5000 {
		t.Errorf("amount = %v, want 5000", r.Amount)
	}
	if r.TotalAll.Cents != 10000 || r.TotalShared.Cents != 10000 || r.TotalPersonal.Cents != 0 {
		t.Errorf("totals = %d/%d/%d", r.TotalAll.Cents, r.TotalShared.Cents, r.TotalPersonal.Cents)
	}
}

func TestComputePersonalExcludedFromSharedAccounting(t *testing.T) {
	// Personal expense of 40.00 paid by A counts in totals and A's paid
	// amount, never in anyone's obligation.
	r := Compute([]core.Expense{expense(anna.ID, 4000, personalCat("Hobby"))}, anna, bruno)

	if r.TotalAll.Cents != 4000 || r.TotalPersonal.Cents != 4000 {
		t.Errorf("totalAll/personal = %d/%d, want 4000/4000", r.TotalAll.Cents, r.TotalPersonal.Cents)
	}
	if r.PaidByA.Cents != 4000 {
		t.Errorf("paidByA = %d, want 4000", r.PaidByA.Cents)
	}
	if r.OwedByA != 0 || r.OwedByB != 0 {
		t.Errorf("owed = %v/%v, want 0/0", r.OwedByA, r.OwedByB)
	}
}

func TestComputeMissingCategoryTreatedAsPersonal(t *testing.T) {
	r := Compute([]core.Expense{expense(bruno.ID, 2500, nil)}, anna, bruno)

	if r.TotalPersonal.Cents != 2500 || r.TotalShared.Cents != 0 {
		t.Errorf("personal/shared = %d/%d, want 2500/0", r.TotalPersonal.Cents, r.TotalShared.Cents)
	}
	if r.PaidByB.Cents != 2500 {
		t.Errorf("paidByB = %d, want 2500", r.PaidByB.Cents)
	}
}

func TestComputeThirdPartyPayer(t *testing.T) {
	// An expense paid by someone outside the pair contributes to totals
	// but to neither member's paid amount.
	r := Compute([]core.Expense{expense("visiting-parent", 3000, sharedCat("Spesa", 0.5))}, anna, bruno)

	if r.PaidByA.Cents != 0 || r.PaidByB.Cents != 0 {
		t.Errorf("paid = %d/%d, want 0/0", r.PaidByA.Cents, r.PaidByB.Cents)
	}
	if r.TotalShared.Cents != 3000 {
		t.Errorf("totalShared = %d, want 3000", r.TotalShared.Cents)
	}
	if r.OwedByA != 1500 || r.OwedByB != 1500 {
		t.Errorf("owed = %v/%v, want 1500/1500", r.OwedByA, r.OwedByB)
	}
}

func TestComputeEvenMonthIsSettled(t *testing.T) {
	// Two 50.00 shared expenses at ratio 0.5, one paid by each member.
	food := sharedCat("Spesa", 0.5)
	r := Compute([]core.Expense{
		expense(anna.ID, 5000, food),
		expense(bruno.ID, 5000, food),
	}, anna, bruno)

	if !r.Settled() {
		t.Errorf("amount = %v, want below settled threshold", r.Amount)
	}
	// The >= 0 tie-break makes A the nominal creditor on an even month.
	if r.CreditorName != "Anna" {
		t.Errorf("creditor = %s, want Anna", r.CreditorName)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	r := Compute(nil, anna, bruno)

	if r.TotalAll.Cents != 0 || r.Amount != 0 {
		t.Errorf("empty input should be all-zero, got total=%d amount=%v", r.TotalAll.Cents, r.Amount)
	}
	if r.CreditorName != "Anna" || r.DebtorName != "Bruno" {
		t.Errorf("empty input creditor/debtor = %s/%s", r.CreditorName, r.DebtorName)
	}
	if !r.Settled() {
		t.Error("empty input must be settled")
	}
}

func TestComputeUnevenRatio(t *testing.T) {
	// 90.00 shared 70/30 paid by B: A owes 63.00, balance = -63.00,
	// so A is debtor for 63.00.
	r := Compute([]core.Expense{expense(bruno.ID, 9000, sharedCat("Casa", 0.7))}, anna, bruno)

	if r.OwedByA != 6300 || r.OwedByB != 2700 {
		t.Errorf("owed = %v/%v, want 6300/2700", r.OwedByA, r.OwedByB)
	}
	if r.Balance != -6300 {
		t.Errorf("balance = %v, want -6300", r.Balance)
	}
	if r.DebtorName != "Anna" || r.CreditorName != "Bruno" {
		t.Errorf("debtor/creditor = %s/%s, want Anna/Bruno", r.DebtorName, r.CreditorName)
	}
}

func TestComputeConservationAndZeroSum(t *testing.T) {
	cats := []*core.Category{
		sharedCat("Casa", 0.6),
		sharedCat("Spesa", 0.5),
		personalCat("Hobby"),
		nil,
	}
	payers := []string{anna.ID, bruno.ID, "guest"}

	rng := rand.New(rand.NewSource(42))
	var expenses []core.Expense
	for i := 0; i < 200; i++ {
		expenses = append(expenses, expense(
			payers[rng.Intn(len(payers))],
			int64(rng.Intn(50000)+1),
			cats[rng.Intn(len(cats))],
		))
	}

	r := Compute(expenses, anna, bruno)

	if r.TotalShared.Cents+r.TotalPersonal.Cents != sumCents(expenses) {
		t.Errorf("shared+personal = %d, want %d",
			r.TotalShared.Cents+r.TotalPersonal.Cents, sumCents(expenses))
	}
	if diff := math.Abs(r.OwedByA + r.OwedByB - float64(r.TotalShared.Cents)); diff > 1e-6 {
		t.Errorf("owedA+owedB differs from totalShared by %v", diff)
	}
}

func TestComputePermutationInvariance(t *testing.T) {
	food := sharedCat("Spesa", 0.5)
	home := sharedCat("Casa", 0.65)
	expenses := []core.Expense{
		expense(anna.ID, 12345, food),
		expense(bruno.ID, 6789, home),
		expense(anna.ID, 4000, personalCat("Hobby")),
		expense(bruno.ID, 999, nil),
		expense("guest", 5000, food),
	}

	want := Compute(expenses, anna, bruno)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]core.Expense(nil), expenses...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Compute(shuffled, anna, bruno)
		if got.TotalAll != want.TotalAll || got.TotalShared != want.TotalShared ||
			got.TotalPersonal != want.TotalPersonal ||
			got.PaidByA != want.PaidByA || got.PaidByB != want.PaidByB ||
			got.DebtorName != want.DebtorName || got.CreditorName != want.CreditorName {
			t.Fatalf("permutation %d changed the result:\ngot  %+v\nwant %+v", i, got, want)
		}
		// Float accumulators may differ in the last bits across orderings.
		const eps = 1e-6
		if math.Abs(got.OwedByA-want.OwedByA) > eps ||
			math.Abs(got.OwedByB-want.OwedByB) > eps ||
			math.Abs(got.Balance-want.Balance) > eps ||
			math.Abs(got.Amount-want.Amount) > eps {
			t.Fatalf("permutation %d drifted:\ngot  %+v\nwant %+v", i, got, want)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	food := sharedCat("Spesa", 0.5)
	fun := personalCat("Svago")
	expenses := []core.Expense{
		expense(anna.ID, 3000, food),
		expense(bruno.ID, 2000, food),
		expense(anna.ID, 1000, fun),
	}

	groups := GroupByCategory(expenses)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Spesa" || groups[0].Total.Cents != 5000 {
		t.Errorf("groups[0] = %s/%d, want Spesa/5000", groups[0].Name, groups[0].Total.Cents)
	}
	if groups[1].Name != "Svago" || groups[1].Total.Cents != 1000 {
		t.Errorf("groups[1] = %s/%d, want Svago/1000", groups[1].Name, groups[1].Total.Cents)
	}
}

func TestGroupByCategoryMissingCategoryBucket(t *testing.T) {
	groups := GroupByCategory([]core.Expense{
		expense(anna.ID, 700, nil),
		expense(bruno.ID, 300, nil),
	})

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Name != "Altro" || groups[0].Total.Cents != 1000 {
		t.Errorf("fallback bucket = %s/%d, want Altro/1000", groups[0].Name, groups[0].Total.Cents)
	}
	if groups[0].Color != "#6b7280" {
		t.Errorf("fallback color = %s", groups[0].Color)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	if groups := GroupByCategory(nil); len(groups) != 0 {
		t.Fatalf("empty input produced %d groups", len(groups))
	}
}

func sumCents(expenses []core.Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Amount.Cents
	}
	return total
}
