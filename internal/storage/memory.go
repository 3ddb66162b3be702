package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/giannigrespan/pfin/internal/core"
)

// MemoryRepository is an in-memory implementation of the same surface as
// SQLiteRepository, used in tests and for running without a database
// file.
type MemoryRepository struct {
	mu         sync.Mutex
	households map[string]core.Household
	categories map[string]core.Category
	expenses   map[string]core.Expense
	deleted    map[string]bool
	recurring  map[string]core.RecurringExpense
	bills      map[string]core.Bill
	order      []string // expense insertion order, listings stay deterministic
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		households: make(map[string]core.Household),
		categories: make(map[string]core.Category),
		expenses:   make(map[string]core.Expense),
		deleted:    make(map[string]bool),
		recurring:  make(map[string]core.RecurringExpense),
		bills:      make(map[string]core.Bill),
	}
}

func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) CreateHousehold(_ context.Context, h core.Household) (core.Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.MemberA.ID == "" {
		h.MemberA.ID = uuid.NewString()
	}
	if h.MemberB.ID == "" {
		h.MemberB.ID = uuid.NewString()
	}
	r.households[h.ID] = h
	return h, nil
}

func (r *MemoryRepository) GetHousehold(_ context.Context, id string) (core.Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.households[id]
	if !ok {
		return core.Household{}, ErrNotFound
	}
	return h, nil
}

func (r *MemoryRepository) ListHouseholds(context.Context) ([]core.Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Household, 0, len(r.households))
	for _, h := range r.households {
		out = append(out, h)
	}
	return out, nil
}

func (r *MemoryRepository) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *MemoryRepository) ListCategories(_ context.Context, householdID string) ([]core.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Category
	for _, c := range r.categories {
		if c.HouseholdID == householdID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepository) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryRepository) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.expenses[e.ID] = e
	r.order = append(r.order, e.ID)
	return e, nil
}

func (r *MemoryRepository) SoftDeleteExpense(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[id]; !ok || r.deleted[id] {
		return ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *MemoryRepository) ListExpensesForMonth(_ context.Context, householdID string, year, month int) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := core.NewDate(year, month, 1)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)

	var out []core.Expense
	for _, id := range r.order {
		e := r.expenses[id]
		if r.deleted[id] || e.HouseholdID != householdID {
			continue
		}
		if e.Date.Before(start.Time) || e.Date.After(end) {
			continue
		}
		if e.Category == nil && e.CategoryID != "" {
			if c, ok := r.categories[e.CategoryID]; ok {
				cc := c
				e.Category = &cc
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MemoryRepository) CreateRecurring(_ context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if re.ID == "" {
		re.ID = uuid.NewString()
	}
	r.recurring[re.ID] = re
	return re, nil
}

func (r *MemoryRepository) GetRecurring(_ context.Context, id string) (core.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	re, ok := r.recurring[id]
	if !ok {
		return core.RecurringExpense{}, ErrNotFound
	}
	return re, nil
}

func (r *MemoryRepository) ListRecurring(_ context.Context, householdID string) ([]core.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.RecurringExpense
	for _, re := range r.recurring {
		if re.HouseholdID == householdID {
			out = append(out, re)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListDueRecurring(_ context.Context, asOf core.Date) ([]core.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.RecurringExpense
	for _, re := range r.recurring {
		if re.Active && re.AutoCreate && !re.NextDue.After(asOf.Time) {
			out = append(out, re)
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdateRecurringNextDue(_ context.Context, id string, nextDue core.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	re, ok := r.recurring[id]
	if !ok {
		return ErrNotFound
	}
	re.NextDue = nextDue
	r.recurring[id] = re
	return nil
}

func (r *MemoryRepository) DeactivateRecurring(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	re, ok := r.recurring[id]
	if !ok {
		return ErrNotFound
	}
	re.Active = false
	r.recurring[id] = re
	return nil
}

func (r *MemoryRepository) CreateBill(_ context.Context, b core.Bill) (core.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.bills[b.ID] = b
	return b, nil
}

func (r *MemoryRepository) GetBill(_ context.Context, id string) (core.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return core.Bill{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepository) ListBills(_ context.Context, householdID string) ([]core.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Bill
	for _, b := range r.bills {
		if b.HouseholdID == householdID && b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListActiveBills(context.Context) ([]core.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Bill
	for _, b := range r.bills {
		if b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdateBillLastPaid(_ context.Context, id string, paid core.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return ErrNotFound
	}
	b.LastPaid = paid
	r.bills[id] = b
	return nil
}

func (r *MemoryRepository) DeactivateBill(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return ErrNotFound
	}
	b.Active = false
	r.bills[id] = b
	return nil
}
