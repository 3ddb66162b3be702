package core

import (
	"testing"
	"time"
)

func TestSplitPolicyValidate(t *testing.T) {
	cases := []struct {
		p  SplitPolicy
		ok bool
	}{
		{Personal(), true},
		{Shared(0), true},
		{Shared(0.5), true},
		{Shared(1), true},
		{Shared(-0.1), false},
		{Shared(1.1), false},
		{SplitPolicy{Kind: "weird"}, false},
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSplitPolicyShareOf(t *testing.T) {
	a, b := Shared(0.7).ShareOf(Money{Cents: 10000})
	if a != 7000 || b != 3000 {
		t.Fatalf("shared 0.7 of 100.00: got a=%v b=%v", a, b)
	}

	// Personal never splits, whatever ratio might be stored.
	a, b = SplitPolicy{Kind: SplitPersonal, Ratio: 0.7}.ShareOf(Money{Cents: 10000})
	if a != 0 || b != 0 {
		t.Fatalf("personal policy must not split: got a=%v b=%v", a, b)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2025, 1, 1),
		PaidBy:      "user-a",
		Description: "groceries",
		Amount:      Money{Cents: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{Time: time.Time{}}, PaidBy: "a", Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), PaidBy: "", Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), PaidBy: "a", Amount: Money{Cents: 0}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestRecurringExpenseValidate(t *testing.T) {
	good := RecurringExpense{
		Description: "rent",
		CategoryID:  "cat-1",
		Amount:      Money{Cents: 90000},
		Frequency:   Monthly,
		NextDue:     NewDate(2025, 2, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringExpense{
		{Description: "", CategoryID: "c", Amount: Money{Cents: 1}, Frequency: Monthly, NextDue: NewDate(2025, 2, 1)},
		{Description: "x", CategoryID: "", Amount: Money{Cents: 1}, Frequency: Monthly, NextDue: NewDate(2025, 2, 1)},
		{Description: "x", CategoryID: "c", Amount: Money{Cents: 0}, Frequency: Monthly, NextDue: NewDate(2025, 2, 1)},
		{Description: "x", CategoryID: "c", Amount: Money{Cents: 1}, Frequency: "daily", NextDue: NewDate(2025, 2, 1)},
		{Description: "x", CategoryID: "c", Amount: Money{Cents: 1}, Frequency: Monthly},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBillValidate(t *testing.T) {
	good := Bill{Name: "electricity", DueDay: 15, ReminderDaysBefore: 3}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Bill{
		{Name: "", DueDay: 15, ReminderDaysBefore: 3},
		{Name: "x", DueDay: 0, ReminderDaysBefore: 3},
		{Name: "x", DueDay: 32, ReminderDaysBefore: 3},
		{Name: "x", DueDay: 15, ReminderDaysBefore: 0},
		{Name: "x", DueDay: 15, ReminderDaysBefore: 31},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
