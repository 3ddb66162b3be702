package http

import (
	"fmt"
	"time"

	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/reconcile"
)

// Amounts travel as decimal euro strings ("12,50" or "12.50") on the
// way in and as both cents and a formatted string on the way out.

type memberPayload struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type householdRequest struct {
	Name    string        `json:"name"`
	MemberA memberPayload `json:"member_a"`
	MemberB memberPayload `json:"member_b"`
}

type householdResponse struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	MemberA memberPayload `json:"member_a"`
	MemberB memberPayload `json:"member_b"`
}

func toHouseholdResponse(h core.Household) householdResponse {
	return householdResponse{
		ID:      h.ID,
		Name:    h.Name,
		MemberA: memberPayload{ID: h.MemberA.ID, Name: h.MemberA.Name, Email: h.MemberA.Email},
		MemberB: memberPayload{ID: h.MemberB.ID, Name: h.MemberB.Name, Email: h.MemberB.Email},
	}
}

type splitPayload struct {
	Kind  string  `json:"kind"`
	Ratio float64 `json:"ratio,omitempty"`
}

type categoryRequest struct {
	HouseholdID string       `json:"household_id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon,omitempty"`
	Color       string       `json:"color,omitempty"`
	Split       splitPayload `json:"split"`
}

type categoryResponse struct {
	ID          string       `json:"id"`
	HouseholdID string       `json:"household_id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon,omitempty"`
	Color       string       `json:"color,omitempty"`
	Split       splitPayload `json:"split"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		HouseholdID: c.HouseholdID,
		Name:        c.Name,
		Icon:        c.Icon,
		Color:       c.Color,
		Split:       splitPayload{Kind: string(c.Split.Kind), Ratio: c.Split.Ratio},
	}
}

type expenseRequest struct {
	HouseholdID string `json:"household_id"`
	PaidBy      string `json:"paid_by"`
	CategoryID  string `json:"category_id,omitempty"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Notes       string `json:"notes,omitempty"`
}

type expenseResponse struct {
	ID          string `json:"id"`
	HouseholdID string `json:"household_id"`
	PaidBy      string `json:"paid_by"`
	CategoryID  string `json:"category_id,omitempty"`
	Category    string `json:"category,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		HouseholdID: e.HouseholdID,
		PaidBy:      e.PaidBy,
		CategoryID:  e.CategoryID,
		AmountCents: e.Amount.Cents,
		Amount:      core.FormatEuros(e.Amount.Cents),
		Description: e.Description,
		Date:        e.Date.ISO(),
		IsRecurring: e.IsRecurring,
		Notes:       e.Notes,
	}
	if e.Category != nil {
		resp.Category = e.Category.Name
	}
	return resp
}

type recurringRequest struct {
	HouseholdID string `json:"household_id"`
	CategoryID  string `json:"category_id"`
	PaidBy      string `json:"paid_by"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	NextDue     string `json:"next_due"`
	AutoCreate  bool   `json:"auto_create"`
}

type recurringResponse struct {
	ID          string `json:"id"`
	HouseholdID string `json:"household_id"`
	CategoryID  string `json:"category_id"`
	PaidBy      string `json:"paid_by"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	NextDue     string `json:"next_due"`
	AutoCreate  bool   `json:"auto_create"`
	Active      bool   `json:"active"`
}

func toRecurringResponse(re core.RecurringExpense) recurringResponse {
	return recurringResponse{
		ID:          re.ID,
		HouseholdID: re.HouseholdID,
		CategoryID:  re.CategoryID,
		PaidBy:      re.PaidBy,
		AmountCents: re.Amount.Cents,
		Amount:      core.FormatEuros(re.Amount.Cents),
		Description: re.Description,
		Frequency:   string(re.Frequency),
		NextDue:     re.NextDue.ISO(),
		AutoCreate:  re.AutoCreate,
		Active:      re.Active,
	}
}

type billRequest struct {
	HouseholdID        string `json:"household_id"`
	CategoryID         string `json:"category_id,omitempty"`
	Name               string `json:"name"`
	Amount             string `json:"amount,omitempty"`
	DueDay             int    `json:"due_day"`
	ReminderDaysBefore int    `json:"reminder_days_before"`
}

type billResponse struct {
	ID                 string `json:"id"`
	HouseholdID        string `json:"household_id"`
	CategoryID         string `json:"category_id,omitempty"`
	Name               string `json:"name"`
	AmountCents        int64  `json:"amount_cents"`
	Amount             string `json:"amount"`
	DueDay             int    `json:"due_day"`
	ReminderDaysBefore int    `json:"reminder_days_before"`
	LastPaid           string `json:"last_paid,omitempty"`
	Status             string `json:"status"`
	DaysUntilDue       int    `json:"days_until_due"`
}

type payBillRequest struct {
	PaidBy string `json:"paid_by"`
	Date   string `json:"date,omitempty"`
	Amount string `json:"amount,omitempty"`
}

type reconciliationResponse struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalAll      string          `json:"total_all"`
	TotalShared   string          `json:"total_shared"`
	TotalPersonal string          `json:"total_personal"`
	PaidByA       string          `json:"paid_by_a"`
	PaidByB       string          `json:"paid_by_b"`
	Settled       bool            `json:"settled"`
	DebtorName    string          `json:"debtor_name,omitempty"`
	CreditorName  string          `json:"creditor_name,omitempty"`
	Amount        string          `json:"amount,omitempty"`
	Categories    []categoryTotal `json:"categories"`
}

type categoryTotal struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Total string `json:"total"`
}

func toReconciliationResponse(year, month int, res reconcile.Result, groups []reconcile.CategoryTotal) reconciliationResponse {
	resp := reconciliationResponse{
		Year:          year,
		Month:         month,
		TotalAll:      core.FormatEuros(res.TotalAll.Cents),
		TotalShared:   core.FormatEuros(res.TotalShared.Cents),
		TotalPersonal: core.FormatEuros(res.TotalPersonal.Cents),
		PaidByA:       core.FormatEuros(res.PaidByA.Cents),
		PaidByB:       core.FormatEuros(res.PaidByB.Cents),
		Settled:       res.Settled(),
		Categories:    make([]categoryTotal, 0, len(groups)),
	}
	if !resp.Settled {
		resp.DebtorName = res.DebtorName
		resp.CreditorName = res.CreditorName
		resp.Amount = core.FormatEuros(int64(res.Amount + 0.5))
	}
	for _, g := range groups {
		resp.Categories = append(resp.Categories, categoryTotal{
			Name:  g.Name,
			Icon:  g.Icon,
			Color: g.Color,
			Total: core.FormatEuros(g.Total.Cents),
		})
	}
	return resp
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q, want yyyy-mm-dd", s)
	}
	return core.Today(t), nil
}
