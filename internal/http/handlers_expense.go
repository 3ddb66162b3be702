package http

import (
	"net/http"
	"time"

	"github.com/giannigrespan/pfin/internal/core"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	date := core.Today(time.Now())
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	expense := core.Expense{
		HouseholdID: req.HouseholdID,
		PaidBy:      req.PaidBy,
		CategoryID:  req.CategoryID,
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		Date:        date,
		Notes:       req.Notes,
	}

	created, err := s.expenses.Create(r.Context(), expense)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.reports.Invalidate(created.HouseholdID, created.Date.Year(), created.Date.Month())
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		writeError(w, http.StatusBadRequest, "household_id is required")
		return
	}
	params := ParseMonthParams(r.URL.Query(), time.Now())
	if !params.Valid() {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	expenses, err := s.expenses.ListMonth(r.Context(), householdID, params.Year, params.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
