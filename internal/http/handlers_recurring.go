package http

import (
	"net/http"
	"time"

	"github.com/giannigrespan/pfin/internal/core"
)

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	nextDue, err := parseDate(req.NextDue)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	re := core.RecurringExpense{
		HouseholdID: req.HouseholdID,
		CategoryID:  req.CategoryID,
		PaidBy:      req.PaidBy,
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		Frequency:   core.Frequency(req.Frequency),
		NextDue:     nextDue,
		AutoCreate:  req.AutoCreate,
		Active:      true,
	}
	if err := re.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateRecurring(r.Context(), re)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringResponse(created))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		writeError(w, http.StatusBadRequest, "household_id is required")
		return
	}

	templates, err := s.repo.ListRecurring(r.Context(), householdID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]recurringResponse, 0, len(templates))
	for _, re := range templates {
		out = append(out, toRecurringResponse(re))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleFireRecurring materializes a template immediately, outside its
// normal schedule.
func (s *Server) handleFireRecurring(w http.ResponseWriter, r *http.Request) {
	created, err := s.recurring.FireNow(r.Context(), r.PathValue("id"), core.Today(time.Now()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.reports.Invalidate(created.HouseholdID, created.Date.Year(), created.Date.Month())
	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleDeactivateRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeactivateRecurring(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
