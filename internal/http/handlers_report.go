package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/giannigrespan/pfin/internal/report"
)

func (s *Server) handleReconciliation(w http.ResponseWriter, r *http.Request) {
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

	monthly, err := s.reports.Monthly(r.Context(), householdID, params.Year, params.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconciliationResponse(
		monthly.Year, monthly.Month, monthly.Result, monthly.Categories))
}

// handleExportCSV streams a month of expenses as a spreadsheet-ready
// CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
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

	monthly, err := s.reports.Monthly(r.Context(), householdID, params.Year, params.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("spese_%04d_%02d.csv", params.Year, params.Month)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := report.WriteCSV(w, monthly.Household, monthly.Expenses); err != nil {
		// Headers are gone by now, the best we can do is log.
		s.logger.ErrorContext(r.Context(), "Failed to write CSV export", "error", err)
	}
}
