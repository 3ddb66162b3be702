package http

import (
	"net/http"
	"time"

	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/schedule"
)

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var cents int64
	if req.Amount != "" {
		var err error
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
	}

	bill := core.Bill{
		HouseholdID:        req.HouseholdID,
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		Amount:             core.Money{Cents: cents},
		DueDay:             req.DueDay,
		ReminderDaysBefore: req.ReminderDaysBefore,
	}

	created, err := s.bills.Create(r.Context(), bill)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.toBillResponse(created, time.Now()))
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		writeError(w, http.StatusBadRequest, "household_id is required")
		return
	}

	bills, err := s.bills.List(r.Context(), householdID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	now := time.Now()
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, s.toBillResponse(b, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	var req payBillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	paid := core.Today(time.Now())
	if req.Date != "" {
		var err error
		paid, err = parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var cents int64
	if req.Amount != "" {
		var err error
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
	}

	bill, err := s.bills.MarkPaid(r.Context(), r.PathValue("id"), req.PaidBy, paid, cents)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.reports.Invalidate(bill.HouseholdID, paid.Year(), paid.Month())
	writeJSON(w, http.StatusOK, s.toBillResponse(bill, time.Now()))
}

func (s *Server) handleDeactivateBill(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toBillResponse(b core.Bill, now time.Time) billResponse {
	status, daysUntil := schedule.BillStatus(b.DueDay, b.ReminderDaysBefore, now)

	resp := billResponse{
		ID:                 b.ID,
		HouseholdID:        b.HouseholdID,
		CategoryID:         b.CategoryID,
		Name:               b.Name,
		AmountCents:        b.Amount.Cents,
		Amount:             core.FormatEuros(b.Amount.Cents),
		DueDay:             b.DueDay,
		ReminderDaysBefore: b.ReminderDaysBefore,
		Status:             string(status),
		DaysUntilDue:       daysUntil,
	}
	if !b.LastPaid.IsEmpty() {
		resp.LastPaid = b.LastPaid.ISO()
	}
	return resp
}
