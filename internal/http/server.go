// Package http serves the JSON API: households, categories, expenses,
// recurring templates, bills, reconciliation and CSV export.
package http

import (
	"context"
	"net/http"
	"time"

	applog "github.com/giannigrespan/pfin/internal/log"
	"github.com/giannigrespan/pfin/internal/middleware/metrics"
	"github.com/giannigrespan/pfin/internal/middleware/ratelimit"
	"github.com/giannigrespan/pfin/internal/middleware/trace"
	"github.com/giannigrespan/pfin/internal/services"
)

type Server struct {
	http.Server

	repo      services.Repository
	expenses  *services.ExpenseService
	bills     *services.BillService
	recurring *services.RecurringProcessor
	reports   *services.ReportService

	limiter *ratelimit.Limiter
	logger  *applog.Logger
}

// Deps carries everything the server needs; all fields are required.
type Deps struct {
	Repo      services.Repository
	Expenses  *services.ExpenseService
	Bills     *services.BillService
	Recurring *services.RecurringProcessor
	Reports   *services.ReportService
	Logger    *applog.Logger
}

func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		repo:      deps.Repo,
		expenses:  deps.Expenses,
		bills:     deps.Bills,
		recurring: deps.Recurring,
		reports:   deps.Reports,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:    deps.Logger,
	}

	collector := metrics.NewCollector()
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, collector.Instrument(pattern, h))
	}

	route("GET /healthz", handleHealth)
	route("GET /readyz", handleReady)
	mux.Handle("GET /metrics", collector.Handler())

	route("POST /api/households", s.handleCreateHousehold)
	route("GET /api/households", s.handleListHouseholds)

	route("POST /api/categories", s.handleCreateCategory)
	route("GET /api/categories", s.handleListCategories)
	route("DELETE /api/categories/{id}", s.handleDeleteCategory)

	route("POST /api/expenses", s.handleCreateExpense)
	route("GET /api/expenses", s.handleListExpenses)
	route("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	route("POST /api/recurring", s.handleCreateRecurring)
	route("GET /api/recurring", s.handleListRecurring)
	route("POST /api/recurring/{id}/fire", s.handleFireRecurring)
	route("DELETE /api/recurring/{id}", s.handleDeactivateRecurring)

	route("POST /api/bills", s.handleCreateBill)
	route("GET /api/bills", s.handleListBills)
	route("POST /api/bills/{id}/pay", s.handlePayBill)
	route("DELETE /api/bills/{id}", s.handleDeactivateBill)

	route("GET /api/reconciliation", s.handleReconciliation)
	route("GET /api/export.csv", s.handleExportCSV)

	handler := trace.Middleware(s.limiter.Middleware(trace.ExtractClientIP)(mux))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown drains in-flight requests and stops the rate limiter's
// cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
