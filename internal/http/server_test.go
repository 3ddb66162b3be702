package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "github.com/giannigrespan/pfin/internal/log"
	"github.com/giannigrespan/pfin/internal/services"
	"github.com/giannigrespan/pfin/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, services.Repository) {
	t.Helper()

	repo := storage.NewMemoryRepository()
	expenses := services.NewExpenseService(repo)
	s := NewServer(":0", Deps{
		Repo:      repo,
		Expenses:  expenses,
		Bills:     services.NewBillService(repo, expenses),
		Recurring: services.NewRecurringProcessor(repo, expenses),
		Reports:   services.NewReportService(repo),
		Logger:    applog.Setup("http-test"),
	})

	ts := httptest.NewServer(s.Server.Handler)
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return ts, repo
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createTestHousehold(t *testing.T, baseURL string) (householdID, memberA, memberB string) {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/households", `{
		"name": "Casa",
		"member_a": {"name": "Anna", "email": "anna@example.com"},
		"member_b": {"name": "Bruno", "email": "bruno@example.com"}
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create household status = %d", resp.StatusCode)
	}
	var h struct {
		ID      string `json:"id"`
		MemberA struct {
			ID string `json:"id"`
		} `json:"member_a"`
		MemberB struct {
			ID string `json:"id"`
		} `json:"member_b"`
	}
	decodeBody(t, resp, &h)
	return h.ID, h.MemberA.ID, h.MemberB.ID
}

func createTestCategory(t *testing.T, baseURL, householdID string) string {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/categories", fmt.Sprintf(`{
		"household_id": %q,
		"name": "Spesa",
		"icon": "🛒",
		"split": {"kind": "shared", "ratio": 0.5}
	}`, householdID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category status = %d", resp.StatusCode)
	}
	var c struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &c)
	return c.ID
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", resp.StatusCode)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	householdID, memberA, _ := createTestHousehold(t, ts.URL)
	categoryID := createTestCategory(t, ts.URL, householdID)

	resp := postJSON(t, ts.URL+"/api/expenses", fmt.Sprintf(`{
		"household_id": %q,
		"paid_by": %q,
		"category_id": %q,
		"amount": "45,90",
		"description": "Supermercato",
		"date": "2025-02-03"
	}`, householdID, memberA, categoryID))
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("create expense status = %d: %s", resp.StatusCode, body)
	}
	var created struct {
		ID          string `json:"id"`
		AmountCents int64  `json:"amount_cents"`
		Amount      string `json:"amount"`
	}
	decodeBody(t, resp, &created)
	if created.AmountCents != 4590 {
		t.Errorf("amount_cents = %d, want 4590", created.AmountCents)
	}
	if created.Amount != "45,90" {
		t.Errorf("amount = %q, want 45,90", created.Amount)
	}

	listResp, err := http.Get(ts.URL + "/api/expenses?household_id=" + householdID + "&year=2025&month=2")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	var listed []struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	decodeBody(t, listResp, &listed)
	if len(listed) != 1 {
		t.Fatalf("listed %d expenses, want 1", len(listed))
	}
	if listed[0].Category != "Spesa" {
		t.Errorf("category = %q, want Spesa", listed[0].Category)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/expenses/"+created.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", delResp.StatusCode)
	}

	// Deleting an unknown expense is a 404.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/expenses/nope", nil)
	delResp, _ = http.DefaultClient.Do(req)
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", delResp.StatusCode)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	householdID, memberA, _ := createTestHousehold(t, ts.URL)

	tests := []struct {
		name string
		body string
	}{
		{"invalid amount", fmt.Sprintf(`{"household_id": %q, "paid_by": %q, "amount": "abc", "date": "2025-02-03"}`, householdID, memberA)},
		{"negative amount", fmt.Sprintf(`{"household_id": %q, "paid_by": %q, "amount": "-5", "date": "2025-02-03"}`, householdID, memberA)},
		{"missing payer", fmt.Sprintf(`{"household_id": %q, "amount": "10", "date": "2025-02-03"}`, householdID)},
		{"bad date", fmt.Sprintf(`{"household_id": %q, "paid_by": %q, "amount": "10", "date": "03/02/2025"}`, householdID, memberA)},
		{"unknown field", fmt.Sprintf(`{"household_id": %q, "paid_by": %q, "amount": "10", "date": "2025-02-03", "bogus": 1}`, householdID, memberA)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/expenses", tt.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestRecurringFireEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	householdID, memberA, _ := createTestHousehold(t, ts.URL)
	categoryID := createTestCategory(t, ts.URL, householdID)

	resp := postJSON(t, ts.URL+"/api/recurring", fmt.Sprintf(`{
		"household_id": %q,
		"category_id": %q,
		"paid_by": %q,
		"amount": "9,99",
		"description": "Streaming",
		"frequency": "monthly",
		"next_due": "2025-03-01",
		"auto_create": true
	}`, householdID, categoryID, memberA))
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("create recurring status = %d: %s", resp.StatusCode, body)
	}
	var re struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &re)

	fireResp := postJSON(t, ts.URL+"/api/recurring/"+re.ID+"/fire", "")
	if fireResp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(fireResp.Body)
		t.Fatalf("fire status = %d: %s", fireResp.StatusCode, body)
	}
	var fired struct {
		IsRecurring bool  `json:"is_recurring"`
		AmountCents int64 `json:"amount_cents"`
	}
	decodeBody(t, fireResp, &fired)
	if !fired.IsRecurring || fired.AmountCents != 999 {
		t.Errorf("fired expense = %+v", fired)
	}
}

func TestBillPayEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	householdID, memberA, _ := createTestHousehold(t, ts.URL)
	categoryID := createTestCategory(t, ts.URL, householdID)

	resp := postJSON(t, ts.URL+"/api/bills", fmt.Sprintf(`{
		"household_id": %q,
		"category_id": %q,
		"name": "Luce",
		"amount": "80",
		"due_day": 15,
		"reminder_days_before": 3
	}`, householdID, categoryID))
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("create bill status = %d: %s", resp.StatusCode, body)
	}
	var bill struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, resp, &bill)

	payResp := postJSON(t, ts.URL+"/api/bills/"+bill.ID+"/pay", fmt.Sprintf(`{
		"paid_by": %q,
		"date": "2025-02-14",
		"amount": "85,50"
	}`, memberA))
	if payResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(payResp.Body)
		t.Fatalf("pay status = %d: %s", payResp.StatusCode, body)
	}
	var paid struct {
		LastPaid string `json:"last_paid"`
	}
	decodeBody(t, payResp, &paid)
	if paid.LastPaid != "2025-02-14" {
		t.Errorf("last_paid = %q, want 2025-02-14", paid.LastPaid)
	}

	// The payment shows up as an expense in the month.
	listResp, _ := http.Get(ts.URL + "/api/expenses?household_id=" + householdID + "&year=2025&month=2")
	var expenses []struct {
		AmountCents int64 `json:"amount_cents"`
	}
	decodeBody(t, listResp, &expenses)
	if len(expenses) != 1 || expenses[0].AmountCents != 8550 {
		t.Errorf("expected one 8550-cent expense, got %+v", expenses)
	}
}

func TestReconciliationEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	householdID, memberA, memberB := createTestHousehold(t, ts.URL)
	categoryID := createTestCategory(t, ts.URL, householdID)

	for _, e := range []struct {
		payer  string
		amount string
	}{
		{memberA, "100"},
		{memberB, "40"},
	} {
		resp := postJSON(t, ts.URL+"/api/expenses", fmt.Sprintf(`{
			"household_id": %q,
			"paid_by": %q,
			"category_id": %q,
			"amount": %q,
			"date": "2025-02-10"
		}`, householdID, e.payer, categoryID, e.amount))
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create expense status = %d", resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/api/reconciliation?household_id=" + householdID + "&year=2025&month=2")
	if err != nil {
		t.Fatalf("GET reconciliation: %v", err)
	}
	var rec struct {
		TotalAll     string `json:"total_all"`
		Settled      bool   `json:"settled"`
		DebtorName   string `json:"debtor_name"`
		CreditorName string `json:"creditor_name"`
		Amount       string `json:"amount"`
		Categories   []struct {
			Name  string `json:"name"`
			Total string `json:"total"`
		} `json:"categories"`
	}
	decodeBody(t, resp, &rec)

	if rec.TotalAll != "140,00" {
		t.Errorf("total_all = %q, want 140,00", rec.TotalAll)
	}
	if rec.Settled {
		t.Error("month should not be settled")
	}
	if rec.DebtorName != "Bruno" || rec.CreditorName != "Anna" || rec.Amount != "30,00" {
		t.Errorf("settlement = %s owes %s %s, want Bruno owes Anna 30,00",
			rec.DebtorName, rec.CreditorName, rec.Amount)
	}
	if len(rec.Categories) != 1 || rec.Categories[0].Total != "140,00" {
		t.Errorf("categories = %+v", rec.Categories)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	householdID, memberA, _ := createTestHousehold(t, ts.URL)
	categoryID := createTestCategory(t, ts.URL, householdID)

	resp := postJSON(t, ts.URL+"/api/expenses", fmt.Sprintf(`{
		"household_id": %q,
		"paid_by": %q,
		"category_id": %q,
		"amount": "12,50",
		"description": "Pane",
		"date": "2025-02-03"
	}`, householdID, memberA, categoryID))
	resp.Body.Close()

	csvResp, err := http.Get(ts.URL + "/api/export.csv?household_id=" + householdID + "&year=2025&month=2")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer csvResp.Body.Close()

	if got := csvResp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("content type = %q", got)
	}
	if got := csvResp.Header.Get("Content-Disposition"); !strings.Contains(got, "spese_2025_02.csv") {
		t.Errorf("content disposition = %q", got)
	}

	body, _ := io.ReadAll(csvResp.Body)
	out := string(body)
	if !strings.Contains(out, "Data;Descrizione") {
		t.Errorf("missing header in:\n%s", out)
	}
	if !strings.Contains(out, "2025-02-03;Pane;Spesa;Condivisa;12,50;Anna") {
		t.Errorf("missing expense row in:\n%s", out)
	}
}
