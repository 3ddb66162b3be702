package mail

import (
	"strings"
	"testing"

	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/reconcile"
)

func TestReminderSubject(t *testing.T) {
	tests := []struct {
		name      string
		billName  string
		daysUntil int
		want      string
	}{
		{"three days", "Luce", 3, "⚡ Scadenza bolletta: Luce tra 3 giorni"},
		{"tomorrow", "Gas", 1, "⚡ Scadenza bolletta: Gas domani"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReminderSubject(tt.billName, tt.daysUntil); got != tt.want {
				t.Errorf("ReminderSubject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReminderBody(t *testing.T) {
	body := ReminderBody("Luce", 8550, 15, 3)
	for _, want := range []string{"Luce", "giorno 15", "tra 3 giorni", "85,50 €"} {
		if !strings.Contains(body, want) {
			t.Errorf("ReminderBody() missing %q:\n%s", want, body)
		}
	}

	noAmount := ReminderBody("Gas", 0, 5, 1)
	if strings.Contains(noAmount, "Importo") {
		t.Errorf("ReminderBody() with zero amount should omit the amount line:\n%s", noAmount)
	}
	if !strings.Contains(noAmount, "domani") {
		t.Errorf("ReminderBody() with one day left should say domani:\n%s", noAmount)
	}
}

func TestReportSubject(t *testing.T) {
	got := ReportSubject(2025, 2)
	want := "📊 Report spese Febbraio 2025"
	if got != want {
		t.Errorf("ReportSubject() = %q, want %q", got, want)
	}
}

func TestReportBody(t *testing.T) {
	res := reconcile.Result{
		TotalAll:      core.Money{Cents: 15000},
		TotalShared:   core.Money{Cents: 10000},
		TotalPersonal: core.Money{Cents: 5000},
		DebtorName:    "Bruno",
		CreditorName:  "Anna",
		Amount:        5000,
	}
	groups := []reconcile.CategoryTotal{
		{Name: "Spesa", Icon: "🛒", Total: core.Money{Cents: 10000}},
		{Name: "Altro", Icon: "📦", Total: core.Money{Cents: 5000}},
	}

	body := ReportBody(res, groups, 2025, 2)
	for _, want := range []string{
		"Febbraio 2025",
		"Totale:     150,00 €",
		"Bruno deve 50,00 € a Anna",
		"🛒 Spesa: 100,00 €",
		"📦 Altro: 50,00 €",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("ReportBody() missing %q:\n%s", want, body)
		}
	}
}

func TestReportBodySettled(t *testing.T) {
	res := reconcile.Result{Amount: 0.4}
	body := ReportBody(res, nil, 2025, 6)
	if !strings.Contains(body, "Siete pari") {
		t.Errorf("ReportBody() for settled month should say so:\n%s", body)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("pfin@example.com", []string{"a@example.com", "b@example.com"}, "Ciao", "corpo"))
	for _, want := range []string{
		"From: pfin@example.com\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Ciao\r\n",
		"charset=UTF-8",
		"\r\n\r\ncorpo",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("buildMessage() missing %q:\n%s", want, msg)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(1); got != "Gennaio" {
		t.Errorf("MonthName(1) = %q", got)
	}
	if got := MonthName(12); got != "Dicembre" {
		t.Errorf("MonthName(12) = %q", got)
	}
	if got := MonthName(0); got != "0" {
		t.Errorf("MonthName(0) = %q", got)
	}
}
