package mail

import (
	"fmt"
	"strings"

	"github.com/giannigrespan/pfin/internal/core"
	"github.com/giannigrespan/pfin/internal/reconcile"
)

var monthNames = [...]string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

// MonthName returns the Italian name for a 1-based month, or the number
// itself when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", month)
	}
	return monthNames[month-1]
}

// ReminderSubject builds the subject line for a bill reminder.
func ReminderSubject(billName string, daysUntil int) string {
	if daysUntil == 1 {
		return fmt.Sprintf("⚡ Scadenza bolletta: %s domani", billName)
	}
	return fmt.Sprintf("⚡ Scadenza bolletta: %s tra %d giorni", billName, daysUntil)
}

// ReminderBody builds the plain-text body for a bill reminder.
func ReminderBody(billName string, amountCents int64, dueDay, daysUntil int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "La bolletta %q scade il giorno %d del mese", billName, dueDay)
	if daysUntil == 1 {
		b.WriteString(" (domani).\n")
	} else {
		fmt.Fprintf(&b, " (tra %d giorni).\n", daysUntil)
	}
	if amountCents > 0 {
		fmt.Fprintf(&b, "Importo stimato: %s €\n", core.FormatEuros(amountCents))
	}
	b.WriteString("\nRicordati di segnarla come pagata dopo il pagamento.\n")
	return b.String()
}

// ReportSubject builds the subject line for a monthly report.
func ReportSubject(year, month int) string {
	return fmt.Sprintf("\U0001F4CA Report spese %s %d", MonthName(month), year)
}

// ReportBody renders the reconciliation summary and the per-category
// breakdown for the monthly report mail.
func ReportBody(res reconcile.Result, groups []reconcile.CategoryTotal, year, month int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Report spese di %s %d\n\n", MonthName(month), year)
	fmt.Fprintf(&b, "Totale:     %s €\n", core.FormatEuros(res.TotalAll.Cents))
	fmt.Fprintf(&b, "Condivise:  %s €\n", core.FormatEuros(res.TotalShared.Cents))
	fmt.Fprintf(&b, "Personali:  %s €\n", core.FormatEuros(res.TotalPersonal.Cents))
	b.WriteString("\n")

	if res.Settled() {
		b.WriteString("Siete pari, nessun conguaglio necessario.\n")
	} else {
		fmt.Fprintf(&b, "%s deve %s € a %s.\n",
			res.DebtorName,
			core.FormatEuros(int64(res.Amount+0.5)),
			res.CreditorName)
	}

	if len(groups) > 0 {
		b.WriteString("\nPer categoria:\n")
		for _, g := range groups {
			fmt.Fprintf(&b, "  %s %s: %s €\n", g.Icon, g.Name, core.FormatEuros(g.Total.Cents))
		}
	}

	return b.String()
}
