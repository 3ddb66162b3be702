// Package report renders a month of expenses as a CSV export in the
// format spreadsheet tools on Italian locales expect: semicolon
// separated, decimal comma, UTF-8 BOM.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/giannigrespan/pfin/internal/core"
)

var csvHeader = []string{"Data", "Descrizione", "Categoria", "Tipo", "Importo (€)", "Pagato da"}

const (
	typePersonal = "Personale"
	typeShared   = "Condivisa"
)

// WriteCSV writes the expenses of one month to w. Payer IDs are
// resolved through the household's members; unknown payers keep the
// raw ID so the row is not lost.
func WriteCSV(w io.Writer, household core.Household, expenses []core.Expense) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	names := map[string]string{
		household.MemberA.ID: household.MemberA.Name,
		household.MemberB.ID: household.MemberB.Name,
	}

	for _, e := range expenses {
		category := "Altro"
		kind := typeShared
		if e.Category != nil {
			category = e.Category.Name
			if e.Category.Split.Kind == core.SplitPersonal {
				kind = typePersonal
			}
		}

		payer := e.PaidBy
		if name, ok := names[e.PaidBy]; ok && name != "" {
			payer = name
		}

		record := []string{
			e.Date.ISO(),
			e.Description,
			category,
			kind,
			core.FormatEuros(e.Amount.Cents),
			payer,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
