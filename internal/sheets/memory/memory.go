// Package memory holds appended report rows in memory, for tests and
// for running without Google credentials.
package memory

import (
	"context"
	"sync"

	"github.com/giannigrespan/pfin/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows []sheets.ReportRow
}

var _ sheets.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) AppendMonthlyReport(_ context.Context, row sheets.ReportRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, row)
	return nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []sheets.ReportRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]sheets.ReportRow, len(w.rows))
	copy(out, w.rows)
	return out
}
