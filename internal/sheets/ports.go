// Package sheets defines the port for archiving monthly reports to a
// spreadsheet.
package sheets

import (
	"context"

	"github.com/giannigrespan/pfin/internal/reconcile"
)

// ReportRow is one archived monthly report line.
type ReportRow struct {
	Year   int
	Month  int
	Result reconcile.Result
}

// ReportWriter appends a monthly settlement summary to an external
// spreadsheet.
type ReportWriter interface {
	AppendMonthlyReport(ctx context.Context, row ReportRow) error
}
