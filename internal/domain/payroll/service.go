package payroll

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tabelhr/payroll-backend-go/internal/domain/timesheet"
)

// ImportResult is the outcome of a timesheet import. A rejected batch is a
// normal result, not an error: the report carries the findings and no line
// was touched.
type ImportResult struct {
	Accepted     bool             `json:"accepted"`
	Report       timesheet.Report `json:"report"`
	TotalRows    int              `json:"total_rows"`
	TotalHours   decimal.Decimal  `json:"total_hours"`
	LinesCreated int              `json:"lines_created"`
	LinesUpdated int              `json:"lines_updated"`
	LinesSkipped int              `json:"lines_skipped"`
}

// PayrollService is the single entry point external collaborators call.
// Every mutating method is gated on the period being open.
type PayrollService interface {
	OpenPeriod(ctx context.Context, req OpenPeriodRequest) (PeriodResponse, error)
	GetPeriod(ctx context.Context, periodID string) (PeriodResponse, error)
	ListPeriods(ctx context.Context) ([]PeriodResponse, error)

	Recalculate(ctx context.Context, periodID string) ([]PayrollLineResponse, error)
	ApplyCorrection(ctx context.Context, periodID string, req CorrectionRequest) (PayrollLineResponse, error)
	ClosePeriod(ctx context.Context, periodID string) (PeriodResponse, error)
	ReopenPeriod(ctx context.Context, periodID string) (PeriodResponse, error)
	ImportTimesheets(ctx context.Context, periodID string, batch timesheet.Batch) (ImportResult, error)

	Lines(ctx context.Context, periodID string) ([]PayrollLineResponse, error)
	Totals(ctx context.Context, periodID string) (TotalsResponse, error)
	Corrections(ctx context.Context, periodID string) ([]CorrectionResponse, error)
}
