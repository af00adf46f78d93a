package payroll

import "context"

// PayrollRepository persists period state between process lifetimes. The
// engine mutates its in-memory ledger first and writes through on success.
type PayrollRepository interface {
	CreatePeriod(ctx context.Context, period Period) (Period, error)
	GetPeriodByID(ctx context.Context, id string) (Period, error)
	ListPeriods(ctx context.Context) ([]Period, error)
	UpdatePeriodStatus(ctx context.Context, id string, status PeriodStatus) error

	UpsertLines(ctx context.Context, periodID string, lines []PayrollLine) error
	ListLines(ctx context.Context, periodID string) ([]PayrollLine, error)

	// SaveCorrection persists the correction and the resulting line as one
	// unit, so a crash cannot leave an audit entry without its effect.
	SaveCorrection(ctx context.Context, correction Correction, line PayrollLine) error
	ListCorrections(ctx context.Context, periodID string) ([]Correction, error)
}
