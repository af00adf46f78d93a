package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineStatus enum
type LineStatus string

const (
	LineStatusDraft      LineStatus = "draft"
	LineStatusCalculated LineStatus = "calculated"
	LineStatusApproved   LineStatus = "approved"
)

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusClosed PeriodStatus = "closed"
)

// Period is one payroll accounting cycle. EditableUntil is an informational
// deadline shown to operators; it is not enforced by the engine.
type Period struct {
	ID            string
	Name          string
	PeriodMonth   int
	PeriodYear    int
	Status        PeriodStatus
	EditableUntil *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PayrollLine is one employee's computed result for a period.
// Gross = BasePay + Bonus and Net = Gross - Tax hold after every mutation;
// the derived fields are never set independently of the calculator.
type PayrollLine struct {
	ID         string
	PeriodID   string
	TabNumber  string
	FullName   string
	Hours      decimal.Decimal
	HourlyRate decimal.Decimal
	BasePay    decimal.Decimal
	Bonus      decimal.Decimal
	Gross      decimal.Decimal
	Tax        decimal.Decimal
	Net        decimal.Decimal
	Status     LineStatus
	UpdatedAt  time.Time
}

// Correction is an immutable append to the period's audit log. Corrections
// are the only sanctioned way to mutate a line's bonus after calculation.
type Correction struct {
	ID            string
	PeriodID      string
	TabNumber     string
	Amount        decimal.Decimal
	Justification string
	AppliedAt     time.Time
}

// Totals is the fold of gross/tax/net across all lines of a period.
type Totals struct {
	Gross decimal.Decimal
	Tax   decimal.Decimal
	Net   decimal.Decimal
	Lines int
}
