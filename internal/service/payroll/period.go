package payroll

import (
	"time"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
)

// Close transitions the period Open -> Closed and forces every Draft or
// Calculated line to Approved. The staged period and lines are persisted
// before the transition is published. Calling Close on a closed period is an
// idempotent no-op; the returned flag reports whether anything changed.
func (l *Ledger) Close(persist func(payroll.Period, []payroll.PayrollLine) error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.period.Status == payroll.PeriodStatusClosed {
		return false, nil
	}

	now := time.Now().UTC()
	period := l.period
	period.Status = payroll.PeriodStatusClosed
	period.UpdatedAt = now

	staged := make(map[string]*payroll.PayrollLine, len(l.lines))
	for tab, line := range l.lines {
		copied := *line
		if copied.Status != payroll.LineStatusApproved {
			copied.Status = payroll.LineStatusApproved
			copied.UpdatedAt = now
		}
		staged[tab] = &copied
	}

	if err := persist(period, snapshotOf(staged)); err != nil {
		return false, err
	}
	l.period = period
	l.lines = staged
	return true, nil
}

// Reopen transitions the period Closed -> Open without touching line
// statuses: approved lines stay approved. A real amendment workflow would
// open a separate adjustment period instead of un-finalizing records; this
// mirrors the documented reopen behavior.
func (l *Ledger) Reopen(persist func(payroll.Period) error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.period.Status == payroll.PeriodStatusOpen {
		return false, nil
	}

	period := l.period
	period.Status = payroll.PeriodStatusOpen
	period.UpdatedAt = time.Now().UTC()

	if err := persist(period); err != nil {
		return false, err
	}
	l.period = period
	return true, nil
}
