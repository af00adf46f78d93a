package payroll

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
)

// Ledger owns the payroll lines of one period and serializes every mutation
// behind a single writer lock, so a correction and a recalculation can never
// interleave and leave a line with gross != basePay + bonus. Reads take the
// read lock and return copies, never live pointers.
//
// Mutations are staged on copies and handed to a persist callback before
// they are published: when persist fails the ledger is left exactly as it
// was, so a failed operation is rejected whole.
type Ledger struct {
	mu          sync.RWMutex
	calc        Calculator
	period      payroll.Period
	lines       map[string]*payroll.PayrollLine
	corrections []payroll.Correction
}

func NewLedger(period payroll.Period, calc Calculator, lines []payroll.PayrollLine, corrections []payroll.Correction) *Ledger {
	byTab := make(map[string]*payroll.PayrollLine, len(lines))
	for i := range lines {
		line := lines[i]
		byTab[line.TabNumber] = &line
	}
	return &Ledger{
		calc:        calc,
		period:      period,
		lines:       byTab,
		corrections: append([]payroll.Correction(nil), corrections...),
	}
}

// Period returns a snapshot of the owning period.
func (l *Ledger) Period() payroll.Period {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.period
}

// RecalculateAll recomputes every line from its current hours, rate and
// bonus and marks it Calculated. Idempotent: unchanged inputs yield
// identical lines. Fails with ErrPeriodClosed on a closed period.
func (l *Ledger) RecalculateAll(persist func([]payroll.PayrollLine) error) ([]payroll.PayrollLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.period.Status == payroll.PeriodStatusClosed {
		return nil, payroll.ErrPeriodClosed
	}

	now := time.Now().UTC()
	staged := make(map[string]*payroll.PayrollLine, len(l.lines))
	for tab, line := range l.lines {
		breakdown, err := l.calc.Compute(line.Hours, line.HourlyRate, line.Bonus)
		if err != nil {
			return nil, err
		}
		updated := *line
		updated.BasePay = breakdown.BasePay
		updated.Gross = breakdown.Gross
		updated.Tax = breakdown.Tax
		updated.Net = breakdown.Net
		updated.Status = payroll.LineStatusCalculated
		updated.UpdatedAt = now
		staged[tab] = &updated
	}

	snapshot := snapshotOf(staged)
	if err := persist(snapshot); err != nil {
		return nil, err
	}
	l.lines = staged
	return snapshot, nil
}

// ApplyCorrection adds the correction amount to the target line's bonus,
// re-derives gross/tax/net from the stored base pay and appends the
// correction to the audit log. The staged line is persisted before it is
// published; the ledger is untouched on any failure.
func (l *Ledger) ApplyCorrection(c payroll.Correction, persist func(payroll.PayrollLine) error) (payroll.PayrollLine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.period.Status == payroll.PeriodStatusClosed {
		return payroll.PayrollLine{}, payroll.ErrPeriodClosed
	}
	line, ok := l.lines[c.TabNumber]
	if !ok {
		return payroll.PayrollLine{}, payroll.ErrUnknownEmployee
	}
	if line.Status == payroll.LineStatusApproved {
		return payroll.PayrollLine{}, payroll.ErrLineApproved
	}

	updated := *line
	updated.Bonus = line.Bonus.Add(c.Amount)
	breakdown := l.calc.Adjust(line.BasePay, updated.Bonus)
	updated.Gross = breakdown.Gross
	updated.Tax = breakdown.Tax
	updated.Net = breakdown.Net
	updated.UpdatedAt = c.AppliedAt

	if err := persist(updated); err != nil {
		return payroll.PayrollLine{}, err
	}

	*line = updated
	l.corrections = append(l.corrections, c)
	return updated, nil
}

// MergeStats reports the outcome of a timesheet merge.
type MergeStats struct {
	Created int
	Updated int
	Skipped int
}

// MergeHours overwrites the hours of existing non-approved lines and adds
// the provided draft lines for tab numbers new to the period. Touched lines
// fall back to Draft; derived money fields are left for the next explicit
// recalculation. Approved lines and tab numbers without a draft are skipped.
func (l *Ledger) MergeHours(hours map[string]decimal.Decimal, drafts map[string]payroll.PayrollLine, persist func([]payroll.PayrollLine) error) (MergeStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.period.Status == payroll.PeriodStatusClosed {
		return MergeStats{}, payroll.ErrPeriodClosed
	}

	staged := make(map[string]*payroll.PayrollLine, len(l.lines))
	for tab, line := range l.lines {
		copied := *line
		staged[tab] = &copied
	}

	var stats MergeStats
	now := time.Now().UTC()
	for tab, h := range hours {
		if line, ok := staged[tab]; ok {
			if line.Status == payroll.LineStatusApproved {
				stats.Skipped++
				continue
			}
			line.Hours = h
			line.Status = payroll.LineStatusDraft
			line.UpdatedAt = now
			stats.Updated++
			continue
		}
		draft, ok := drafts[tab]
		if !ok {
			stats.Skipped++
			continue
		}
		draft.Hours = h
		draft.Status = payroll.LineStatusDraft
		draft.UpdatedAt = now
		staged[tab] = &draft
		stats.Created++
	}

	if err := persist(snapshotOf(staged)); err != nil {
		return MergeStats{}, err
	}
	l.lines = staged
	return stats, nil
}

// MissingTabs returns the tab numbers that have no line in this period yet.
func (l *Ledger) MissingTabs(tabs []string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var missing []string
	for _, tab := range tabs {
		if _, ok := l.lines[tab]; !ok {
			missing = append(missing, tab)
		}
	}
	return missing
}

// Totals folds gross, tax and net across all lines. Recomputed on demand,
// never cached, so it always reflects the latest line state.
func (l *Ledger) Totals() payroll.Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totals := payroll.Totals{Lines: len(l.lines)}
	for _, line := range l.lines {
		totals.Gross = totals.Gross.Add(line.Gross)
		totals.Tax = totals.Tax.Add(line.Tax)
		totals.Net = totals.Net.Add(line.Net)
	}
	return totals
}

// Lines returns a consistent snapshot of all lines, ordered by tab number.
func (l *Ledger) Lines() []payroll.PayrollLine {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return snapshotOf(l.lines)
}

// Line returns a copy of one employee's line.
func (l *Ledger) Line(tabNumber string) (payroll.PayrollLine, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	line, ok := l.lines[tabNumber]
	if !ok {
		return payroll.PayrollLine{}, payroll.ErrUnknownEmployee
	}
	return *line, nil
}

// Corrections returns a copy of the append-only audit log.
func (l *Ledger) Corrections() []payroll.Correction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]payroll.Correction(nil), l.corrections...)
}

func snapshotOf(byTab map[string]*payroll.PayrollLine) []payroll.PayrollLine {
	lines := make([]payroll.PayrollLine, 0, len(byTab))
	for _, line := range byTab {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].TabNumber < lines[j].TabNumber })
	return lines
}
