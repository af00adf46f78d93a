package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
)

// PayrollRepository keeps period state in process memory.
type PayrollRepository struct {
	mu          sync.RWMutex
	periods     map[string]payroll.Period
	lines       map[string]map[string]payroll.PayrollLine
	corrections map[string][]payroll.Correction
}

func NewPayrollRepository() *PayrollRepository {
	return &PayrollRepository{
		periods:     make(map[string]payroll.Period),
		lines:       make(map[string]map[string]payroll.PayrollLine),
		corrections: make(map[string][]payroll.Correction),
	}
}

func (r *PayrollRepository) CreatePeriod(_ context.Context, period payroll.Period) (payroll.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.periods[period.ID]; exists {
		return payroll.Period{}, payroll.ErrPeriodAlreadyExists
	}
	r.periods[period.ID] = period
	r.lines[period.ID] = make(map[string]payroll.PayrollLine)
	return period, nil
}

func (r *PayrollRepository) GetPeriodByID(_ context.Context, id string) (payroll.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	period, ok := r.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return period, nil
}

func (r *PayrollRepository) ListPeriods(_ context.Context) ([]payroll.Period, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]payroll.Period, 0, len(r.periods))
	for _, p := range r.periods {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PeriodYear != result[j].PeriodYear {
			return result[i].PeriodYear < result[j].PeriodYear
		}
		return result[i].PeriodMonth < result[j].PeriodMonth
	})
	return result, nil
}

func (r *PayrollRepository) UpdatePeriodStatus(_ context.Context, id string, status payroll.PeriodStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	period, ok := r.periods[id]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	period.Status = status
	period.UpdatedAt = time.Now().UTC()
	r.periods[id] = period
	return nil
}

func (r *PayrollRepository) UpsertLines(_ context.Context, periodID string, lines []payroll.PayrollLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.periods[periodID]; !ok {
		return payroll.ErrPeriodNotFound
	}
	byTab := r.lines[periodID]
	if byTab == nil {
		byTab = make(map[string]payroll.PayrollLine)
		r.lines[periodID] = byTab
	}
	for _, line := range lines {
		byTab[line.TabNumber] = line
	}
	return nil
}

func (r *PayrollRepository) ListLines(_ context.Context, periodID string) ([]payroll.PayrollLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byTab := r.lines[periodID]
	result := make([]payroll.PayrollLine, 0, len(byTab))
	for _, line := range byTab {
		result = append(result, line)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TabNumber < result[j].TabNumber })
	return result, nil
}

func (r *PayrollRepository) SaveCorrection(_ context.Context, correction payroll.Correction, line payroll.PayrollLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byTab, ok := r.lines[correction.PeriodID]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	byTab[line.TabNumber] = line
	r.corrections[correction.PeriodID] = append(r.corrections[correction.PeriodID], correction)
	return nil
}

func (r *PayrollRepository) ListCorrections(_ context.Context, periodID string) ([]payroll.Correction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]payroll.Correction(nil), r.corrections[periodID]...), nil
}
