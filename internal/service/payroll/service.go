package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tabelhr/payroll-backend-go/internal/domain/employee"
	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/tabelhr/payroll-backend-go/internal/domain/timesheet"
	"github.com/tabelhr/payroll-backend-go/internal/pkg/metrics"
)

// TimesheetValidator is the ingestion dependency: a rejected batch comes
// back as a report, never as an error.
type TimesheetValidator interface {
	Validate(batch timesheet.Batch) (*timesheet.ValidatedBatch, timesheet.Report)
}

// Service orchestrates the period ledgers. Ledgers are the in-memory
// authority for a process lifetime; every mutation is persisted to the
// repository before the ledger publishes it, so a failed write rejects the
// operation whole and state survives restarts.
type Service struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger

	calc         Calculator
	ingestor     TimesheetValidator
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
}

func NewService(
	calc Calculator,
	ingestor TimesheetValidator,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
) *Service {
	return &Service{
		ledgers:      make(map[string]*Ledger),
		calc:         calc,
		ingestor:     ingestor,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
	}
}

var _ payroll.PayrollService = (*Service)(nil)

// ========== PERIOD LIFECYCLE ==========

// OpenPeriod creates a new open period and seeds one Draft line per active
// roster employee.
func (s *Service) OpenPeriod(ctx context.Context, req payroll.OpenPeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	now := time.Now().UTC()
	period := payroll.Period{
		ID:          uuid.NewString(),
		Name:        req.Name,
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Status:      payroll.PeriodStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	period.EditableUntil = req.EditableUntilDate()

	created, err := s.payrollRepo.CreatePeriod(ctx, period)
	if err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to create period: %w", err)
	}

	roster, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to load roster: %w", err)
	}
	lines := make([]payroll.PayrollLine, 0, len(roster))
	for _, emp := range roster {
		lines = append(lines, newDraftLine(created.ID, emp, now))
	}
	if err := s.payrollRepo.UpsertLines(ctx, created.ID, lines); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to seed payroll lines: %w", err)
	}

	ledger := NewLedger(created, s.calc, lines, nil)
	s.mu.Lock()
	s.ledgers[created.ID] = ledger
	s.mu.Unlock()

	return toPeriodResponse(created), nil
}

func (s *Service) GetPeriod(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return toPeriodResponse(ledger.Period()), nil
}

func (s *Service) ListPeriods(ctx context.Context) ([]payroll.PeriodResponse, error) {
	periods, err := s.payrollRepo.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		// The cached ledger is authoritative for status once loaded.
		s.mu.Lock()
		if ledger, ok := s.ledgers[p.ID]; ok {
			p = ledger.Period()
		}
		s.mu.Unlock()
		result = append(result, toPeriodResponse(p))
	}
	return result, nil
}

// ClosePeriod closes the period and approves every remaining line. Closing
// an already-closed period is an idempotent no-op.
func (s *Service) ClosePeriod(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	closed, err := ledger.Close(func(period payroll.Period, lines []payroll.PayrollLine) error {
		if err := s.payrollRepo.UpdatePeriodStatus(ctx, period.ID, period.Status); err != nil {
			return fmt.Errorf("failed to persist period status: %w", err)
		}
		if err := s.payrollRepo.UpsertLines(ctx, period.ID, lines); err != nil {
			return fmt.Errorf("failed to persist payroll lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	if closed {
		metrics.PeriodsClosedTotal.Inc()
	}
	return toPeriodResponse(ledger.Period()), nil
}

// ReopenPeriod reopens a closed period without touching line statuses.
func (s *Service) ReopenPeriod(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	if _, err := ledger.Reopen(func(period payroll.Period) error {
		if err := s.payrollRepo.UpdatePeriodStatus(ctx, period.ID, period.Status); err != nil {
			return fmt.Errorf("failed to persist period status: %w", err)
		}
		return nil
	}); err != nil {
		return payroll.PeriodResponse{}, err
	}
	return toPeriodResponse(ledger.Period()), nil
}

// ========== CALCULATION ==========

func (s *Service) Recalculate(ctx context.Context, periodID string) ([]payroll.PayrollLineResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return nil, err
	}

	lines, err := ledger.RecalculateAll(func(lines []payroll.PayrollLine) error {
		if err := s.payrollRepo.UpsertLines(ctx, periodID, lines); err != nil {
			return fmt.Errorf("failed to persist payroll lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecalculationsTotal.Inc()

	return toLineResponses(lines), nil
}

func (s *Service) ApplyCorrection(ctx context.Context, periodID string, req payroll.CorrectionRequest) (payroll.PayrollLineResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollLineResponse{}, err
	}

	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return payroll.PayrollLineResponse{}, err
	}

	correction := payroll.Correction{
		ID:            uuid.NewString(),
		PeriodID:      periodID,
		TabNumber:     req.TabNumber,
		Amount:        req.Amount,
		Justification: req.Justification,
		AppliedAt:     time.Now().UTC(),
	}
	line, err := ledger.ApplyCorrection(correction, func(line payroll.PayrollLine) error {
		if err := s.payrollRepo.SaveCorrection(ctx, correction, line); err != nil {
			return fmt.Errorf("failed to persist correction: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollLineResponse{}, err
	}
	metrics.CorrectionsTotal.Inc()

	return toLineResponse(line), nil
}

// ========== TIMESHEET IMPORT ==========

// ImportTimesheets validates the batch and merges accepted hours into the
// ledger. It never recalculates: the caller decides when to run the pass.
func (s *Service) ImportTimesheets(ctx context.Context, periodID string, batch timesheet.Batch) (payroll.ImportResult, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return payroll.ImportResult{}, err
	}
	if ledger.Period().Status == payroll.PeriodStatusClosed {
		return payroll.ImportResult{}, payroll.ErrPeriodClosed
	}

	validated, report := s.ingestor.Validate(batch)
	if validated == nil {
		metrics.TimesheetImportsTotal.WithLabelValues("rejected").Inc()
		return payroll.ImportResult{Accepted: false, Report: report}, nil
	}

	hours := validated.HoursByEmployee()
	tabs := make([]string, 0, len(hours))
	for tab := range hours {
		tabs = append(tabs, tab)
	}

	drafts := make(map[string]payroll.PayrollLine)
	now := time.Now().UTC()
	for _, tab := range ledger.MissingTabs(tabs) {
		emp, err := s.employeeRepo.GetByTabNumber(ctx, tab)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				// Not on the roster: no rate to pay against, leave skipped.
				continue
			}
			return payroll.ImportResult{}, fmt.Errorf("failed to look up employee %s: %w", tab, err)
		}
		drafts[tab] = newDraftLine(periodID, emp, now)
	}

	stats, err := ledger.MergeHours(hours, drafts, func(lines []payroll.PayrollLine) error {
		if err := s.payrollRepo.UpsertLines(ctx, periodID, lines); err != nil {
			return fmt.Errorf("failed to persist payroll lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.ImportResult{}, err
	}
	metrics.TimesheetImportsTotal.WithLabelValues("accepted").Inc()

	return payroll.ImportResult{
		Accepted:     true,
		Report:       report,
		TotalRows:    validated.TotalRows,
		TotalHours:   validated.TotalHours,
		LinesCreated: stats.Created,
		LinesUpdated: stats.Updated,
		LinesSkipped: stats.Skipped,
	}, nil
}

// ========== READS ==========

func (s *Service) Lines(ctx context.Context, periodID string) ([]payroll.PayrollLineResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return nil, err
	}
	return toLineResponses(ledger.Lines()), nil
}

func (s *Service) Totals(ctx context.Context, periodID string) (payroll.TotalsResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return payroll.TotalsResponse{}, err
	}

	totals := ledger.Totals()
	return payroll.TotalsResponse{
		Gross: totals.Gross,
		Tax:   totals.Tax,
		Net:   totals.Net,
		Lines: totals.Lines,
	}, nil
}

func (s *Service) Corrections(ctx context.Context, periodID string) ([]payroll.CorrectionResponse, error) {
	ledger, err := s.ledger(ctx, periodID)
	if err != nil {
		return nil, err
	}

	corrections := ledger.Corrections()
	result := make([]payroll.CorrectionResponse, 0, len(corrections))
	for _, c := range corrections {
		result = append(result, payroll.CorrectionResponse{
			ID:            c.ID,
			TabNumber:     c.TabNumber,
			Amount:        c.Amount,
			Justification: c.Justification,
			AppliedAt:     c.AppliedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// ========== HELPERS ==========

// ledger returns the cached ledger for a period, loading it from the
// repository on first access.
func (s *Service) ledger(ctx context.Context, periodID string) (*Ledger, error) {
	s.mu.Lock()
	if ledger, ok := s.ledgers[periodID]; ok {
		s.mu.Unlock()
		return ledger, nil
	}
	s.mu.Unlock()

	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	lines, err := s.payrollRepo.ListLines(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll lines: %w", err)
	}
	corrections, err := s.payrollRepo.ListCorrections(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load corrections: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ledger, ok := s.ledgers[periodID]; ok {
		return ledger, nil
	}
	ledger := NewLedger(period, s.calc, lines, corrections)
	s.ledgers[periodID] = ledger
	return ledger, nil
}

func newDraftLine(periodID string, emp employee.Employee, now time.Time) payroll.PayrollLine {
	return payroll.PayrollLine{
		ID:         uuid.NewString(),
		PeriodID:   periodID,
		TabNumber:  emp.TabNumber,
		FullName:   emp.FullName,
		HourlyRate: emp.HourlyRate,
		Status:     payroll.LineStatusDraft,
		UpdatedAt:  now,
	}
}

func toPeriodResponse(p payroll.Period) payroll.PeriodResponse {
	var until *string
	if p.EditableUntil != nil {
		str := p.EditableUntil.Format("2006-01-02")
		until = &str
	}
	return payroll.PeriodResponse{
		ID:            p.ID,
		Name:          p.Name,
		PeriodMonth:   p.PeriodMonth,
		PeriodYear:    p.PeriodYear,
		Status:        string(p.Status),
		EditableUntil: until,
	}
}

func toLineResponse(line payroll.PayrollLine) payroll.PayrollLineResponse {
	return payroll.PayrollLineResponse{
		TabNumber:  line.TabNumber,
		FullName:   line.FullName,
		Hours:      line.Hours,
		HourlyRate: line.HourlyRate,
		BasePay:    line.BasePay,
		Bonus:      line.Bonus,
		Gross:      line.Gross,
		Tax:        line.Tax,
		Net:        line.Net,
		Status:     string(line.Status),
	}
}

func toLineResponses(lines []payroll.PayrollLine) []payroll.PayrollLineResponse {
	result := make([]payroll.PayrollLineResponse, 0, len(lines))
	for _, line := range lines {
		result = append(result, toLineResponse(line))
	}
	return result
}
