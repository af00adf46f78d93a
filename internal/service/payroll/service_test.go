package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabelhr/payroll-backend-go/internal/domain/employee"
	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/tabelhr/payroll-backend-go/internal/domain/timesheet"
	"github.com/tabelhr/payroll-backend-go/internal/repository/memory"
	timesheetService "github.com/tabelhr/payroll-backend-go/internal/service/timesheet"
)

func newTestService(t *testing.T, roster ...employee.Employee) (*Service, *memory.PayrollRepository) {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	ctx := context.Background()
	for _, emp := range roster {
		_, err := employeeRepo.Create(ctx, emp)
		require.NoError(t, err)
	}

	payrollRepo := memory.NewPayrollRepository()
	calc := NewCalculator(DefaultTaxRate)
	ingestor := timesheetService.NewIngestor(d("24"))
	return NewService(calc, ingestor, payrollRepo, employeeRepo), payrollRepo
}

func testEmployee(tab, name, rate string) employee.Employee {
	now := time.Now().UTC()
	return employee.Employee{
		ID:         uuid.NewString(),
		TabNumber:  tab,
		FullName:   name,
		Department: "Assembly",
		HourlyRate: d(rate),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func openTestPeriod(t *testing.T, svc *Service) string {
	t.Helper()
	period, err := svc.OpenPeriod(context.Background(), payroll.OpenPeriodRequest{
		Name:        "March 2026",
		PeriodMonth: 3,
		PeriodYear:  2026,
	})
	require.NoError(t, err)
	return period.ID
}

func workRows(tab string, dates []string, hours string) []timesheet.RawRow {
	rows := make([]timesheet.RawRow, 0, len(dates))
	for i, date := range dates {
		rows = append(rows, timesheet.RawRow{
			RowNumber: i + 2,
			TabNumber: tab,
			Date:      date,
			Hours:     hours,
			DayType:   timesheet.DayTypeWork,
		})
	}
	return rows
}

func TestService_OpenPeriod_SeedsRoster(t *testing.T) {
	svc, _ := newTestService(t,
		testEmployee("0482", "Ivanova A.", "850"),
		testEmployee("0519", "Petrov K.", "700"),
	)

	periodID := openTestPeriod(t, svc)

	lines, err := svc.Lines(context.Background(), periodID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "0482", lines[0].TabNumber)
	assert.Equal(t, string(payroll.LineStatusDraft), lines[0].Status)
	assert.True(t, lines[0].Hours.IsZero())
}

func TestService_OpenPeriod_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.OpenPeriod(context.Background(), payroll.OpenPeriodRequest{
		Name:        "",
		PeriodMonth: 13,
		PeriodYear:  2026,
	})
	assert.Error(t, err)
}

func TestService_Recalculate_ThenClose(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	// Import 21 working days of 8 hours: 168 hours total.
	dates := make([]string, 0, 21)
	for day := 1; day <= 21; day++ {
		dates = append(dates, time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	}
	result, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		FileName: "march.xlsx",
		Rows:     workRows("0482", dates, "8"),
	})
	require.NoError(t, err)
	require.True(t, result.Accepted)
	assert.Equal(t, 1, result.LinesUpdated)

	lines, err := svc.Recalculate(ctx, periodID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "142800", lines[0].BasePay.String())
	assert.Equal(t, string(payroll.LineStatusCalculated), lines[0].Status)

	closed, err := svc.ClosePeriod(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PeriodStatusClosed), closed.Status)

	// A closed period refuses recalculation and imports.
	_, err = svc.Recalculate(ctx, periodID)
	assert.ErrorIs(t, err, payroll.ErrPeriodClosed)
	_, err = svc.ImportTimesheets(ctx, periodID, timesheet.Batch{})
	assert.ErrorIs(t, err, payroll.ErrPeriodClosed)

	// Closing again is a no-op, not an error.
	again, err := svc.ClosePeriod(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PeriodStatusClosed), again.Status)
}

func TestService_ApplyCorrection(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	result, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "8"),
	})
	require.NoError(t, err)
	require.True(t, result.Accepted)
	_, err = svc.Recalculate(ctx, periodID)
	require.NoError(t, err)

	line, err := svc.ApplyCorrection(ctx, periodID, payroll.CorrectionRequest{
		TabNumber:     "0482",
		Amount:        d("5000"),
		Justification: "retro shift premium",
	})
	require.NoError(t, err)

	// 8h * 850 = 6800 base; correction rides on the bonus.
	assert.Equal(t, "6800", line.BasePay.String())
	assert.Equal(t, "5000", line.Bonus.String())
	assert.Equal(t, "11800", line.Gross.String())
	assert.Equal(t, "1534", line.Tax.String())
	assert.Equal(t, "10266", line.Net.String())

	corrections, err := svc.Corrections(ctx, periodID)
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "0482", corrections[0].TabNumber)
	assert.Equal(t, "retro shift premium", corrections[0].Justification)
}

func TestService_ApplyCorrection_Validation(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	periodID := openTestPeriod(t, svc)

	_, err := svc.ApplyCorrection(context.Background(), periodID, payroll.CorrectionRequest{
		TabNumber: "48", // not a 4-digit tab
		Amount:    d("5000"),
	})
	assert.Error(t, err)
}

func TestService_ImportTimesheets_RejectedBatch(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	// 25 hours in one day exceeds the cap; the whole batch is rejected.
	result, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: []timesheet.RawRow{
			{RowNumber: 2, TabNumber: "0482", Date: "2026-03-02", Hours: "25", DayType: timesheet.DayTypeWork},
			{RowNumber: 3, TabNumber: "0482", Date: "2026-03-03", Hours: "8", DayType: timesheet.DayTypeWork},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	require.Len(t, result.Report.Findings, 1)
	assert.Equal(t, timesheet.CodeDailyCapExceeded, result.Report.Findings[0].Code)

	// No hours landed, including the valid second row.
	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Hours.IsZero())
}

func TestService_ImportTimesheets_NoAutoRecalculate(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	_, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "8"),
	})
	require.NoError(t, err)
	_, err = svc.Recalculate(ctx, periodID)
	require.NoError(t, err)

	// A second import changes hours but leaves derived money stale until the
	// next explicit recalculation.
	_, err = svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "10"),
	})
	require.NoError(t, err)

	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, "10", lines[0].Hours.String())
	assert.Equal(t, "6800", lines[0].BasePay.String())
	assert.Equal(t, string(payroll.LineStatusDraft), lines[0].Status)
}

func TestService_ImportTimesheets_UnknownTabSkipped(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	result, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: []timesheet.RawRow{
			{RowNumber: 2, TabNumber: "0482", Date: "2026-03-02", Hours: "8", DayType: timesheet.DayTypeWork},
			{RowNumber: 3, TabNumber: "7777", Date: "2026-03-02", Hours: "8", DayType: timesheet.DayTypeWork},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Accepted)
	assert.Equal(t, 1, result.LinesUpdated)
	assert.Equal(t, 1, result.LinesSkipped)

	// No line appears for the tab that is not on the roster.
	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "0482", lines[0].TabNumber)
}

func TestService_Totals(t *testing.T) {
	svc, _ := newTestService(t,
		testEmployee("0482", "Ivanova A.", "850"),
		testEmployee("0519", "Petrov K.", "700"),
	)
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	_, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: []timesheet.RawRow{
			{RowNumber: 2, TabNumber: "0482", Date: "2026-03-02", Hours: "8", DayType: timesheet.DayTypeWork},
			{RowNumber: 3, TabNumber: "0519", Date: "2026-03-02", Hours: "8", DayType: timesheet.DayTypeWork},
		},
	})
	require.NoError(t, err)
	_, err = svc.Recalculate(ctx, periodID)
	require.NoError(t, err)

	totals, err := svc.Totals(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Lines)
	// 6800 + 5600
	assert.Equal(t, "12400", totals.Gross.String())
	assert.True(t, totals.Net.Equal(totals.Gross.Sub(totals.Tax)))
}

func TestService_LedgerReloadsFromRepository(t *testing.T) {
	employeeRepo := memory.NewEmployeeRepository()
	payrollRepo := memory.NewPayrollRepository()
	ctx := context.Background()
	_, err := employeeRepo.Create(ctx, testEmployee("0482", "Ivanova A.", "850"))
	require.NoError(t, err)

	calc := NewCalculator(DefaultTaxRate)
	ingestor := timesheetService.NewIngestor(d("24"))
	svc := NewService(calc, ingestor, payrollRepo, employeeRepo)
	period, err := svc.OpenPeriod(ctx, payroll.OpenPeriodRequest{Name: "March 2026", PeriodMonth: 3, PeriodYear: 2026})
	require.NoError(t, err)

	_, err = svc.ImportTimesheets(ctx, period.ID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "8"),
	})
	require.NoError(t, err)
	_, err = svc.Recalculate(ctx, period.ID)
	require.NoError(t, err)

	// A fresh service over the same repository sees the persisted state.
	restarted := NewService(calc, ingestor, payrollRepo, employeeRepo)
	lines, err := restarted.Lines(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "6800", lines[0].BasePay.String())
	assert.Equal(t, string(payroll.LineStatusCalculated), lines[0].Status)
}

func TestService_GetPeriod_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetPeriod(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)
}

// failingPayrollRepo wraps the in-memory repository and fails selected
// writes, simulating storage loss mid-operation.
type failingPayrollRepo struct {
	payroll.PayrollRepository
	failUpserts     bool
	failStatus      bool
	failCorrections bool
}

var errStorageDown = errors.New("storage unavailable")

func (r *failingPayrollRepo) UpsertLines(ctx context.Context, periodID string, lines []payroll.PayrollLine) error {
	if r.failUpserts {
		return errStorageDown
	}
	return r.PayrollRepository.UpsertLines(ctx, periodID, lines)
}

func (r *failingPayrollRepo) UpdatePeriodStatus(ctx context.Context, id string, status payroll.PeriodStatus) error {
	if r.failStatus {
		return errStorageDown
	}
	return r.PayrollRepository.UpdatePeriodStatus(ctx, id, status)
}

func (r *failingPayrollRepo) SaveCorrection(ctx context.Context, correction payroll.Correction, line payroll.PayrollLine) error {
	if r.failCorrections {
		return errStorageDown
	}
	return r.PayrollRepository.SaveCorrection(ctx, correction, line)
}

func newFailingService(t *testing.T, roster ...employee.Employee) (*Service, *failingPayrollRepo) {
	t.Helper()

	employeeRepo := memory.NewEmployeeRepository()
	ctx := context.Background()
	for _, emp := range roster {
		_, err := employeeRepo.Create(ctx, emp)
		require.NoError(t, err)
	}

	repo := &failingPayrollRepo{PayrollRepository: memory.NewPayrollRepository()}
	calc := NewCalculator(DefaultTaxRate)
	ingestor := timesheetService.NewIngestor(d("24"))
	return NewService(calc, ingestor, repo, employeeRepo), repo
}

func TestService_ApplyCorrection_PersistFailure(t *testing.T) {
	svc, repo := newFailingService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	_, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "8"),
	})
	require.NoError(t, err)
	_, err = svc.Recalculate(ctx, periodID)
	require.NoError(t, err)

	repo.failCorrections = true
	_, err = svc.ApplyCorrection(ctx, periodID, payroll.CorrectionRequest{
		TabNumber:     "0482",
		Amount:        d("5000"),
		Justification: "retro shift premium",
	})
	assert.ErrorIs(t, err, errStorageDown)

	// The failed correction was rejected whole: no bonus, no audit entry,
	// derived money exactly as the last recalculation left it.
	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	assert.True(t, lines[0].Bonus.IsZero())
	assert.Equal(t, "6800", lines[0].Gross.String())
	assert.Equal(t, "5916", lines[0].Net.String())

	corrections, err := svc.Corrections(ctx, periodID)
	require.NoError(t, err)
	assert.Empty(t, corrections)

	// Storage back: the same correction applies cleanly.
	repo.failCorrections = false
	line, err := svc.ApplyCorrection(ctx, periodID, payroll.CorrectionRequest{
		TabNumber:     "0482",
		Amount:        d("5000"),
		Justification: "retro shift premium",
	})
	require.NoError(t, err)
	assert.Equal(t, "5000", line.Bonus.String())
}

func TestService_Recalculate_PersistFailure(t *testing.T) {
	svc, repo := newFailingService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	_, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "8"),
	})
	require.NoError(t, err)

	repo.failUpserts = true
	_, err = svc.Recalculate(ctx, periodID)
	assert.ErrorIs(t, err, errStorageDown)

	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.LineStatusDraft), lines[0].Status)
	assert.True(t, lines[0].BasePay.IsZero())
}

func TestService_ImportTimesheets_PersistFailure(t *testing.T) {
	svc, repo := newFailingService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	repo.failUpserts = true
	_, err := svc.ImportTimesheets(ctx, periodID, timesheet.Batch{
		Rows: workRows("0482", []string{"2026-03-02"}, "8"),
	})
	assert.ErrorIs(t, err, errStorageDown)

	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	assert.True(t, lines[0].Hours.IsZero())
}

func TestService_ClosePeriod_PersistFailure(t *testing.T) {
	svc, repo := newFailingService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	repo.failStatus = true
	_, err := svc.ClosePeriod(ctx, periodID)
	assert.ErrorIs(t, err, errStorageDown)

	// Still open; lines were not approved by the failed close.
	period, err := svc.GetPeriod(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PeriodStatusOpen), period.Status)
	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.LineStatusDraft), lines[0].Status)

	repo.failStatus = false
	closed, err := svc.ClosePeriod(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PeriodStatusClosed), closed.Status)
}

func TestService_ReopenPeriod(t *testing.T) {
	svc, _ := newTestService(t, testEmployee("0482", "Ivanova A.", "850"))
	ctx := context.Background()
	periodID := openTestPeriod(t, svc)

	_, err := svc.ClosePeriod(ctx, periodID)
	require.NoError(t, err)

	reopened, err := svc.ReopenPeriod(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PeriodStatusOpen), reopened.Status)

	// Lines stay approved after the reopen.
	lines, err := svc.Lines(ctx, periodID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.LineStatusApproved), lines[0].Status)
}
