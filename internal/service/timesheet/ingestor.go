package timesheet

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tabelhr/payroll-backend-go/internal/domain/timesheet"
	"github.com/tabelhr/payroll-backend-go/internal/pkg/validator"
)

// Ingestor validates uploaded timesheet batches. It is stateless and
// side-effect-free: all findings are returned, never logged, and the same
// batch always produces the same report.
type Ingestor struct {
	dailyHourCap decimal.Decimal
}

func NewIngestor(dailyHourCap decimal.Decimal) *Ingestor {
	return &Ingestor{dailyHourCap: dailyHourCap}
}

// Validate runs the structural pass, the per-row business rules and the
// aggregate decision over one batch. A batch with any Error finding is
// rejected whole: the first return is nil and the report carries every
// finding, sorted by (row, column). A batch with only warnings is accepted
// and the warnings ride along for display.
func (in *Ingestor) Validate(batch timesheet.Batch) (*timesheet.ValidatedBatch, timesheet.Report) {
	var report timesheet.Report

	// Structural pass. Malformed rows are dropped here so one bad cell does
	// not cascade into spurious business-rule findings.
	parsed := make([]timesheet.Row, 0, len(batch.Rows))
	for i, raw := range batch.Rows {
		rowNum := raw.RowNumber
		if rowNum <= 0 {
			// Header occupies row 1 in the upload template.
			rowNum = i + 2
		}

		structural := false
		if validator.IsEmpty(raw.TabNumber) {
			report.Findings = append(report.Findings, timesheet.Finding{
				Severity: timesheet.SeverityError,
				Code:     timesheet.CodeMissingTabNumber,
				Row:      rowNum,
				Column:   timesheet.ColumnTabNumber,
				Message:  "tab number is empty",
			})
			structural = true
		}

		date, dateOK := validator.IsValidDate(raw.Date)
		if !dateOK {
			report.Findings = append(report.Findings, timesheet.Finding{
				Severity: timesheet.SeverityError,
				Code:     timesheet.CodeBadDate,
				Row:      rowNum,
				Column:   timesheet.ColumnDate,
				Message:  fmt.Sprintf("date %q is not a valid YYYY-MM-DD date", raw.Date),
			})
			structural = true
		}

		hours, err := decimal.NewFromString(raw.Hours)
		if err != nil || hours.IsNegative() {
			report.Findings = append(report.Findings, timesheet.Finding{
				Severity: timesheet.SeverityError,
				Code:     timesheet.CodeBadHours,
				Row:      rowNum,
				Column:   timesheet.ColumnHours,
				Message:  fmt.Sprintf("hours %q is not a non-negative number", raw.Hours),
			})
			structural = true
		}

		if structural {
			continue
		}

		parsed = append(parsed, timesheet.Row{
			RowNumber: rowNum,
			TabNumber: raw.TabNumber,
			Date:      date,
			Hours:     hours,
			DayType:   raw.DayType,
		})
		if raw.DayType == timesheet.DayTypeRestDay && !raw.Authorized {
			report.Findings = append(report.Findings, timesheet.Finding{
				Severity: timesheet.SeverityWarning,
				Code:     timesheet.CodeUnauthorizedRest,
				Row:      rowNum,
				Column:   timesheet.ColumnDayType,
				Message:  fmt.Sprintf("employee %s: rest-day work without authorization", raw.TabNumber),
			})
		}
		if !validator.IsValidTabNumber(raw.TabNumber) {
			report.Findings = append(report.Findings, timesheet.Finding{
				Severity: timesheet.SeverityError,
				Code:     timesheet.CodeBadTabNumber,
				Row:      rowNum,
				Column:   timesheet.ColumnTabNumber,
				Message:  fmt.Sprintf("employee %s: tab number does not match the 4-digit format", raw.TabNumber),
			})
		}
	}

	report.Findings = append(report.Findings, in.checkDailyCap(parsed)...)
	report.Sort()

	if report.HasErrors() {
		return nil, report
	}

	validated := &timesheet.ValidatedBatch{
		Rows:      parsed,
		Warnings:  report.Findings,
		TotalRows: len(parsed),
	}
	for _, row := range parsed {
		validated.TotalHours = validated.TotalHours.Add(row.Hours)
	}
	return validated, report
}

// checkDailyCap aggregates hours per employee per day before checking the
// cap, so an employee split across several rows of the same day is still
// caught. The finding references the last contributing row.
func (in *Ingestor) checkDailyCap(rows []timesheet.Row) []timesheet.Finding {
	type employeeDay struct {
		tab  string
		date time.Time
	}
	totals := make(map[employeeDay]decimal.Decimal)
	lastRow := make(map[employeeDay]int)
	var order []employeeDay

	for _, row := range rows {
		key := employeeDay{tab: row.TabNumber, date: row.Date}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] = totals[key].Add(row.Hours)
		if row.RowNumber > lastRow[key] {
			lastRow[key] = row.RowNumber
		}
	}

	var findings []timesheet.Finding
	for _, key := range order {
		if totals[key].GreaterThan(in.dailyHourCap) {
			findings = append(findings, timesheet.Finding{
				Severity: timesheet.SeverityError,
				Code:     timesheet.CodeDailyCapExceeded,
				Row:      lastRow[key],
				Column:   timesheet.ColumnHours,
				Message: fmt.Sprintf("employee %s: daily limit of %sh exceeded on %s (got %s)",
					key.tab, in.dailyHourCap.String(), key.date.Format("2006-01-02"), totals[key].String()),
			})
		}
	}
	return findings
}

// Result pairs one batch's validation outcome for ValidateAll.
type Result struct {
	Batch  *timesheet.ValidatedBatch
	Report timesheet.Report
}

// ValidateAll validates independent batches concurrently. Row-level checks
// have no cross-batch dependency, so each batch runs on its own goroutine.
func (in *Ingestor) ValidateAll(ctx context.Context, batches []timesheet.Batch) ([]Result, error) {
	results := make([]Result, len(batches))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range batches {
		i := i
		g.Go(func() error {
			validated, report := in.Validate(batches[i])
			results[i] = Result{Batch: validated, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
