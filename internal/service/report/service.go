package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
)

// Service renders period-level exports: the bank payment register as CSV
// and per-employee payslips as PDF. It reads through the payroll facade so
// exports always reflect the current ledger state.
type Service struct {
	payrollService payroll.PayrollService
}

func NewReportService(payrollService payroll.PayrollService) *Service {
	return &Service{payrollService: payrollService}
}

// WriteBankRegister streams the bank payment register for a period as CSV:
// one row per employee with the net amount due.
func (s *Service) WriteBankRegister(ctx context.Context, periodID string, w io.Writer) error {
	period, err := s.payrollService.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	lines, err := s.payrollService.Lines(ctx, periodID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tab_number", "full_name", "period", "net"}); err != nil {
		return fmt.Errorf("failed to write register header: %w", err)
	}
	for _, line := range lines {
		record := []string{line.TabNumber, line.FullName, period.Name, line.Net.StringFixed(2)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write register row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePayslips renders one payslip page per payroll line plus a totals
// page, and streams the PDF to w.
func (s *Service) WritePayslips(ctx context.Context, periodID string, w io.Writer) error {
	period, err := s.payrollService.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	lines, err := s.payrollService.Lines(ctx, periodID)
	if err != nil {
		return err
	}
	totals, err := s.payrollService.Totals(ctx, periodID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	for _, line := range lines {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(40, 10, "Payslip")
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (tab %s)", line.FullName, line.TabNumber))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Name))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Hours worked: %s at %s/h", line.Hours.String(), line.HourlyRate.StringFixed(2)))
		pdf.Ln(10)
		pdf.Cell(0, 8, fmt.Sprintf("Base pay: %s", line.BasePay.StringFixed(2)))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Bonus: %s", line.Bonus.StringFixed(2)))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Gross: %s", line.Gross.StringFixed(2)))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Income tax: %s", line.Tax.StringFixed(2)))
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Net: %s", line.Net.StringFixed(2)))
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Period summary: %s", period.Name))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Lines: %d", totals.Lines))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total gross: %s", totals.Gross.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total tax: %s", totals.Tax.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total net: %s", totals.Net.StringFixed(2)))

	return pdf.Output(w)
}
