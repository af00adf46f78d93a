package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tabelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/tabelhr/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PERIODS ==========

func (r *payrollRepository) CreatePeriod(ctx context.Context, period payroll.Period) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (id, name, period_month, period_year, status, editable_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, period_month, period_year, status, editable_until, created_at, updated_at
	`

	var p payroll.Period
	err := q.QueryRow(ctx, query,
		period.ID, period.Name, period.PeriodMonth, period.PeriodYear,
		period.Status, period.EditableUntil, period.CreatedAt, period.UpdatedAt,
	).Scan(
		&p.ID, &p.Name, &p.PeriodMonth, &p.PeriodYear,
		&p.Status, &p.EditableUntil, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_periods_month_year") {
			return payroll.Period{}, payroll.ErrPeriodAlreadyExists
		}
		return payroll.Period{}, fmt.Errorf("failed to create period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, period_month, period_year, status, editable_until, created_at, updated_at
		FROM payroll_periods
		WHERE id = $1
	`

	var p payroll.Period
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.PeriodMonth, &p.PeriodYear,
		&p.Status, &p.EditableUntil, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context) ([]payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, period_month, period_year, status, editable_until, created_at, updated_at
		FROM payroll_periods
		ORDER BY period_year, period_month
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.Period
	for rows.Next() {
		var p payroll.Period
		if err := rows.Scan(
			&p.ID, &p.Name, &p.PeriodMonth, &p.PeriodYear,
			&p.Status, &p.EditableUntil, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *payrollRepository) UpdatePeriodStatus(ctx context.Context, id string, status payroll.PeriodStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_periods SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update period status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPeriodNotFound
	}
	return nil
}

// ========== LINES ==========

func (r *payrollRepository) UpsertLines(ctx context.Context, periodID string, lines []payroll.PayrollLine) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_lines (
			id, period_id, tab_number, full_name, hours, hourly_rate,
			base_pay, bonus, gross, tax, net, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (period_id, tab_number) DO UPDATE SET
			hours = EXCLUDED.hours,
			hourly_rate = EXCLUDED.hourly_rate,
			base_pay = EXCLUDED.base_pay,
			bonus = EXCLUDED.bonus,
			gross = EXCLUDED.gross,
			tax = EXCLUDED.tax,
			net = EXCLUDED.net,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	for _, line := range lines {
		if _, err := q.Exec(ctx, query,
			line.ID, periodID, line.TabNumber, line.FullName, line.Hours, line.HourlyRate,
			line.BasePay, line.Bonus, line.Gross, line.Tax, line.Net, line.Status, line.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert payroll line %s: %w", line.TabNumber, err)
		}
	}
	return nil
}

func (r *payrollRepository) ListLines(ctx context.Context, periodID string) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, tab_number, full_name, hours, hourly_rate,
			   base_pay, bonus, gross, tax, net, status, updated_at
		FROM payroll_lines
		WHERE period_id = $1
		ORDER BY tab_number
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayrollLine
	for rows.Next() {
		var l payroll.PayrollLine
		if err := rows.Scan(
			&l.ID, &l.PeriodID, &l.TabNumber, &l.FullName, &l.Hours, &l.HourlyRate,
			&l.BasePay, &l.Bonus, &l.Gross, &l.Tax, &l.Net, &l.Status, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ========== CORRECTIONS ==========

// SaveCorrection writes the audit entry and the corrected line in one
// transaction: both land or neither does.
func (r *payrollRepository) SaveCorrection(ctx context.Context, correction payroll.Correction, line payroll.PayrollLine) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.appendCorrection(ctx, correction); err != nil {
			return err
		}
		return r.UpsertLines(ctx, correction.PeriodID, []payroll.PayrollLine{line})
	})
}

func (r *payrollRepository) appendCorrection(ctx context.Context, correction payroll.Correction) error {
	q := GetQuerier(ctx, r.db)

	// Append-only: corrections are never updated or deleted.
	query := `
		INSERT INTO payroll_corrections (id, period_id, tab_number, amount, justification, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := q.Exec(ctx, query,
		correction.ID, correction.PeriodID, correction.TabNumber,
		correction.Amount, correction.Justification, correction.AppliedAt,
	); err != nil {
		return fmt.Errorf("failed to append correction: %w", err)
	}
	return nil
}

func (r *payrollRepository) ListCorrections(ctx context.Context, periodID string) ([]payroll.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_id, tab_number, amount, justification, applied_at
		FROM payroll_corrections
		WHERE period_id = $1
		ORDER BY applied_at
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	var corrections []payroll.Correction
	for rows.Next() {
		var c payroll.Correction
		if err := rows.Scan(&c.ID, &c.PeriodID, &c.TabNumber, &c.Amount, &c.Justification, &c.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}
