package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByTabNumber(ctx context.Context, tabNumber string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	UpdateHourlyRate(ctx context.Context, id string, rate decimal.Decimal) (Employee, error)
}
