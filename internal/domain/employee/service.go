package employee

import "context"

// EmployeeService is the HR-side collaborator. Rate changes only travel
// through UpdateRate; payroll flows read rates, never write them.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	UpdateRate(ctx context.Context, id string, req UpdateRateRequest) (EmployeeResponse, error)
}
