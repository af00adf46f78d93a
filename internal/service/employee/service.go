package employee

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tabelhr/payroll-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	now := time.Now().UTC()
	emp := employee.Employee{
		ID:         uuid.NewString(),
		TabNumber:  req.TabNumber,
		FullName:   req.FullName,
		Department: req.Department,
		HourlyRate: req.HourlyRate,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(created), nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(emp), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		result = append(result, toResponse(emp))
	}
	return result, nil
}

// UpdateRate is the only sanctioned path for changing an hourly rate.
// Already-seeded payroll lines keep the rate they were opened with until
// the next period.
func (s *EmployeeServiceImpl) UpdateRate(ctx context.Context, id string, req employee.UpdateRateRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.UpdateHourlyRate(ctx, id, req.HourlyRate)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toResponse(updated), nil
}

func toResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:         emp.ID,
		TabNumber:  emp.TabNumber,
		FullName:   emp.FullName,
		Department: emp.Department,
		HourlyRate: emp.HourlyRate,
		IsActive:   emp.IsActive,
	}
}
