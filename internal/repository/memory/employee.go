package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabelhr/payroll-backend-go/internal/domain/employee"
)

// EmployeeRepository is a map-backed roster, used in tests and when the
// engine runs without a database.
type EmployeeRepository struct {
	mu    sync.RWMutex
	byID  map[string]employee.Employee
	byTab map[string]string
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		byID:  make(map[string]employee.Employee),
		byTab: make(map[string]string),
	}
}

func (r *EmployeeRepository) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTab[emp.TabNumber]; exists {
		return employee.Employee{}, employee.ErrTabNumberExists
	}
	r.byID[emp.ID] = emp
	r.byTab[emp.TabNumber] = emp.ID
	return emp, nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *EmployeeRepository) GetByTabNumber(_ context.Context, tabNumber string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTab[tabNumber]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.byID[id], nil
}

func (r *EmployeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []employee.Employee
	for _, emp := range r.byID {
		if emp.IsActive {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TabNumber < result[j].TabNumber })
	return result, nil
}

func (r *EmployeeRepository) UpdateHourlyRate(_ context.Context, id string, rate decimal.Decimal) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	emp.HourlyRate = rate
	emp.UpdatedAt = time.Now().UTC()
	r.byID[id] = emp
	return emp, nil
}
