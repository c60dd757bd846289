package employee

import "context"

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee rejects duplicate emails and employee codes
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee applies a partial update; employee_code is immutable
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes the employee and, by cascade, their attendance
	DeleteEmployee(ctx context.Context, id string) error

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
}
