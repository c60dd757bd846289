package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, updated Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of employees and the total number of matches.
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
}
