package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-lite/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EmployeeServiceImpl struct {
	tx           postgresql.Transactor
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(tx postgresql.Transactor, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
	}
}

// mapWriteError translates unique violations into domain errors.
func mapWriteError(err error) error {
	constraint, ok := postgresql.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "uq_employees_email":
		return employee.ErrEmailExists
	case "uq_employees_employee_code":
		return employee.ErrEmployeeCodeExists
	default:
		return employee.ErrEmployeeConflict
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp.ToResponse(), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	joining, _ := validator.IsValidDate(req.DateOfJoining)
	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:            id.String(),
		EmployeeCode:  req.EmployeeCode,
		Name:          req.Name,
		Email:         req.Email,
		Department:    req.Department,
		Designation:   req.Designation,
		DateOfJoining: joining,
		Phone:         req.Phone,
		IsActive:      true,
	})
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return employee.EmployeeResponse{}, mapped
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return created.ToResponse(), nil
}

// UpdateEmployee reads the current row and writes the merged result in one transaction.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}

		applyUpdate(&current, req)

		updated, err = s.employeeRepo.Update(txCtx, current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return employee.ErrEmployeeNotFound
			}
			if mapped := mapWriteError(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to update employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return updated.ToResponse(), nil
}

func applyUpdate(emp *employee.Employee, req employee.UpdateEmployeeRequest) {
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.Designation != nil {
		emp.Designation = req.Designation
	}
	if req.DateOfJoining != nil {
		if joining, ok := validator.IsValidDate(*req.DateOfJoining); ok {
			emp.DateOfJoining = joining
		}
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return employee.ErrEmployeeNotFound
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	slog.Warn("Employee deleted", "employee_id", id, "deleted_at", time.Now().UTC())
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	items := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		items = append(items, emp.ToResponse())
	}
	return pagination.New(items, filter.Page, filter.PerPage, total), nil
}
