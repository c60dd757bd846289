package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-lite/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          time.Now,
	}
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	if req.Date > s.clock().Format(validator.DateLayout) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureDate
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if date.Before(emp.DateOfJoining) {
		return attendance.AttendanceResponse{}, attendance.ErrBeforeJoining
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		ID:         id.String(),
		EmployeeID: emp.ID,
		Date:       date,
		Status:     req.Status,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Notes:      req.Notes,
	})
	if err != nil {
		if constraint, ok := postgresql.UniqueViolation(err); ok && constraint == "uq_attendance_emp_date" {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceDuplicate
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// employee deleted between the lookup and the insert
			return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	slog.Info("Attendance marked", "attendance_id", created.ID, "employee_id", created.EmployeeID, "date", req.Date, "status", created.Status)
	return created.ToResponse(), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	if !validator.IsValidUUID(id) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}
	a, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a.ToResponse(), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		items = append(items, a.ToResponse())
	}
	return pagination.New(items, filter.Page, filter.PerPage, total), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	current, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.CheckIn != nil {
		current.CheckIn = req.CheckIn
	}
	if req.CheckOut != nil {
		current.CheckOut = req.CheckOut
	}
	if req.Notes != nil {
		current.Notes = req.Notes
	}

	// the merged pair must still be ordered even when only one side changed
	if current.CheckIn != nil && current.CheckOut != nil && *current.CheckOut <= *current.CheckIn {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{
			Field:   "check_out",
			Message: attendance.ErrCheckOutBeforeCheckIn.Error(),
		}}
	}

	if err := s.attendanceRepo.Update(ctx, current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.GetAttendance(ctx, req.ID)
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	slog.Warn("Attendance record deleted", "attendance_id", id)
	return nil
}
