package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record; a second record for the same employee and date
	// violates uq_attendance_emp_date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance joined with the employee name and code
	GetByID(ctx context.Context, id string) (Attendance, error)

	Update(ctx context.Context, attendance Attendance) error

	Delete(ctx context.Context, id string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
