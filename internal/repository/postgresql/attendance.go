package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.date, a.status,
		to_char(a.check_in, 'HH24:MI:SS'), to_char(a.check_out, 'HH24:MI:SS'),
		a.notes, a.created_at, a.updated_at,
		e.name, e.employee_code
	FROM attendance a
	LEFT JOIN employees e ON e.id = a.employee_id`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status,
		&a.CheckIn, &a.CheckOut,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (id, employee_id, date, status, check_in, check_out, notes)
		VALUES ($1, $2, $3, $4, $5::time, $6::time, $7)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		att.ID, att.EmployeeID, att.Date, att.Status, att.CheckIn, att.CheckOut, att.Notes,
	).Scan(&id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, fmt.Errorf("attendance with id %s not found: %w", id, err)
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET status = $1, check_in = $2::time, check_out = $3::time, notes = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, att.Status, att.CheckIn, att.CheckOut, att.Notes, att.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance with id %s not found: %w", att.ID, pgx.ErrNoRows)
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attendance with id %s not found: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != "" {
		add("a.employee_id = $%d", filter.EmployeeID)
	}
	if filter.Date != "" {
		add("a.date = $%d::date", filter.Date)
	}
	if filter.DateFrom != "" {
		add("a.date >= $%d::date", filter.DateFrom)
	}
	if filter.DateTo != "" {
		add("a.date <= $%d::date", filter.DateTo)
	}
	if filter.Status != "" {
		add("a.status = $%d", filter.Status)
	}
	if filter.Department != "" {
		add("e.department = $%d", filter.Department)
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY a.date DESC, e.name ASC
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.PerPage, pagination.Offset(filter.Page, filter.PerPage))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
