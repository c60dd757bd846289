package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

const statusCounts = `
	COUNT(*) FILTER (WHERE a.status = 'PRESENT'),
	COUNT(*) FILTER (WHERE a.status = 'ABSENT'),
	COUNT(*) FILTER (WHERE a.status = 'HALF_DAY'),
	COUNT(*) FILTER (WHERE a.status = 'ON_LEAVE')`

// scopeArgs returns the shared WHERE clause for attendance joined with employees.
// $1/$2 are the date bounds, $3 the optional department, $4 include_inactive.
func scopeArgs(scope dashboard.Scope) (string, []interface{}) {
	where := `a.date BETWEEN $1 AND $2
		AND ($3::text IS NULL OR e.department = $3)
		AND ($4 OR e.is_active)`
	return where, []interface{}{scope.DateFrom, scope.DateTo, scope.Department, scope.IncludeInactive}
}

// CountEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountEmployees(ctx context.Context, scope dashboard.Scope) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM employees e
		WHERE ($1::text IS NULL OR e.department = $1)
			AND ($2 OR e.is_active)
	`
	var count int64
	if err := q.QueryRow(ctx, query, scope.Department, scope.IncludeInactive).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// GetStatusSummary implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetStatusSummary(ctx context.Context, scope dashboard.Scope) (dashboard.StatusSummary, error) {
	q := GetQuerier(ctx, r.db)

	where, args := scopeArgs(scope)
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
	`, statusCounts, where)

	var s dashboard.StatusSummary
	if err := q.QueryRow(ctx, query, args...).Scan(&s.Present, &s.Absent, &s.HalfDay, &s.OnLeave); err != nil {
		return dashboard.StatusSummary{}, fmt.Errorf("failed to get status summary: %w", err)
	}
	return s, nil
}

// GetDepartmentBreakdown implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) GetDepartmentBreakdown(ctx context.Context, scope dashboard.Scope) ([]dashboard.DepartmentBreakdown, error) {
	q := GetQuerier(ctx, r.db)

	where, args := scopeArgs(scope)
	query := fmt.Sprintf(`
		SELECT e.department, %s
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		GROUP BY e.department
		ORDER BY e.department ASC
	`, statusCounts, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get department breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []dashboard.DepartmentBreakdown{}
	for rows.Next() {
		var d dashboard.DepartmentBreakdown
		if err := rows.Scan(&d.Department, &d.Present, &d.Absent, &d.HalfDay, &d.OnLeave); err != nil {
			return nil, fmt.Errorf("failed to scan department breakdown: %w", err)
		}
		breakdown = append(breakdown, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breakdown, nil
}
