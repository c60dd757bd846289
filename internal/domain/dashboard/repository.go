package dashboard

import (
	"context"
	"time"
)

// Scope is the resolved filter every aggregate query runs against.
type Scope struct {
	DateFrom        time.Time
	DateTo          time.Time
	Department      *string
	IncludeInactive bool
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// CountEmployees counts employees in scope, ignoring the date range
	CountEmployees(ctx context.Context, scope Scope) (int64, error)

	// GetStatusSummary counts attendance per status in a single conditional aggregate
	GetStatusSummary(ctx context.Context, scope Scope) (StatusSummary, error)

	// GetDepartmentBreakdown groups the status counts by department
	GetDepartmentBreakdown(ctx context.Context, scope Scope) ([]DepartmentBreakdown, error)
}
