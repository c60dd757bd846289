package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetSummary aggregates attendance for the filter, defaulting to today
	GetSummary(ctx context.Context, filter SummaryFilter) (SummaryResponse, error)
}
