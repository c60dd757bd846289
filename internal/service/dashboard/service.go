package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboardRepo dashboard.DashboardRepository
	clock         func() time.Time
}

func NewDashboardService(dashboardRepo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		dashboardRepo: dashboardRepo,
		clock:         time.Now,
	}
}

// resolveScope fills the defaults: date_from is today, date_to is date_from.
func (s *DashboardServiceImpl) resolveScope(filter dashboard.SummaryFilter) (dashboard.Scope, error) {
	today := s.clock().Format(validator.DateLayout)

	fromStr := filter.DateFrom
	if fromStr == "" {
		fromStr = today
	}
	toStr := filter.DateTo
	if toStr == "" {
		toStr = fromStr
	}

	from, ok := validator.IsValidDate(fromStr)
	if !ok {
		return dashboard.Scope{}, validator.ValidationErrors{{Field: "date_from", Message: "date_from must be in YYYY-MM-DD format"}}
	}
	to, ok := validator.IsValidDate(toStr)
	if !ok {
		return dashboard.Scope{}, validator.ValidationErrors{{Field: "date_to", Message: "date_to must be in YYYY-MM-DD format"}}
	}
	if to.Before(from) {
		return dashboard.Scope{}, validator.ValidationErrors{{Field: "date_to", Message: "date_to must not be before date_from"}}
	}

	scope := dashboard.Scope{DateFrom: from, DateTo: to}
	if filter.Department != "" {
		department := filter.Department
		scope.Department = &department
	}
	if filter.IncludeInactive != nil {
		scope.IncludeInactive = *filter.IncludeInactive
	}
	return scope, nil
}

// GetSummary implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetSummary(ctx context.Context, filter dashboard.SummaryFilter) (dashboard.SummaryResponse, error) {
	scope, err := s.resolveScope(filter)
	if err != nil {
		return dashboard.SummaryResponse{}, err
	}

	var (
		totalEmployees int64
		summary        dashboard.StatusSummary
		breakdown      []dashboard.DepartmentBreakdown
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.dashboardRepo.CountEmployees(gctx, scope)
		if err != nil {
			return fmt.Errorf("count employees: %w", err)
		}
		totalEmployees = count
		return nil
	})
	g.Go(func() error {
		result, err := s.dashboardRepo.GetStatusSummary(gctx, scope)
		if err != nil {
			return fmt.Errorf("status summary: %w", err)
		}
		summary = result
		return nil
	})
	g.Go(func() error {
		result, err := s.dashboardRepo.GetDepartmentBreakdown(gctx, scope)
		if err != nil {
			return fmt.Errorf("department breakdown: %w", err)
		}
		breakdown = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboard.SummaryResponse{}, fmt.Errorf("failed to build dashboard summary: %w", err)
	}

	if breakdown == nil {
		breakdown = []dashboard.DepartmentBreakdown{}
	}

	return dashboard.SummaryResponse{
		DateRange: dashboard.DateRange{
			DateFrom: scope.DateFrom.Format(validator.DateLayout),
			DateTo:   scope.DateTo.Format(validator.DateLayout),
		},
		TotalEmployees:      totalEmployees,
		Summary:             summary,
		AttendanceRate:      summary.AttendanceRate(),
		DepartmentBreakdown: breakdown,
	}, nil
}
