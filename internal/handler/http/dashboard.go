package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/response"
)

type DashboardHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetSummary handles GET /dashboard/summary
func (h *dashboardHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := dashboard.ParseSummaryFilter(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetSummary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
