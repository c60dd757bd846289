package client

import (
	"context"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
)

type DashboardAPI struct {
	api *apiclient.Client
}

func (d *DashboardAPI) Summary(ctx context.Context, filter dashboard.SummaryFilter) (dashboard.SummaryResponse, error) {
	return apiclient.Get[dashboard.SummaryResponse](ctx, d.api, withQuery(apiPrefix+"/dashboard/summary", filter.Query()))
}
