package client

import (
	"context"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
)

const employeesPath = "/employees"

type EmployeeAPI struct {
	api *apiclient.Client
}

// List sends only the filter fields that are set; the backend applies its own
// paging defaults.
func (e *EmployeeAPI) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	return apiclient.Get[employee.ListEmployeeResponse](ctx, e.api, withQuery(apiPrefix+employeesPath, filter.Query()))
}

func (e *EmployeeAPI) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return apiclient.Get[employee.EmployeeResponse](ctx, e.api, resourcePath(employeesPath, id))
}

func (e *EmployeeAPI) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return apiclient.Post[employee.EmployeeResponse](ctx, e.api, apiPrefix+employeesPath, req)
}

func (e *EmployeeAPI) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return apiclient.Put[employee.EmployeeResponse](ctx, e.api, resourcePath(employeesPath, id), req)
}

func (e *EmployeeAPI) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, e.api, resourcePath(employeesPath, id))
}
