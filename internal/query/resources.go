package query

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
)

// Staleness windows per resource.
const (
	EmployeesStaleTime  = 5 * time.Minute
	AttendanceStaleTime = time.Minute
	DashboardStaleTime  = 30 * time.Second
)

var (
	employeesPrefix  = []string{"employees"}
	attendancePrefix = []string{"attendance"}
	dashboardPrefix  = []string{"dashboard"}
)

func EmployeesKey(filter employee.EmployeeFilter) Key {
	return KeyOf(employeesPrefix...).With(filter)
}

func AttendanceKey(filter attendance.AttendanceFilter) Key {
	return KeyOf(attendancePrefix...).With(filter)
}

func DashboardSummaryKey(filter dashboard.SummaryFilter) Key {
	return KeyOf("dashboard", "summary").With(filter)
}

// DropdownFilter selects the employees offered in pickers: active ones, one
// maximal page.
func DropdownFilter() employee.EmployeeFilter {
	active := true
	return employee.EmployeeFilter{PerPage: pagination.MaxPerPage, IsActive: &active}
}

// SelectOption is one entry of an employee picker.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Resources binds the API resources to a query client.
type Resources struct {
	Employees  *Employees
	Attendance *Attendance
	Dashboard  *Dashboard
}

func NewResources(c *Client, api *client.Client) *Resources {
	return &Resources{
		Employees:  &Employees{c: c, api: api.Employees},
		Attendance: &Attendance{c: c, api: api.Attendance},
		Dashboard:  &Dashboard{c: c, api: api.Dashboard},
	}
}

type Employees struct {
	c   *Client
	api *client.EmployeeAPI
}

func (e *Employees) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	return Fetch(ctx, e.c, Query[employee.ListEmployeeResponse]{
		Key:       EmployeesKey(filter),
		StaleTime: EmployeesStaleTime,
		Fn: func(ctx context.Context) (employee.ListEmployeeResponse, error) {
			return e.api.List(ctx, filter)
		},
	})
}

func (e *Employees) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return Fetch(ctx, e.c, Query[employee.EmployeeResponse]{
		Key:       KeyOf("employees", id),
		StaleTime: EmployeesStaleTime,
		Fn: func(ctx context.Context) (employee.EmployeeResponse, error) {
			return e.api.Get(ctx, id)
		},
	})
}

// Dropdown reads the same entry as List(DropdownFilter()) and projects it.
func (e *Employees) Dropdown(ctx context.Context) ([]SelectOption, error) {
	page, err := e.List(ctx, DropdownFilter())
	if err != nil {
		return nil, err
	}
	options := make([]SelectOption, 0, len(page.Data))
	for _, emp := range page.Data {
		options = append(options, SelectOption{
			Value: emp.ID,
			Label: emp.Name + " (" + emp.EmployeeCode + ")",
		})
	}
	return options, nil
}

func (e *Employees) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return Mutate(ctx, e.c, Mutation[employee.CreateEmployeeRequest, employee.EmployeeResponse]{
		Fn:              e.api.Create,
		Invalidates:     [][]string{employeesPrefix},
		SuccessMessage:  "Employee created successfully.",
		FallbackMessage: "Failed to create employee.",
	}, req)
}

type employeeUpdate struct {
	id  string
	req employee.UpdateEmployeeRequest
}

func (e *Employees) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return Mutate(ctx, e.c, Mutation[employeeUpdate, employee.EmployeeResponse]{
		Fn: func(ctx context.Context, in employeeUpdate) (employee.EmployeeResponse, error) {
			return e.api.Update(ctx, in.id, in.req)
		},
		Invalidates:     [][]string{employeesPrefix},
		SuccessMessage:  "Employee updated successfully.",
		FallbackMessage: "Failed to update employee.",
	}, employeeUpdate{id: id, req: req})
}

func (e *Employees) Delete(ctx context.Context, id string) error {
	_, err := Mutate(ctx, e.c, Mutation[string, struct{}]{
		Fn: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, e.api.Delete(ctx, id)
		},
		Invalidates:     [][]string{employeesPrefix},
		SuccessMessage:  "Employee deleted successfully.",
		FallbackMessage: "Failed to delete employee.",
	}, id)
	return err
}

type Attendance struct {
	c   *Client
	api *client.AttendanceAPI
}

func (a *Attendance) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return Fetch(ctx, a.c, Query[attendance.ListAttendanceResponse]{
		Key:       AttendanceKey(filter),
		StaleTime: AttendanceStaleTime,
		Fn: func(ctx context.Context) (attendance.ListAttendanceResponse, error) {
			return a.api.List(ctx, filter)
		},
	})
}

const duplicateAttendanceMessage = "Attendance already marked for this date."

func markFailureMessage(err error) string {
	if !apiclient.IsDuplicate(err) {
		return ""
	}
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return duplicateAttendanceMessage
}

// Mark records attendance. A duplicate date is reported, never retried.
func (a *Attendance) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	return Mutate(ctx, a.c, Mutation[attendance.MarkAttendanceRequest, attendance.AttendanceResponse]{
		Fn:              a.api.Mark,
		Invalidates:     [][]string{attendancePrefix, dashboardPrefix},
		SuccessMessage:  "Attendance recorded successfully.",
		FallbackMessage: "Failed to mark attendance.",
		ErrorMessage:    markFailureMessage,
	}, req)
}

func (a *Attendance) Delete(ctx context.Context, id string) error {
	_, err := Mutate(ctx, a.c, Mutation[string, struct{}]{
		Fn: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, a.api.Delete(ctx, id)
		},
		Invalidates:     [][]string{attendancePrefix, dashboardPrefix},
		SuccessMessage:  "Attendance record deleted.",
		FallbackMessage: "Failed to delete attendance.",
	}, id)
	return err
}

type Dashboard struct {
	c   *Client
	api *client.DashboardAPI
}

func (d *Dashboard) Summary(ctx context.Context, filter dashboard.SummaryFilter) (dashboard.SummaryResponse, error) {
	return Fetch(ctx, d.c, Query[dashboard.SummaryResponse]{
		Key:       DashboardSummaryKey(filter),
		StaleTime: DashboardStaleTime,
		Fn: func(ctx context.Context) (dashboard.SummaryResponse, error) {
			return d.api.Summary(ctx, filter)
		},
	})
}
