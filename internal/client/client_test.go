package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method   string
	Path     string
	RawQuery string
	Body     map[string]any
}

// recorder answers every call with the configured status/body and keeps the
// requests it saw.
type recorder struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	body     string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		json.Unmarshal(raw, &body)
	}
	rec.mu.Lock()
	rec.requests = append(rec.requests, recorded{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery, Body: body})
	rec.mu.Unlock()

	if rec.status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rec.status)
	io.WriteString(w, rec.body)
}

func (rec *recorder) last(t *testing.T) recorded {
	t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.requests)
	return rec.requests[len(rec.requests)-1]
}

func newTestClient(t *testing.T, status int, body string) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{status: status, body: body}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return New(apiclient.New(srv.URL)), rec
}

func TestEmployees_ListOmitsAbsentParams(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":[{"id":"1","name":"Asha"}],"meta":{"page":1,"per_page":20,"total":1,"total_pages":1}}`)
	ctx := context.Background()

	page, err := c.Employees.List(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/employees", rec.last(t).Path)
	assert.Empty(t, rec.last(t).RawQuery)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Meta.Total)

	inactive := false
	_, err = c.Employees.List(ctx, employee.EmployeeFilter{Page: 2, Department: "Engineering", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "department=Engineering&is_active=false&page=2", rec.last(t).RawQuery)
}

func TestEmployees_Mutations(t *testing.T) {
	c, rec := newTestClient(t, http.StatusCreated, `{"id":"emp-1","employee_code":"E001"}`)
	ctx := context.Background()

	created, err := c.Employees.Create(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "E001", Name: "Asha", Email: "asha@example.com",
		Department: "Engineering", DateOfJoining: "2024-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", created.ID)
	last := rec.last(t)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "E001", last.Body["employee_code"])
	assert.NotContains(t, last.Body, "phone")

	name := "Asha R"
	_, err = c.Employees.Update(ctx, "emp-1", employee.UpdateEmployeeRequest{Name: &name})
	require.NoError(t, err)
	last = rec.last(t)
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/api/v1/employees/emp-1", last.Path)
	assert.Equal(t, map[string]any{"name": "Asha R"}, last.Body)

	rec.status = http.StatusNoContent
	require.NoError(t, c.Employees.Delete(ctx, "emp-1"))
	assert.Equal(t, http.MethodDelete, rec.last(t).Method)
}

func TestEmployees_ErrorIsNormalized(t *testing.T) {
	c, _ := newTestClient(t, http.StatusConflict, `{"error_code":"EMPLOYEE_EMAIL_EXISTS","message":"An employee with this email already exists"}`)

	_, err := c.Employees.Create(context.Background(), employee.CreateEmployeeRequest{})
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "EMPLOYEE_EMAIL_EXISTS", apiErr.Code)
}

func TestAttendance_ListQuery(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":[],"meta":{"page":1,"per_page":20,"total":0,"total_pages":0}}`)

	page, err := c.Attendance.List(context.Background(), attendance.AttendanceFilter{Date: "2024-03-01", Status: "PRESENT"})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, "/api/v1/attendance", rec.last(t).Path)
	assert.Equal(t, "date=2024-03-01&status=PRESENT", rec.last(t).RawQuery)
}

func TestAttendance_MarkValidatesLocally(t *testing.T) {
	c, rec := newTestClient(t, http.StatusCreated, `{}`)
	in, out := "17:00:00", "09:00:00"

	_, err := c.Attendance.Mark(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-01",
		Status:     attendance.StatusPresent,
		CheckIn:    &in,
		CheckOut:   &out,
	})
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "VALIDATION_422", apiErr.Code)
	assert.Equal(t, "check_out must be after check_in", apiErr.Message)
	assert.Empty(t, rec.requests, "no request may reach the backend")
}

func TestAttendance_MarkDuplicate(t *testing.T) {
	c, rec := newTestClient(t, http.StatusConflict, `{"error_code":"ATTENDANCE_DUPLICATE","message":"Attendance already recorded for this date"}`)

	_, err := c.Attendance.Mark(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-01",
		Status:     attendance.StatusAbsent,
	})
	assert.True(t, apiclient.IsDuplicate(err))
	assert.Len(t, rec.requests, 1)
	assert.Equal(t, "ABSENT", rec.last(t).Body["status"])
}

func TestAttendance_Delete(t *testing.T) {
	c, rec := newTestClient(t, http.StatusNoContent, "")
	require.NoError(t, c.Attendance.Delete(context.Background(), "att 1"))
	assert.Equal(t, "/api/v1/attendance/att 1", rec.last(t).Path)
}

func TestDashboard_Summary(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{
		"date_range":{"date_from":"2024-03-01","date_to":"2024-03-01"},
		"total_employees":3,
		"summary":{"present":1,"absent":1,"half_day":1,"on_leave":0},
		"attendance_rate":50,
		"department_breakdown":[{"department":"Engineering","present":1,"absent":0,"half_day":1,"on_leave":0}]
	}`)

	summary, err := c.Dashboard.Summary(context.Background(), dashboard.SummaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/dashboard/summary", rec.last(t).Path)
	assert.Empty(t, rec.last(t).RawQuery)
	assert.Equal(t, int64(3), summary.TotalEmployees)
	assert.Equal(t, 50.0, summary.AttendanceRate)
	require.Len(t, summary.DepartmentBreakdown, 1)
	assert.Equal(t, int64(1), summary.DepartmentBreakdown[0].HalfDay)

	include := true
	_, err = c.Dashboard.Summary(context.Background(), dashboard.SummaryFilter{DateFrom: "2024-03-01", IncludeInactive: &include})
	require.NoError(t, err)
	assert.Equal(t, "date_from=2024-03-01&include_inactive=true", rec.last(t).RawQuery)
}
