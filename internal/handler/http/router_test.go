package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	lastFilter employee.EmployeeFilter
	createErr  error
	deleteErr  error
}

func (f *fakeEmployeeService) GetEmployee(_ context.Context, id string) (employee.EmployeeResponse, error) {
	if id != "emp-1" {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return employee.EmployeeResponse{ID: id, Name: "Asha"}, nil
}

func (f *fakeEmployeeService) CreateEmployee(_ context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if f.createErr != nil {
		return employee.EmployeeResponse{}, f.createErr
	}
	return employee.EmployeeResponse{ID: "emp-new", EmployeeCode: req.EmployeeCode, Email: req.Email}, nil
}

func (f *fakeEmployeeService) UpdateEmployee(_ context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{ID: req.ID, Name: *req.Name}, nil
}

func (f *fakeEmployeeService) DeleteEmployee(_ context.Context, _ string) error {
	return f.deleteErr
}

func (f *fakeEmployeeService) ListEmployees(_ context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	f.lastFilter = filter
	return pagination.New([]employee.EmployeeResponse{{ID: "emp-1"}}, filter.Page, filter.PerPage, 1), nil
}

type fakeAttendanceService struct {
	markErr error
}

func (f *fakeAttendanceService) MarkAttendance(_ context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if f.markErr != nil {
		return attendance.AttendanceResponse{}, f.markErr
	}
	return attendance.AttendanceResponse{ID: "att-1", EmployeeID: req.EmployeeID, Date: req.Date, Status: req.Status}, nil
}

func (f *fakeAttendanceService) GetAttendance(_ context.Context, _ string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceService) ListAttendance(_ context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return pagination.New[attendance.AttendanceResponse](nil, filter.Page, filter.PerPage, 0), nil
}

func (f *fakeAttendanceService) UpdateAttendance(_ context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{ID: req.ID}, nil
}

func (f *fakeAttendanceService) DeleteAttendance(_ context.Context, _ string) error {
	return nil
}

type fakeDashboardService struct{}

func (fakeDashboardService) GetSummary(_ context.Context, filter dashboard.SummaryFilter) (dashboard.SummaryResponse, error) {
	if filter.DateFrom == "explode" {
		return dashboard.SummaryResponse{}, errors.New("db down")
	}
	return dashboard.SummaryResponse{
		DateRange:           dashboard.DateRange{DateFrom: "2024-03-01", DateTo: "2024-03-01"},
		DepartmentBreakdown: []dashboard.DepartmentBreakdown{},
	}, nil
}

type testServer struct {
	employees  *fakeEmployeeService
	attendance *fakeAttendanceService
	handler    http.Handler
}

func newTestServer(cfg RouterConfig) *testServer {
	ts := &testServer{employees: &fakeEmployeeService{}, attendance: &fakeAttendanceService{}}
	ts.handler = NewRouter(cfg,
		NewEmployeeHandler(ts.employees),
		NewAttendanceHandler(ts.attendance),
		NewDashboardHandler(fakeDashboardService{}),
	)
	return ts
}

func (ts *testServer) do(method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRouter_ListEmployees(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodGet, "/api/v1/employees?department=Engineering&is_active=false", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(20), meta["per_page"])

	assert.Equal(t, "Engineering", ts.employees.lastFilter.Department)
	require.NotNil(t, ts.employees.lastFilter.IsActive)
	assert.False(t, *ts.employees.lastFilter.IsActive)
}

func TestRouter_ListEmployees_InvalidPaging(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodGet, "/api/v1/employees?per_page=500", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
	details := body["details"].(map[string]any)
	errs := details["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "per_page", errs[0].(map[string]any)["field"])
}

func TestRouter_CreateEmployee(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodPost, "/api/v1/employees", `{
		"employee_code": "e001",
		"name": "Asha Rao",
		"email": "ASHA@example.com",
		"department": "Engineering",
		"date_of_joining": "2024-01-15"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/employees/emp-new", rec.Header().Get("Location"))

	body := decodeBody(t, rec)
	assert.Equal(t, "E001", body["employee_code"])
	assert.Equal(t, "asha@example.com", body["email"])
}

func TestRouter_CreateEmployee_Errors(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodPost, "/api/v1/employees", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/employees", `{"name": "Asha"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	ts.employees.createErr = employee.ErrEmailExists
	rec = ts.do(http.MethodPost, "/api/v1/employees", `{
		"employee_code": "E002", "name": "B", "email": "b@example.com",
		"department": "Ops", "date_of_joining": "2024-01-15"
	}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "EMPLOYEE_EMAIL_EXISTS", body["error_code"])
	assert.Equal(t, "An employee with this email already exists", body["message"])
}

func TestRouter_GetUpdateDeleteEmployee(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodGet, "/api/v1/employees/emp-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/employees/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", decodeBody(t, rec)["error_code"])

	rec = ts.do(http.MethodPut, "/api/v1/employees/emp-1", `{"name": "Asha R"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha R", decodeBody(t, rec)["name"])

	rec = ts.do(http.MethodDelete, "/api/v1/employees/emp-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_MarkAttendance(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodPost, "/api/v1/attendance", `{"employee_id":"emp-1","date":"2024-03-01","status":"PRESENT"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/attendance/att-1", rec.Header().Get("Location"))

	rec = ts.do(http.MethodPost, "/api/v1/attendance", `{"employee_id":"emp-1","date":"2024-03-01","status":"LATE"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{attendance.ErrAttendanceDuplicate, http.StatusConflict, "ATTENDANCE_DUPLICATE"},
		{attendance.ErrFutureDate, http.StatusUnprocessableEntity, "FUTURE_DATE"},
		{attendance.ErrBeforeJoining, http.StatusUnprocessableEntity, "ATTENDANCE_BEFORE_JOINING"},
		{employee.ErrEmployeeNotFound, http.StatusNotFound, "EMPLOYEE_NOT_FOUND"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		ts.attendance.markErr = tt.err
		rec = ts.do(http.MethodPost, "/api/v1/attendance", `{"employee_id":"emp-1","date":"2024-03-01","status":"PRESENT"}`)
		assert.Equal(t, tt.status, rec.Code, tt.code)
		assert.Equal(t, tt.code, decodeBody(t, rec)["error_code"])
	}
}

func TestRouter_AttendanceReadsAndDelete(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodGet, "/api/v1/attendance?date=2024-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decodeBody(t, rec)["data"])

	rec = ts.do(http.MethodGet, "/api/v1/attendance?date=01-03-2024", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/attendance/att-9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/v1/attendance/att-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_DashboardSummary(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	rec := ts.do(http.MethodGet, "/api/v1/dashboard/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{}, body["department_breakdown"])

	rec = ts.do(http.MethodGet, "/api/v1/dashboard/summary?include_inactive=maybe", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(RouterConfig{})
	rec := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AuthEnabled(t *testing.T) {
	svc := jwt.NewJWTService("router-secret", time.Hour)
	ts := newTestServer(RouterConfig{JWTService: svc})

	rec := ts.do(http.MethodGet, "/api/v1/employees", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeBody(t, rec)["error_code"])

	token, _, err := svc.GenerateAccessToken("tester")
	require.NoError(t, err)

	rec = ts.do(http.MethodGet, "/api/v1/employees", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.RevokeToken(token)
	rec = ts.do(http.MethodGet, "/api/v1/employees", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code, "heartbeat stays public")
}

func TestRouter_RateLimited(t *testing.T) {
	ts := newTestServer(RouterConfig{RateLimiter: middleware.NewRateLimiter(1, time.Minute)})

	rec := ts.do(http.MethodGet, "/api/v1/employees", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/employees", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
