package attendance

import (
	"net/url"
	"testing"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMarkAttendanceRequest_Validate(t *testing.T) {
	req := MarkAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-01",
		Status:     StatusPresent,
		CheckIn:    strPtr("09:00"),
		CheckOut:   strPtr("17:30:00"),
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "09:00:00", *req.CheckIn)
	assert.Equal(t, "17:30:00", *req.CheckOut)
}

func TestMarkAttendanceRequest_Validate_CheckOutMustFollowCheckIn(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"equal", "09:00:00", "09:00:00"},
		{"earlier", "18:00:00", "09:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := MarkAttendanceRequest{
				EmployeeID: "emp-1",
				Date:       "2024-03-01",
				Status:     StatusPresent,
				CheckIn:    strPtr(tc.checkIn),
				CheckOut:   strPtr(tc.checkOut),
			}
			err := req.Validate()

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, "check_out must be after check_in", errs.ToMap()["check_out"])
		})
	}
}

func TestMarkAttendanceRequest_Validate_OnlyOneTime(t *testing.T) {
	req := MarkAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-01",
		Status:     StatusHalfDay,
		CheckOut:   strPtr("12:00:00"),
	}
	assert.NoError(t, req.Validate())
}

func TestMarkAttendanceRequest_Validate_Fields(t *testing.T) {
	req := MarkAttendanceRequest{
		Date:    "2024-13-01",
		Status:  Status("LATE"),
		CheckIn: strPtr("nine"),
	}
	err := req.Validate()

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "check_in")
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("present").Valid())
	assert.False(t, Status("").Valid())
}

func TestAttendanceFilter_Query(t *testing.T) {
	assert.Equal(t, "", AttendanceFilter{}.Query().Encode())

	q := AttendanceFilter{Page: 2, DateFrom: "2024-01-01", Status: "ABSENT"}.Query()
	assert.Equal(t, "date_from=2024-01-01&page=2&status=ABSENT", q.Encode())
}

func TestParseAttendanceFilter(t *testing.T) {
	f, err := ParseAttendanceFilter(url.Values{"date": {"2024-03-01"}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PerPage)
	assert.Equal(t, "2024-03-01", f.Date)

	_, err = ParseAttendanceFilter(url.Values{"date_from": {"yesterday"}, "per_page": {"0"}})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "date_from")
	assert.Contains(t, errs.ToMap(), "per_page")
}

func TestParseAttendanceFilter_EmployeeID(t *testing.T) {
	f, err := ParseAttendanceFilter(url.Values{"employee_id": {"0190f5a2-7c3e-7b4c-9a1d-2f3e4d5c6b7a"}})
	require.NoError(t, err)
	assert.Equal(t, "0190f5a2-7c3e-7b4c-9a1d-2f3e4d5c6b7a", f.EmployeeID)

	_, err = ParseAttendanceFilter(url.Values{"employee_id": {"abc"}})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "employee_id must be a valid UUID", errs.ToMap()["employee_id"])
}
