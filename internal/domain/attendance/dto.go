package attendance

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	Status     Status  `json:"status" validate:"required,oneof=PRESENT ABSENT HALF_DAY ON_LEAVE"`
	CheckIn    *string `json:"check_in,omitempty"`
	CheckOut   *string `json:"check_out,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// Validate checks the request and rewrites check-in/out times as HH:MM:SS.
func (r *MarkAttendanceRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	errs = append(errs, validateTimes(&r.CheckIn, &r.CheckOut)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateAttendanceRequest changes status, times or notes. employee_id and date are immutable.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	Status   *Status `json:"status,omitempty" validate:"omitempty,oneof=PRESENT ABSENT HALF_DAY ON_LEAVE"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	errs = append(errs, validateTimes(&r.CheckIn, &r.CheckOut)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateTimes normalizes both times and, when both are present, requires
// check_out to be strictly later than check_in.
func validateTimes(checkIn, checkOut **string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	in, inOK := normalizeTime(checkIn)
	if *checkIn != nil && !inOK {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in",
			Message: "check_in must be in HH:MM:SS format",
		})
	}
	out, outOK := normalizeTime(checkOut)
	if *checkOut != nil && !outOK {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out",
			Message: "check_out must be in HH:MM:SS format",
		})
	}

	if inOK && outOK && out <= in {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out",
			Message: ErrCheckOutBeforeCheckIn.Error(),
		})
	}
	return errs
}

func normalizeTime(value **string) (time.Duration, bool) {
	if *value == nil {
		return 0, false
	}
	d, ok := validator.IsValidTime(**value)
	if !ok {
		return 0, false
	}
	formatted := FormatClock(d)
	*value = &formatted
	return d, true
}

// FormatClock renders a time of day as HH:MM:SS.
func FormatClock(d time.Duration) string {
	return time.Time{}.Add(d).Format(validator.TimeLayout)
}

type AttendanceResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName *string   `json:"employee_name"`
	EmployeeCode *string   `json:"employee_code"`
	Date         string    `json:"date"`
	Status       Status    `json:"status"`
	CheckIn      *string   `json:"check_in"`
	CheckOut     *string   `json:"check_out"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListAttendanceResponse = pagination.Page[AttendanceResponse]

// AttendanceFilter holds list parameters. Zero values mean "not set".
type AttendanceFilter struct {
	Page       int    `json:"page,omitempty"`
	PerPage    int    `json:"per_page,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date,omitempty"`      // YYYY-MM-DD
	DateFrom   string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo     string `json:"date_to,omitempty"`   // YYYY-MM-DD
	Status     string `json:"status,omitempty"`
	Department string `json:"department,omitempty"`
}

// Query encodes only the parameters that are set.
func (f AttendanceFilter) Query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("employee_id", f.EmployeeID)
	set("date", f.Date)
	set("date_from", f.DateFrom)
	set("date_to", f.DateTo)
	set("status", f.Status)
	set("department", f.Department)
	return q
}

// ParseAttendanceFilter reads list parameters and applies server defaults.
func ParseAttendanceFilter(q url.Values) (AttendanceFilter, error) {
	var errs validator.ValidationErrors
	f := AttendanceFilter{
		Page:       pagination.DefaultPage,
		PerPage:    pagination.DefaultPerPage,
		EmployeeID: q.Get("employee_id"),
		Date:       q.Get("date"),
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Status:     q.Get("status"),
		Department: q.Get("department"),
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be an integer"})
		}
		f.Page = page
	}
	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "per_page", Message: "per_page must be an integer"})
		}
		f.PerPage = perPage
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, f.Validate()
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be greater than or equal to 1",
		})
	}
	if f.PerPage < 1 || f.PerPage > pagination.MaxPerPage {
		errs = append(errs, validator.ValidationError{
			Field:   "per_page",
			Message: "per_page must be between 1 and " + validator.Itoa(pagination.MaxPerPage),
		})
	}
	if f.EmployeeID != "" && !validator.IsValidUUID(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	for field, value := range map[string]string{"date": f.Date, "date_from": f.DateFrom, "date_to": f.DateTo} {
		if value == "" {
			continue
		}
		if _, ok := validator.IsValidDate(value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
