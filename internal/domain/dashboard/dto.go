package dashboard

import (
	"math"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

// ========== SUMMARY REQUEST ==========

// SummaryFilter selects the records aggregated by the summary. Zero values mean "not set".
type SummaryFilter struct {
	DateFrom        string `json:"date_from,omitempty"` // YYYY-MM-DD, default today
	DateTo          string `json:"date_to,omitempty"`   // YYYY-MM-DD, default date_from
	Department      string `json:"department,omitempty"`
	IncludeInactive *bool  `json:"include_inactive,omitempty"`
}

// Query encodes only the parameters that are set.
func (f SummaryFilter) Query() url.Values {
	q := url.Values{}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.Department != "" {
		q.Set("department", f.Department)
	}
	if f.IncludeInactive != nil {
		q.Set("include_inactive", strconv.FormatBool(*f.IncludeInactive))
	}
	return q
}

func ParseSummaryFilter(q url.Values) (SummaryFilter, error) {
	var errs validator.ValidationErrors
	f := SummaryFilter{
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Department: q.Get("department"),
	}

	for field, value := range map[string]string{"date_from": f.DateFrom, "date_to": f.DateTo} {
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
	if v := q.Get("include_inactive"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "include_inactive", Message: "include_inactive must be a boolean"})
		} else {
			f.IncludeInactive = &include
		}
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

// ========== SUMMARY RESPONSE ==========

type DateRange struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// StatusSummary holds record counts per attendance status
type StatusSummary struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	HalfDay int64 `json:"half_day"`
	OnLeave int64 `json:"on_leave"`
}

func (s StatusSummary) Total() int64 {
	return s.Present + s.Absent + s.HalfDay + s.OnLeave
}

// AttendanceRate counts a half day as half a presence and rounds to two decimals.
func (s StatusSummary) AttendanceRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	rate := (float64(s.Present) + float64(s.HalfDay)*0.5) / float64(total) * 100
	return math.Round(rate*100) / 100
}

type DepartmentBreakdown struct {
	Department string `json:"department"`
	StatusSummary
}

type SummaryResponse struct {
	DateRange           DateRange             `json:"date_range"`
	TotalEmployees      int64                 `json:"total_employees"`
	Summary             StatusSummary         `json:"summary"`
	AttendanceRate      float64               `json:"attendance_rate"`
	DepartmentBreakdown []DepartmentBreakdown `json:"department_breakdown"`
}
