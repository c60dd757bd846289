package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusOnLeave Status = "ON_LEAVE"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusHalfDay, StatusOnLeave}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusOnLeave:
		return true
	}
	return false
}

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	CheckIn    *string // HH:MM:SS
	CheckOut   *string // HH:MM:SS
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

func (a Attendance) ToResponse() AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		EmployeeCode: a.EmployeeCode,
		Date:         a.Date.Format("2006-01-02"),
		Status:       a.Status,
		CheckIn:      a.CheckIn,
		CheckOut:     a.CheckOut,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
