package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound    = errors.New("attendance record not found")
	ErrAttendanceDuplicate   = errors.New("attendance already recorded for this date")
	ErrFutureDate            = errors.New("attendance date cannot be in the future")
	ErrBeforeJoining         = errors.New("attendance date cannot be before employee's joining date")
	ErrCheckOutBeforeCheckIn = errors.New("check_out must be after check_in")
)
