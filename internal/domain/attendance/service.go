package attendance

import "context"

type AttendanceService interface {
	// MarkAttendance creates a record; duplicates are rejected, never upserted
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error
}
