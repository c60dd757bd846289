package client

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

const attendancePath = "/attendance"

// AttendanceAPI has no update call: a record is corrected by deleting it and
// marking it again.
type AttendanceAPI struct {
	api *apiclient.Client
}

func (a *AttendanceAPI) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return apiclient.Get[attendance.ListAttendanceResponse](ctx, a.api, withQuery(apiPrefix+attendancePath, filter.Query()))
}

// Mark validates req locally and only calls the backend when it passes.
func (a *AttendanceAPI) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return attendance.AttendanceResponse{}, apiclient.NewValidationError(verrs)
		}
		return attendance.AttendanceResponse{}, err
	}
	return apiclient.Post[attendance.AttendanceResponse](ctx, a.api, apiPrefix+attendancePath, req)
}

func (a *AttendanceAPI) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, a.api, resourcePath(attendancePath, id))
}
