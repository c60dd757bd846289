// Package client binds the HRMS REST resources to typed calls on an
// apiclient.Client. Every method returns either a decoded value or an
// *apiclient.Error.
package client

import (
	"net/url"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
)

const apiPrefix = "/api/v1"

type Client struct {
	Employees  *EmployeeAPI
	Attendance *AttendanceAPI
	Dashboard  *DashboardAPI
}

func New(api *apiclient.Client) *Client {
	return &Client{
		Employees:  &EmployeeAPI{api: api},
		Attendance: &AttendanceAPI{api: api},
		Dashboard:  &DashboardAPI{api: api},
	}
}

// withQuery appends q to path, leaving the path bare when q is empty.
func withQuery(path string, q url.Values) string {
	if encoded := q.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

func resourcePath(collection, id string) string {
	return apiPrefix + collection + "/" + url.PathEscape(id)
}
