package apiclient

import "fmt"

// StatusClass groups HTTP statuses that share a default user-facing message.
type StatusClass int

const (
	ClassBadRequest StatusClass = iota
	ClassNotFound
	ClassConflict
	ClassUnprocessable
	ClassTooManyRequests
	ClassServer
	ClassOther
)

// ClassifyStatus maps an HTTP status onto its class.
func ClassifyStatus(status int) StatusClass {
	switch {
	case status == 400:
		return ClassBadRequest
	case status == 404:
		return ClassNotFound
	case status == 409:
		return ClassConflict
	case status == 422:
		return ClassUnprocessable
	case status == 429:
		return ClassTooManyRequests
	case status >= 500:
		return ClassServer
	default:
		return ClassOther
	}
}

// DefaultMessage is shown when the backend supplies no message of its own.
func (c StatusClass) DefaultMessage(status int) string {
	switch c {
	case ClassBadRequest:
		return "Bad request. Please check your input."
	case ClassNotFound:
		return "Resource not found."
	case ClassConflict:
		return "A conflict occurred. The resource may already exist."
	case ClassUnprocessable:
		return "Validation failed. Please check your input."
	case ClassTooManyRequests:
		return "Too many requests. Please wait a moment."
	case ClassServer:
		return "An unexpected server error occurred. Please try again later."
	case ClassOther:
		return fmt.Sprintf("Request failed (%d).", status)
	}
	return fmt.Sprintf("Request failed (%d).", status)
}

// Retryable reports whether a read failing with this class may succeed on retry.
// Validation, conflict and not-found rejections are deterministic.
func (c StatusClass) Retryable() bool {
	switch c {
	case ClassNotFound, ClassConflict, ClassUnprocessable:
		return false
	case ClassBadRequest, ClassTooManyRequests, ClassServer, ClassOther:
		return true
	}
	return true
}
