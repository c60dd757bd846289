package apiclient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

// Error codes produced by the client itself. Backend codes pass through verbatim.
const (
	CodeRequestTimeout      = "REQUEST_TIMEOUT"
	CodeNetworkError        = "NETWORK_ERROR"
	CodeAttendanceDuplicate = "ATTENDANCE_DUPLICATE"

	validationPrefix = "VALIDATION_"
	httpPrefix       = "HTTP_"
)

const (
	timeoutMessage = "Request timed out. Please try again."
	networkMessage = "Unable to connect to the server. Please check your connection."
)

// Error is the normalized failure returned by every Client call.
type Error struct {
	Status  int            `json:"status"`
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error [%d] %s: %s", e.Status, e.Code, e.Message)
}

// Kind is the error family of a normalized error.
type Kind int

const (
	KindTimeout Kind = iota
	KindNetwork
	KindValidation
	KindHTTP
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindHTTP:
		return "http"
	case KindDomain:
		return "domain"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Kind classifies the error by its code.
func (e *Error) Kind() Kind {
	switch {
	case e.Code == CodeRequestTimeout:
		return KindTimeout
	case e.Code == CodeNetworkError:
		return KindNetwork
	case strings.HasPrefix(e.Code, validationPrefix):
		return KindValidation
	case strings.HasPrefix(e.Code, httpPrefix):
		return KindHTTP
	default:
		return KindDomain
	}
}

// Class returns the status family of the error.
func (e *Error) Class() StatusClass {
	return ClassifyStatus(e.Status)
}

func timeoutError() *Error {
	return &Error{Status: 408, Code: CodeRequestTimeout, Message: timeoutMessage}
}

func networkError() *Error {
	return &Error{Status: 0, Code: CodeNetworkError, Message: networkMessage}
}

// AsError unwraps err into a normalized *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsDuplicate reports whether err is a duplicate-record rejection.
func IsDuplicate(err error) bool {
	apiErr, ok := AsError(err)
	if !ok {
		return false
	}
	return apiErr.Code == CodeAttendanceDuplicate || apiErr.Status == 409
}

// NewValidationError turns locally detected field errors into the same shape the
// client produces for a 422 validation response, so callers handle both alike.
func NewValidationError(errs validator.ValidationErrors) *Error {
	detail := make([]any, 0, len(errs))
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		detail = append(detail, map[string]any{
			"loc": []any{"body", fe.Field},
			"msg": fe.Message,
		})
		msgs = append(msgs, fe.Message)
	}
	status := 422
	msg := strings.Join(msgs, "; ")
	if msg == "" {
		msg = ClassifyStatus(status).DefaultMessage(status)
	}
	return &Error{
		Status:  status,
		Code:    validationPrefix + strconv.Itoa(status),
		Message: msg,
		Details: map[string]any{"detail": detail},
	}
}

// normalize converts a non-2xx response into an Error. body is the decoded JSON
// payload or nil when the body was empty or not JSON.
func normalize(status int, body any) *Error {
	defaultMsg := ClassifyStatus(status).DefaultMessage(status)

	obj, isObject := body.(map[string]any)

	// native envelope: {error_code, message, details?}
	if isObject {
		if _, ok := obj["message"]; ok {
			e := &Error{
				Status:  status,
				Code:    httpPrefix + strconv.Itoa(status),
				Message: defaultMsg,
			}
			if code, ok := obj["error_code"].(string); ok && code != "" {
				e.Code = code
			}
			if msg, ok := obj["message"].(string); ok && msg != "" {
				e.Message = msg
			}
			switch details := obj["details"].(type) {
			case nil:
			case map[string]any:
				e.Details = details
			default:
				e.Details = map[string]any{"details": details}
			}
			return e
		}

		// validation framework shape: {detail: [...]}
		if detail, ok := obj["detail"]; ok {
			msg := detailMessage(detail)
			if msg == "" {
				msg = defaultMsg
			}
			return &Error{
				Status:  status,
				Code:    validationPrefix + strconv.Itoa(status),
				Message: msg,
				Details: map[string]any{"detail": detail},
			}
		}
	}

	return &Error{
		Status:  status,
		Code:    httpPrefix + strconv.Itoa(status),
		Message: defaultMsg,
	}
}

func detailMessage(detail any) string {
	switch d := detail.(type) {
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			issue, _ := item.(map[string]any)
			msg, _ := issue["msg"].(string)
			msgs = append(msgs, msg)
		}
		return strings.Join(msgs, "; ")
	case string:
		return d
	case nil:
		return ""
	default:
		return fmt.Sprint(d)
	}
}
