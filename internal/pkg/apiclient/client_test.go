package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func callError(t *testing.T, status int, body string) *Error {
	t.Helper()
	srv := newServer(t, status, body)
	_, err := Get[map[string]any](context.Background(), New(srv.URL), "/api/v1/thing")
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok, "error must be *Error, got %T", err)
	return apiErr
}

func TestClient_Success(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"id":"1","name":"Asha"}`)

	type person struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	got, err := Get[person](context.Background(), New(srv.URL), "/api/v1/employees/1")
	require.NoError(t, err)
	assert.Equal(t, person{ID: "1", Name: "Asha"}, got)
}

func TestClient_SuccessWithUnparseableBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, `<html>oops</html>`)

	got, err := Get[map[string]any](context.Background(), New(srv.URL), "/x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_NoContent(t *testing.T) {
	var method atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method.Store(r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := Delete(context.Background(), New(srv.URL), "/api/v1/employees/1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method.Load())
}

func TestClient_NativeEnvelope(t *testing.T) {
	apiErr := callError(t, http.StatusConflict,
		`{"error_code":"ATTENDANCE_DUPLICATE","message":"Attendance already recorded for this date","details":{"date":"2024-03-01"}}`)

	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "ATTENDANCE_DUPLICATE", apiErr.Code)
	assert.Equal(t, "Attendance already recorded for this date", apiErr.Message)
	assert.Equal(t, map[string]any{"date": "2024-03-01"}, apiErr.Details)
	assert.Equal(t, KindDomain, apiErr.Kind())
	assert.True(t, IsDuplicate(apiErr))
}

func TestClient_NativeEnvelopeWithoutDetails(t *testing.T) {
	apiErr := callError(t, http.StatusNotFound, `{"error_code":"EMPLOYEE_NOT_FOUND","message":"Employee not found"}`)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Employee not found", apiErr.Message)
	assert.Nil(t, apiErr.Details)

	apiErr = callError(t, http.StatusInternalServerError, `{"error_code":"INTERNAL_ERROR","message":"An unexpected error occurred","details":null}`)
	assert.Nil(t, apiErr.Details)
}

func TestClient_NativeEnvelopeNonObjectDetails(t *testing.T) {
	apiErr := callError(t, http.StatusUnprocessableEntity,
		`{"error_code":"VALIDATION_ERROR","message":"Invalid input","details":[{"field":"email","message":"Invalid email format"}]}`)
	assert.Equal(t, map[string]any{
		"details": []any{map[string]any{"field": "email", "message": "Invalid email format"}},
	}, apiErr.Details)

	apiErr = callError(t, http.StatusBadRequest, `{"error_code":"BAD_REQUEST","message":"Bad","details":"malformed body"}`)
	assert.Equal(t, map[string]any{"details": "malformed body"}, apiErr.Details)
}

func TestClient_NativeEnvelopeFallbacks(t *testing.T) {
	apiErr := callError(t, http.StatusBadRequest, `{"message":null}`)
	assert.Equal(t, "HTTP_400", apiErr.Code)
	assert.Equal(t, "Bad request. Please check your input.", apiErr.Message)
	assert.Equal(t, KindHTTP, apiErr.Kind())
}

func TestClient_DetailList(t *testing.T) {
	apiErr := callError(t, http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"loc":["body","name"],"msg":"field required"}]}`)

	assert.Equal(t, "VALIDATION_422", apiErr.Code)
	assert.Equal(t, "value is not a valid email address; field required", apiErr.Message)
	require.Contains(t, apiErr.Details, "detail")
	assert.Len(t, apiErr.Details["detail"], 2)
	assert.Equal(t, KindValidation, apiErr.Kind())
}

func TestClient_DetailString(t *testing.T) {
	apiErr := callError(t, http.StatusBadRequest, `{"detail":"Malformed query"}`)
	assert.Equal(t, "VALIDATION_400", apiErr.Code)
	assert.Equal(t, "Malformed query", apiErr.Message)

	apiErr = callError(t, http.StatusUnprocessableEntity, `{"detail":[]}`)
	assert.Equal(t, "Validation failed. Please check your input.", apiErr.Message)
}

func TestClient_UnknownShape(t *testing.T) {
	tests := []struct {
		status int
		body   string
		msg    string
	}{
		{404, `{"oops":true}`, "Resource not found."},
		{502, `<html>Bad Gateway</html>`, "An unexpected server error occurred. Please try again later."},
		{429, ``, "Too many requests. Please wait a moment."},
		{418, `[1,2,3]`, "Request failed (418)."},
	}
	for _, tt := range tests {
		apiErr := callError(t, tt.status, tt.body)
		assert.Equal(t, tt.status, apiErr.Status)
		assert.Equal(t, "HTTP_"+itoa(tt.status), apiErr.Code)
		assert.Equal(t, tt.msg, apiErr.Message)
	}
}

func itoa(n int) string { return validator.Itoa(n) }

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := Get[any](context.Background(), New(srv.URL, WithTimeout(50*time.Millisecond)), "/slow")
	apiErr, ok := AsError(err)
	require.True(t, ok)

	assert.Equal(t, 408, apiErr.Status)
	assert.Equal(t, CodeRequestTimeout, apiErr.Code)
	assert.Equal(t, "Request timed out. Please try again.", apiErr.Message)
	assert.Equal(t, KindTimeout, apiErr.Kind())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_PerRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	err := New(srv.URL).Do(context.Background(), Request{Path: "/slow", Timeout: 30 * time.Millisecond}, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeRequestTimeout, apiErr.Code)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := Get[any](context.Background(), New(url), "/x")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, CodeNetworkError, apiErr.Code)
	assert.Equal(t, "Unable to connect to the server. Please check your connection.", apiErr.Message)
	assert.Equal(t, KindNetwork, apiErr.Kind())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_NormalizedErrorPassesThrough(t *testing.T) {
	original := &Error{Status: 418, Code: "TEAPOT", Message: "short and stout"}
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, original
	})}

	_, err := Get[any](context.Background(), New("http://api.test", WithHTTPClient(hc)), "/x")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Same(t, original, apiErr)
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithBearerToken("tok"), WithHeader("X-Client", "hrmsctl"))
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/v1/employees",
		Body:   map[string]string{"name": "Asha"},
		Header: http.Header{"Accept": []string{"application/vnd.hrms+json"}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/vnd.hrms+json", got.Get("Accept"))
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "hrmsctl", got.Get("X-Client"))
	assert.Equal(t, "Asha", body["name"])
}

func TestClient_CallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Get[any](ctx, New(srv.URL), "/x")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNetworkError, apiErr.Code)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(&Error{Status: 409, Code: "EMPLOYEE_EMAIL_EXISTS"}))
	assert.True(t, IsDuplicate(&Error{Status: 400, Code: CodeAttendanceDuplicate}))
	assert.False(t, IsDuplicate(&Error{Status: 422, Code: "FUTURE_DATE"}))
	assert.False(t, IsDuplicate(errors.New("plain")))
}

func TestNewValidationError(t *testing.T) {
	apiErr := NewValidationError(validator.ValidationErrors{
		{Field: "check_out", Message: "check_out must be after check_in"},
		{Field: "date", Message: "date must be in YYYY-MM-DD format"},
	})

	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "VALIDATION_422", apiErr.Code)
	assert.Equal(t, "check_out must be after check_in; date must be in YYYY-MM-DD format", apiErr.Message)
	assert.Equal(t, KindValidation, apiErr.Kind())
	assert.False(t, apiErr.Class().Retryable())
	assert.True(t, strings.HasPrefix(apiErr.Error(), "api error [422]"))
}
