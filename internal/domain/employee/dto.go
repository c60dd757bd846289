package employee

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode  string  `json:"employee_code" validate:"required,min=1,max=20"`
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Email         string  `json:"email" validate:"required,min=5,max=255"`
	Department    string  `json:"department" validate:"required,min=1,max=100"`
	Designation   *string `json:"designation,omitempty" validate:"omitempty,max=100"`
	DateOfJoining string  `json:"date_of_joining" validate:"required"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// Validate normalizes the code (upper case) and email (lower case) before checking.
func (r *CreateEmployeeRequest) Validate() error {
	r.EmployeeCode = strings.ToUpper(strings.TrimSpace(r.EmployeeCode))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	errs := validator.Struct(r)

	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "Invalid email format",
		})
	}
	if r.DateOfJoining != "" {
		if _, ok := validator.IsValidDate(r.DateOfJoining); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_joining",
				Message: "date_of_joining must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest is a partial update: nil fields are left untouched.
// employee_code cannot be changed.
type UpdateEmployeeRequest struct {
	ID            string  `json:"-"`
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email         *string `json:"email,omitempty" validate:"omitempty,min=5,max=255"`
	Department    *string `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	Designation   *string `json:"designation,omitempty" validate:"omitempty,max=100"`
	DateOfJoining *string `json:"date_of_joining,omitempty"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}

	errs := validator.Struct(r)

	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "Invalid email format",
		})
	}
	if r.DateOfJoining != nil {
		if _, ok := validator.IsValidDate(*r.DateOfJoining); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_joining",
				Message: "date_of_joining must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID            string    `json:"id"`
	EmployeeCode  string    `json:"employee_code"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Department    string    `json:"department"`
	Designation   *string   `json:"designation"`
	DateOfJoining string    `json:"date_of_joining"`
	Phone         *string   `json:"phone"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListEmployeeResponse = pagination.Page[EmployeeResponse]

// EmployeeFilter holds list parameters. Zero values mean "not set".
type EmployeeFilter struct {
	Page       int    `json:"page,omitempty"`
	PerPage    int    `json:"per_page,omitempty"`
	Department string `json:"department,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	Search     string `json:"search,omitempty"`
}

// Query encodes only the parameters that are set.
func (f EmployeeFilter) Query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.Department != "" {
		q.Set("department", f.Department)
	}
	if f.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// ParseEmployeeFilter reads list parameters from a query string and applies
// the server defaults.
func ParseEmployeeFilter(q url.Values) (EmployeeFilter, error) {
	var errs validator.ValidationErrors
	f := EmployeeFilter{
		Page:       pagination.DefaultPage,
		PerPage:    pagination.DefaultPerPage,
		Department: q.Get("department"),
		Search:     strings.TrimSpace(q.Get("search")),
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
	if v := q.Get("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "is_active", Message: "is_active must be a boolean"})
		} else {
			f.IsActive = &active
		}
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, f.Validate()
}

func (f *EmployeeFilter) Validate() error {
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

	if len(errs) > 0 {
		return errs
	}
	return nil
}
