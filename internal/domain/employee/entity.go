package employee

import "time"

type Employee struct {
	ID            string
	EmployeeCode  string
	Name          string
	Email         string
	Department    string
	Designation   *string
	DateOfJoining time.Time
	Phone         *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ToResponse maps the entity onto its wire shape.
func (e Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		EmployeeCode:  e.EmployeeCode,
		Name:          e.Name,
		Email:         e.Email,
		Department:    e.Department,
		Designation:   e.Designation,
		DateOfJoining: e.DateOfJoining.Format("2006-01-02"),
		Phone:         e.Phone,
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
