package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("an employee with this code already exists")
	ErrEmailExists        = errors.New("an employee with this email already exists")
	ErrEmployeeConflict   = errors.New("employee data conflicts with existing records")
)
