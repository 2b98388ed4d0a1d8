package employee

type CreateEmployeeRequest struct {
	EmployeeNumber string `json:"employee_number" binding:"omitempty,max=20"`
	FullName       string `json:"full_name" binding:"required,max=150"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	Education      string `json:"education" binding:"omitempty,max=150"`
	HireDate       string `json:"hire_date" binding:"required"`
	DepartmentID   string `json:"department_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName        *string `json:"full_name" binding:"omitempty,max=150"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Phone           *string `json:"phone" binding:"omitempty,max=30"`
	Education       *string `json:"education" binding:"omitempty,max=150"`
	ResignationDate *string `json:"resignation_date"`
	DepartmentID    *string `json:"department_id" binding:"omitempty,uuid"`
	IsActive        *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID              string  `json:"id"`
	EmployeeNumber  string  `json:"employee_number"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone,omitempty"`
	Education       string  `json:"education,omitempty"`
	HireDate        string  `json:"hire_date"`
	ResignationDate *string `json:"resignation_date,omitempty"`
	DepartmentID    string  `json:"department_id,omitempty"`
	IsActive        bool    `json:"is_active"`
}
