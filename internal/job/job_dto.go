package job

type CreateJobRequest struct {
	Title        string `json:"title" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=255"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	MinSalary    string `json:"min_salary" binding:"omitempty"`
	MaxSalary    string `json:"max_salary" binding:"omitempty"`
}

type UpdateJobRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=255"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	MinSalary    *string `json:"min_salary"`
	MaxSalary    *string `json:"max_salary"`
	IsActive     *bool   `json:"is_active"`
}

type JobResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	MinSalary    string `json:"min_salary"`
	MaxSalary    string `json:"max_salary"`
	IsActive     bool   `json:"is_active"`
}
