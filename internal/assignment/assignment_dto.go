package assignment

type AssignRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	JobID      string `json:"job_id" binding:"required,uuid"`
	Salary     string `json:"salary" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
}

type TerminateRequest struct {
	EndDate            string `json:"end_date" binding:"required"`
	DeactivateEmployee bool   `json:"deactivate_employee"`
}

type AssignmentResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	JobID      string  `json:"job_id"`
	Salary     string  `json:"salary"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}
