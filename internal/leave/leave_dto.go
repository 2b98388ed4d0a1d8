package leave

type SubmitLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Comments    string `json:"comments"`
}

type ApproveLeaveRequest struct {
	Comments string `json:"comments"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveApplicationResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveTypeID     string  `json:"leave_type_id"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	DaysRequested   int     `json:"days_requested"`
	Reason          string  `json:"reason"`
	Comments        string  `json:"comments,omitempty"`
	Status          string  `json:"status"`
	AppliedOn       string  `json:"applied_on"`
	ValidatedOn     *string `json:"validated_on,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
