package leavetype

type CreateLeaveTypeRequest struct {
	Name               string `json:"name" binding:"required"`
	AnnualAllocation   *int   `json:"annual_allocation" binding:"required"`
	MaxConsecutiveDays int    `json:"max_consecutive_days"`
	MinNoticeDays      int    `json:"min_notice_days"`
	CarryForward       bool   `json:"carry_forward"`
	IsActive           *bool  `json:"is_active"`
}

type UpdateLeaveTypeRequest struct {
	Name               *string `json:"name"`
	AnnualAllocation   *int    `json:"annual_allocation"`
	MaxConsecutiveDays *int    `json:"max_consecutive_days"`
	MinNoticeDays      *int    `json:"min_notice_days"`
	CarryForward       *bool   `json:"carry_forward"`
	IsActive           *bool   `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	AnnualAllocation   int    `json:"annual_allocation"`
	MaxConsecutiveDays int    `json:"max_consecutive_days"`
	MinNoticeDays      int    `json:"min_notice_days"`
	CarryForward       bool   `json:"carry_forward"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
