package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

const (
	LeaveApprovedEvent  = "leave_approved"
	LeaveRejectedEvent  = "leave_rejected"
	LeaveCancelledEvent = "leave_cancelled"
)

// LeaveDecidedEvent is emitted whenever an application leaves PENDING (or an
// approved application is cancelled). Years lists every calendar year whose
// balance the decision touched, so consumers can invalidate cached balances.
type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	EmployeeID  string    `json:"employee_id"`
	LeaveTypeID string    `json:"leave_type_id"`
	Years       []int     `json:"years"`
	OccurredAt  time.Time `json:"occurred_at"`
}
