package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate     time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	DaysRequested int       `gorm:"type:int;not null;default:1"`
	Reason        string    `gorm:"type:text;not null"`
	Comments      string    `gorm:"type:text"`

	Status          string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AppliedOn       time.Time `gorm:"not null"`
	ValidatedOn     *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
