package assignment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Assignment is one row of an employee's job history. An open assignment has
// a NULL end date; at most one open assignment exists per employee.
type Assignment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	JobID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Salary     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StartDate  time.Time       `gorm:"type:date;not null"`
	EndDate    *time.Time      `gorm:"type:date"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Assignment) TableName() string {
	return "assignments"
}
