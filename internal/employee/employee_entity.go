package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeNumber  string     `gorm:"size:20;not null;uniqueIndex:uq_employees_number,where:deleted_at IS NULL"`
	FullName        string     `gorm:"size:150;not null"`
	Email           string     `gorm:"size:150;not null;uniqueIndex:uq_employees_email,where:deleted_at IS NULL"`
	Phone           string     `gorm:"size:30"`
	Education       string     `gorm:"size:150"`
	HireDate        time.Time  `gorm:"type:date;not null"`
	ResignationDate *time.Time `gorm:"type:date"`
	DepartmentID    *uuid.UUID `gorm:"type:uuid;index"`
	IsActive        bool       `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
