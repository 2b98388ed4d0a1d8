package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Job struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title        string          `gorm:"size:100;not null;uniqueIndex:uq_jobs_title,where:deleted_at IS NULL"`
	Description  string          `gorm:"size:255"`
	DepartmentID *uuid.UUID      `gorm:"type:uuid;index"`
	MinSalary    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MaxSalary    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Job) TableName() string {
	return "jobs"
}
