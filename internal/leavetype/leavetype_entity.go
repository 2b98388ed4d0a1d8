package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"size:50;not null;uniqueIndex:uq_leave_types_name"`
	AnnualAllocation   int       `gorm:"type:int;not null;default:20"`
	MaxConsecutiveDays int       `gorm:"type:int;not null;default:7"`
	MinNoticeDays      int       `gorm:"type:int;not null;default:1"`
	CarryForward       bool      `gorm:"not null;default:false"`
	IsActive           bool      `gorm:"not null;default:true;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}
