package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one ledger row, keyed by (employee, leave type, year).
// AllocatedDays is fixed at materialization time: base annual allocation plus
// any carried-forward remainder. UsedDays moves on approval and cancellation.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key,priority:1"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key,priority:2"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:uq_leave_balances_key,priority:3"`

	AllocatedDays int `gorm:"type:int;not null;default:0"`
	UsedDays      int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Available() int {
	return b.AllocatedDays - b.UsedDays
}

// YearDays is the portion of a leave application that falls in one calendar
// year. An application inside a single year produces exactly one span.
type YearDays struct {
	Year int
	Days int
}

// SplitDaysByYear splits the inclusive [start, end] range into per-year day
// counts. Dates are treated as whole calendar days.
func SplitDaysByYear(start, end time.Time) []YearDays {
	if end.Before(start) {
		return nil
	}

	spans := make([]YearDays, 0, end.Year()-start.Year()+1)
	for year := start.Year(); year <= end.Year(); year++ {
		segStart := start
		if yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); segStart.Before(yearStart) {
			segStart = yearStart
		}
		segEnd := end
		if yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC); segEnd.After(yearEnd) {
			segEnd = yearEnd
		}

		days := int(segEnd.Sub(segStart).Hours()/24) + 1
		spans = append(spans, YearDays{Year: year, Days: days})
	}
	return spans
}

// TotalDays is the inclusive calendar day count across all spans.
func TotalDays(spans []YearDays) int {
	total := 0
	for _, s := range spans {
		total += s.Days
	}
	return total
}
