package app

import (
	"go-leave-ledger/internal/assignment"
	"go-leave-ledger/internal/balance"
	"go-leave-ledger/internal/department"
	"go-leave-ledger/internal/employee"
	"go-leave-ledger/internal/job"
	"go-leave-ledger/internal/leave"
	"go-leave-ledger/internal/leavetype"

	"gorm.io/gorm"
)

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&department.Department{},
		&job.Job{},
		&employee.Employee{},
		&assignment.Assignment{},
		&leavetype.LeaveType{},
		&leave.LeaveApplication{},
		&balance.LeaveBalance{},
	); err != nil {
		return err
	}

	// The outbox and counters tables are written through raw SQL, so gorm
	// has no models to migrate for them.
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id UUID NOT NULL,
			event_type TEXT NOT NULL,
			topic TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`).Error; err != nil {
		return err
	}

	return db.Exec(`
		CREATE TABLE IF NOT EXISTS counters (
			counter_type TEXT PRIMARY KEY,
			last_value BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`).Error
}
