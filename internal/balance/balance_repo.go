package balance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRef is the slice of the employees table the ledger needs.
type EmployeeRef struct {
	ID       string
	FullName string
	Email    string
	HireDate time.Time
	IsActive bool
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	Create(ctx context.Context, b *LeaveBalance) error
	AddUsedDays(ctx context.Context, id string, delta int) error
	DistinctYears(ctx context.Context, employeeID string) ([]int, error)
	EmployeeByID(ctx context.Context, employeeID string) (*EmployeeRef, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

// FindForUpdate locks the row for the rest of the surrounding transaction.
// Concurrent debits against the same key serialize here.
func (r *repository) FindForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

// Create inserts a row, silently losing the race if another transaction
// materialized the same key first.
func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b).Error
}

func (r *repository) AddUsedDays(ctx context.Context, id string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", id).
		UpdateColumn("used_days", gorm.Expr("used_days + ?", delta)).Error
}

func (r *repository) DistinctYears(ctx context.Context, employeeID string) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("employee_id = ?", employeeID).
		Distinct("year").
		Order("year ASC").
		Pluck("year", &years).Error
	return years, err
}

func (r *repository) EmployeeByID(ctx context.Context, employeeID string) (*EmployeeRef, error) {
	var ref EmployeeRef
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id::text AS id, full_name, email, hire_date, is_active").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Take(&ref).Error
	return &ref, err
}

// IsRetryableTxError reports whether err is a Postgres serialization failure
// or deadlock, the two cases where rerunning the whole transaction can
// succeed.
func IsRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
