package leavetype

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindAll(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, id string) error
	CountOpenApplications(ctx context.Context, id string, today time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindAll(ctx context.Context, activeOnly bool) ([]LeaveType, error) {
	var types []LeaveType
	db := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveType{}, "id = ?", id).Error
}

// CountOpenApplications counts applications that still depend on the type:
// anything pending, or approved with an end date from today onward.
func (r *repository) CountOpenApplications(ctx context.Context, id string, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_applications").
		Where("leave_type_id = ?", id).
		Where("deleted_at IS NULL").
		Where("status = ? OR (status = ? AND end_date >= ?)", "PENDING", "APPROVED", today).
		Count(&count).Error
	return count, err
}

// IsUniqueNameViolation reports whether err is the Postgres unique violation
// on the leave type name index.
func IsUniqueNameViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_types_name"
	}
	return false
}
