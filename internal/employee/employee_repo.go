package employee

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, search string, activeOnly bool) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) error
	DepartmentExists(ctx context.Context, id string) (bool, error)
	CountOpenLeaves(ctx context.Context, id string, today time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, search string, activeOnly bool) ([]Employee, error) {
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}
	if activeOnly {
		q = q.Where("is_active = true")
	}
	var empls []Employee
	err := q.Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&empl).Error
	return &empl, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Employee{}).Error
}

func (r *repository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	return count > 0, err
}

// CountOpenLeaves counts applications that would still matter if the employee
// disappeared: anything pending, or approved with time remaining.
func (r *repository) CountOpenLeaves(ctx context.Context, id string, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_applications").
		Where("employee_id = ? AND deleted_at IS NULL", id).
		Where("(status = ? OR (status = ? AND end_date >= ?))", "PENDING", "APPROVED", today).
		Count(&count).Error
	return count, err
}
