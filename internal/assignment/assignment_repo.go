package assignment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobRef carries the salary bounds needed to validate an assignment.
type JobRef struct {
	ID        string
	Title     string
	MinSalary decimal.Decimal
	MaxSalary decimal.Decimal
	IsActive  bool
}

type EmployeeRef struct {
	ID       string
	IsActive bool
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *Assignment) error
	FindByID(ctx context.Context, id string) (*Assignment, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Assignment, error)
	FindOpenByEmployee(ctx context.Context, employeeID string) (*Assignment, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Assignment, error)
	ListByJob(ctx context.Context, jobID string) ([]Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	EmployeeByID(ctx context.Context, id string) (*EmployeeRef, error)
	DeactivateEmployee(ctx context.Context, id string, resignationDate time.Time) error
	JobByID(ctx context.Context, id string) (*JobRef, error)
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

func (r *repository) Create(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&a).Error
	return &a, err
}

func (r *repository) FindOpenByEmployee(ctx context.Context, employeeID string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND end_date IS NULL", employeeID).
		First(&a).Error
	return &a, err
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]Assignment, error) {
	var list []Assignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListByJob(ctx context.Context, jobID string) ([]Assignment, error) {
	var list []Assignment
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("start_date DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) Update(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) EmployeeByID(ctx context.Context, id string) (*EmployeeRef, error) {
	var ref EmployeeRef
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id::text AS id, is_active").
		Where("id = ? AND deleted_at IS NULL", id).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repository) DeactivateEmployee(ctx context.Context, id string, resignationDate time.Time) error {
	return r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"is_active":        false,
			"resignation_date": resignationDate,
		}).Error
}

func (r *repository) JobByID(ctx context.Context, id string) (*JobRef, error) {
	var ref JobRef
	err := r.db.WithContext(ctx).
		Table("jobs").
		Select("id::text AS id, title, min_salary, max_salary, is_active").
		Where("id = ? AND deleted_at IS NULL", id).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
