package job

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, j *Job) error
	FindAll(ctx context.Context) ([]Job, error)
	FindByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, id string) error
	CountActiveAssignments(ctx context.Context, id string) (int64, error)
	DepartmentExists(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, j *Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).Order("title ASC").Find(&jobs).Error
	return jobs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&j).Error
	return &j, err
}

func (r *repository) Update(ctx context.Context, j *Job) error {
	return r.db.WithContext(ctx).Save(j).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Job{}).Error
}

func (r *repository) CountActiveAssignments(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("assignments").
		Where("job_id = ? AND end_date IS NULL AND deleted_at IS NULL", id).
		Count(&count).Error
	return count, err
}

func (r *repository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	return count > 0, err
}

func IsUniqueTitleViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_jobs_title"
	}
	return false
}
