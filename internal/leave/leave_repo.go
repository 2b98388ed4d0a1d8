package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkflowEmployee is the slice of the employees table submit validates
// against.
type WorkflowEmployee struct {
	ID       string
	HireDate time.Time
	IsActive bool
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, app *LeaveApplication) error
	FindAll(ctx context.Context, employeeID string) ([]LeaveApplication, error)
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveApplication, error)
	Update(ctx context.Context, app *LeaveApplication) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	FindEmployee(ctx context.Context, employeeID string) (*WorkflowEmployee, error)
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

func (r *repository) Create(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindAll(ctx context.Context, employeeID string) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	db := r.db.WithContext(ctx).Order("applied_on DESC")
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	err := db.Find(&apps).Error
	return apps, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var app LeaveApplication
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	return &app, err
}

// FindByIDForUpdate locks the application row so two decisions about the
// same application cannot interleave.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveApplication, error) {
	var app LeaveApplication
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&app, "id = ?", id).Error
	return &app, err
}

func (r *repository) Update(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// HasOverlappingPeriod reports whether any pending or approved application
// for the employee shares a calendar day with [startDate, endDate], both
// endpoints inclusive.
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) FindEmployee(ctx context.Context, employeeID string) (*WorkflowEmployee, error) {
	var emp WorkflowEmployee
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id::text AS id, hire_date, is_active").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Take(&emp).Error
	return &emp, err
}
