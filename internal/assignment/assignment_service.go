package assignment

import (
	"context"
	"errors"
	"time"

	assignmenterrors "go-leave-ledger/internal/assignment/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Assign(ctx context.Context, req AssignRequest) (AssignmentResponse, error)
	Terminate(ctx context.Context, id string, req TerminateRequest) (AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (AssignmentResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	ListByJob(ctx context.Context, jobID string) ([]AssignmentResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Assign opens a new assignment for the employee. The current open
// assignment, if any, is closed the day before the new one starts.
func (s *service) Assign(ctx context.Context, req AssignRequest) (AssignmentResponse, error) {
	salary, err := decimal.NewFromString(req.Salary)
	if err != nil || !salary.IsPositive() {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidSalary
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidDateFormat
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.EmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrEmployeeNotFound
		}
		return AssignmentResponse{}, err
	}
	if !empl.IsActive {
		return AssignmentResponse{}, assignmenterrors.ErrEmployeeInactive
	}

	job, err := qtx.JobByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrJobNotFound
		}
		return AssignmentResponse{}, err
	}
	if !job.IsActive {
		return AssignmentResponse{}, assignmenterrors.ErrJobInactive
	}
	if job.MaxSalary.IsPositive() {
		if salary.LessThan(job.MinSalary) || salary.GreaterThan(job.MaxSalary) {
			return AssignmentResponse{}, assignmenterrors.ErrSalaryOutOfRange
		}
	}

	open, err := qtx.FindOpenByEmployee(ctx, req.EmployeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AssignmentResponse{}, err
	}
	if err == nil {
		if !open.StartDate.Before(startDate) {
			return AssignmentResponse{}, assignmenterrors.ErrAlreadyAssigned
		}
		closedOn := startDate.AddDate(0, 0, -1)
		open.EndDate = &closedOn
		if err := qtx.Update(ctx, open); err != nil {
			return AssignmentResponse{}, err
		}
	}

	a := &Assignment{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(req.EmployeeID),
		JobID:      uuid.MustParse(req.JobID),
		Salary:     salary,
		StartDate:  startDate,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("assign persist failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return AssignmentResponse{}, err
	}

	s.logger.Info("assignment opened",
		zap.String("assignment_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("job_id", req.JobID),
	)
	return mapToResponse(*a), nil
}

func (s *service) Terminate(ctx context.Context, id string, req TerminateRequest) (AssignmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidAssignmentID
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidDateFormat
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AssignmentResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	if a.EndDate != nil {
		return AssignmentResponse{}, assignmenterrors.ErrAlreadyTerminated
	}
	if endDate.Before(a.StartDate) {
		return AssignmentResponse{}, assignmenterrors.ErrEndBeforeStart
	}

	a.EndDate = &endDate

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("terminate persist failed", zap.String("assignment_id", id), zap.Error(err))
		return AssignmentResponse{}, err
	}

	if req.DeactivateEmployee {
		if err := qtx.DeactivateEmployee(ctx, a.EmployeeID.String(), endDate); err != nil {
			s.logger.Error("terminate deactivate employee failed",
				zap.String("employee_id", a.EmployeeID.String()),
				zap.Error(err),
			)
			return AssignmentResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return AssignmentResponse{}, err
	}

	s.logger.Info("assignment terminated",
		zap.String("assignment_id", id),
		zap.Bool("employee_deactivated", req.DeactivateEmployee),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AssignmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidAssignmentID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, assignmenterrors.ErrInvalidAssignmentID
	}

	list, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) ListByJob(ctx context.Context, jobID string) ([]AssignmentResponse, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, assignmenterrors.ErrInvalidAssignmentID
	}

	list, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func mapToResponse(a Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		JobID:      a.JobID.String(),
		Salary:     a.Salary.StringFixed(2),
		StartDate:  a.StartDate.Format("2006-01-02"),
	}
	if a.EndDate != nil {
		v := a.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	return resp
}

func mapToListResponse(list []Assignment) []AssignmentResponse {
	res := make([]AssignmentResponse, len(list))
	for i, a := range list {
		res[i] = mapToResponse(a)
	}
	return res
}
