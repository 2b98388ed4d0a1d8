package job

import (
	"context"
	"errors"
	"strings"

	joberrors "go-leave-ledger/internal/job/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateJobRequest) (JobResponse, error)
	GetAll(ctx context.Context) ([]JobResponse, error)
	GetByID(ctx context.Context, id string) (JobResponse, error)
	Update(ctx context.Context, id string, req UpdateJobRequest) (JobResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("job.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("job.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateJobRequest) (JobResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return JobResponse{}, joberrors.ErrTitleRequired
	}

	minSalary, err := parseSalary(req.MinSalary)
	if err != nil {
		return JobResponse{}, err
	}
	maxSalary, err := parseSalary(req.MaxSalary)
	if err != nil {
		return JobResponse{}, err
	}
	if maxSalary.IsPositive() && minSalary.GreaterThan(maxSalary) {
		return JobResponse{}, joberrors.ErrSalaryRange
	}

	var departmentID *uuid.UUID
	if req.DepartmentID != "" {
		exists, err := s.repo.DepartmentExists(ctx, req.DepartmentID)
		if err != nil {
			return JobResponse{}, err
		}
		if !exists {
			return JobResponse{}, joberrors.ErrDepartmentNotFound
		}
		deptUUID := uuid.MustParse(req.DepartmentID)
		departmentID = &deptUUID
	}

	j := &Job{
		ID:           uuid.New(),
		Title:        title,
		Description:  req.Description,
		DepartmentID: departmentID,
		MinSalary:    minSalary,
		MaxSalary:    maxSalary,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, j); err != nil {
		if IsUniqueTitleViolation(err) {
			return JobResponse{}, joberrors.ErrDuplicateTitle
		}
		s.logger.Error("create job failed", zap.Error(err))
		return JobResponse{}, err
	}

	s.logger.Info("job created", zap.String("job_id", j.ID.String()))
	return mapToResponse(*j), nil
}

func (s *service) GetAll(ctx context.Context) ([]JobResponse, error) {
	jobs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(jobs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (JobResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return JobResponse{}, joberrors.ErrInvalidJobID
	}

	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JobResponse{}, joberrors.ErrJobNotFound
		}
		return JobResponse{}, err
	}
	return mapToResponse(*j), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateJobRequest) (JobResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return JobResponse{}, joberrors.ErrInvalidJobID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return JobResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	j, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JobResponse{}, joberrors.ErrJobNotFound
		}
		return JobResponse{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return JobResponse{}, joberrors.ErrTitleRequired
		}
		j.Title = title
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			j.DepartmentID = nil
		} else {
			exists, err := qtx.DepartmentExists(ctx, *req.DepartmentID)
			if err != nil {
				return JobResponse{}, err
			}
			if !exists {
				return JobResponse{}, joberrors.ErrDepartmentNotFound
			}
			deptUUID := uuid.MustParse(*req.DepartmentID)
			j.DepartmentID = &deptUUID
		}
	}
	if req.IsActive != nil {
		j.IsActive = *req.IsActive
	}
	if req.MinSalary != nil {
		minSalary, err := parseSalary(*req.MinSalary)
		if err != nil {
			return JobResponse{}, err
		}
		j.MinSalary = minSalary
	}
	if req.MaxSalary != nil {
		maxSalary, err := parseSalary(*req.MaxSalary)
		if err != nil {
			return JobResponse{}, err
		}
		j.MaxSalary = maxSalary
	}
	if j.MaxSalary.IsPositive() && j.MinSalary.GreaterThan(j.MaxSalary) {
		return JobResponse{}, joberrors.ErrSalaryRange
	}

	if err := qtx.Update(ctx, j); err != nil {
		if IsUniqueTitleViolation(err) {
			return JobResponse{}, joberrors.ErrDuplicateTitle
		}
		s.logger.Error("update job failed", zap.Error(err))
		return JobResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return JobResponse{}, err
	}

	return mapToResponse(*j), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return joberrors.ErrInvalidJobID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return joberrors.ErrJobNotFound
		}
		return err
	}

	count, err := qtx.CountActiveAssignments(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return joberrors.ErrJobInUse
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete job failed", zap.Error(err))
		return err
	}

	return tx.Commit().Error
}

func parseSalary(v string) (decimal.Decimal, error) {
	if strings.TrimSpace(v) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, joberrors.ErrInvalidSalary
	}
	return d, nil
}

func mapToResponse(j Job) JobResponse {
	resp := JobResponse{
		ID:          j.ID.String(),
		Title:       j.Title,
		Description: j.Description,
		MinSalary:   j.MinSalary.StringFixed(2),
		MaxSalary:   j.MaxSalary.StringFixed(2),
		IsActive:    j.IsActive,
	}
	if j.DepartmentID != nil {
		resp.DepartmentID = j.DepartmentID.String()
	}
	return resp
}

func mapToListResponse(jobs []Job) []JobResponse {
	res := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		res[i] = mapToResponse(j)
	}
	return res
}
