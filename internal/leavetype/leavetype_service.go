package leavetype

import (
	"context"
	"errors"
	"strings"
	"time"

	leavetypeerrors "go-leave-ledger/internal/leavetype/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, activeOnly bool) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return LeaveTypeResponse{}, leavetypeerrors.ErrNameRequired
	}
	if req.AnnualAllocation == nil || *req.AnnualAllocation < 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeAllocation
	}

	maxConsecutive := req.MaxConsecutiveDays
	if maxConsecutive == 0 {
		maxConsecutive = 7
	}
	if maxConsecutive < 1 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidMaxConsecutive
	}
	if req.MinNoticeDays < 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeMinNotice
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	lt := &LeaveType{
		ID:                 uuid.New(),
		Name:               name,
		AnnualAllocation:   *req.AnnualAllocation,
		MaxConsecutiveDays: maxConsecutive,
		MinNoticeDays:      req.MinNoticeDays,
		CarryForward:       req.CarryForward,
		IsActive:           active,
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		if IsUniqueNameViolation(err) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrDuplicateName
		}
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("leave type created",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("name", lt.Name),
	)
	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, activeOnly bool) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

// Update applies partial changes. Allocation changes are prospective only:
// balances already materialized keep the allocation they were created with.
func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return LeaveTypeResponse{}, leavetypeerrors.ErrNameRequired
		}
		lt.Name = name
	}
	if req.AnnualAllocation != nil {
		if *req.AnnualAllocation < 0 {
			return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeAllocation
		}
		lt.AnnualAllocation = *req.AnnualAllocation
	}
	if req.MaxConsecutiveDays != nil {
		if *req.MaxConsecutiveDays < 1 {
			return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidMaxConsecutive
		}
		lt.MaxConsecutiveDays = *req.MaxConsecutiveDays
	}
	if req.MinNoticeDays != nil {
		if *req.MinNoticeDays < 0 {
			return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeMinNotice
		}
		lt.MinNoticeDays = *req.MinNoticeDays
	}
	if req.CarryForward != nil {
		lt.CarryForward = *req.CarryForward
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, lt); err != nil {
		if IsUniqueNameViolation(err) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrDuplicateName
		}
		s.logger.Error("update leave type persist failed",
			zap.String("leave_type_id", id),
			zap.Error(err),
		)
		return LeaveTypeResponse{}, err
	}

	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leavetypeerrors.ErrInvalidLeaveTypeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavetypeerrors.ErrLeaveTypeNotFound
		}
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	open, err := qtx.CountOpenApplications(ctx, id, today)
	if err != nil {
		return err
	}
	if open > 0 {
		s.logger.Warn("delete leave type blocked by open applications",
			zap.String("leave_type_id", id),
			zap.Int64("open_applications", open),
		)
		return leavetypeerrors.ErrLeaveTypeInUse
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	s.logger.Info("leave type deleted", zap.String("leave_type_id", id))
	return nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 lt.ID.String(),
		Name:               lt.Name,
		AnnualAllocation:   lt.AnnualAllocation,
		MaxConsecutiveDays: lt.MaxConsecutiveDays,
		MinNoticeDays:      lt.MinNoticeDays,
		CarryForward:       lt.CarryForward,
		IsActive:           lt.IsActive,
		CreatedAt:          lt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          lt.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
