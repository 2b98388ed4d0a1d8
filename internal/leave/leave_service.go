package leave

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave-ledger/internal/balance"
	balanceerrors "go-leave-ledger/internal/balance/errors"
	"go-leave-ledger/internal/events"
	leaveerrors "go-leave-ledger/internal/leave/errors"
	"go-leave-ledger/internal/leavetype"
	"go-leave-ledger/internal/messaging/kafka"
	"go-leave-ledger/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

// maxDecisionRetries bounds reruns of approve/cancel transactions aborted by
// lock contention on balance rows.
const maxDecisionRetries = 3

type Service interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveApplicationResponse, error)
	GetAll(ctx context.Context, employeeID string) ([]LeaveApplicationResponse, error)
	GetByID(ctx context.Context, id string) (LeaveApplicationResponse, error)
	Approve(ctx context.Context, id, comments string) (LeaveApplicationResponse, error)
	Reject(ctx context.Context, id, rejectionReason string) (LeaveApplicationResponse, error)
	Cancel(ctx context.Context, id string) (LeaveApplicationResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	types  leavetype.Repository
	ledger balance.Ledger
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	types leavetype.Repository,
	ledger balance.Ledger,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, types: types, ledger: ledger, outbox: outbox, logger: l}
}

// Submit validates the request against the employee, the leave type, and
// existing applications, then creates the application in PENDING. The
// balance is untouched until approval.
func (s *service) Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// "now" is fixed once so every check within this call agrees on it.
	now := time.Now().UTC()
	today := truncateToDay(now)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(tx.Error))
		return LeaveApplicationResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		s.logger.Error("submit leave employee lookup failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if !emp.IsActive {
		return LeaveApplicationResponse{}, leaveerrors.ErrEmployeeInactive
	}
	if startDate.Before(truncateToDay(emp.HireDate)) {
		return LeaveApplicationResponse{}, leaveerrors.ErrBeforeHireDate
	}

	lt, err := s.types.WithTx(tx).FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	if !lt.IsActive {
		return LeaveApplicationResponse{}, leaveerrors.ErrLeaveTypeInactive
	}

	spans := balance.SplitDaysByYear(startDate, endDate)
	daysRequested := balance.TotalDays(spans)

	if daysRequested > lt.MaxConsecutiveDays {
		return LeaveApplicationResponse{}, leaveerrors.ErrExceedsMaxConsecutive
	}

	noticeDays := int(startDate.Sub(today).Hours() / 24)
	if noticeDays < 0 {
		return LeaveApplicationResponse{}, leaveerrors.ErrStartDateInPast
	}
	if noticeDays < lt.MinNoticeDays {
		return LeaveApplicationResponse{}, leaveerrors.ErrInsufficientNotice
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrLeaveOverlap
	}

	app := &LeaveApplication{
		ID:            uuid.New(),
		EmployeeID:    employeeUUID,
		LeaveTypeID:   leaveTypeUUID,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: daysRequested,
		Reason:        req.Reason,
		Comments:      req.Comments,
		Status:        StatusPending,
		AppliedOn:     now,
	}

	if err := qtx.Create(ctx, app); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	s.logger.Info("leave application submitted",
		zap.String("leave_id", app.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days_requested", daysRequested),
	)

	return mapToResponse(*app), nil
}

func (s *service) GetAll(ctx context.Context, employeeID string) ([]LeaveApplicationResponse, error) {
	apps, err := s.repo.FindAll(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveApplicationResponse, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	return mapToResponse(*app), nil
}

// Approve re-validates the balance at decision time and commits the status
// change and the debit in one transaction. Contention on the balance rows is
// retried a bounded number of times, then surfaces as a conflict.
func (s *service) Approve(ctx context.Context, id, comments string) (LeaveApplicationResponse, error) {
	return s.decideWithRetry(ctx, id, func(ctx context.Context, tx *gorm.DB, app *LeaveApplication, now time.Time) error {
		spans := balance.SplitDaysByYear(app.StartDate, app.EndDate)
		if err := s.ledger.Debit(ctx, tx, app.EmployeeID, app.LeaveTypeID, spans); err != nil {
			return err
		}

		app.Status = StatusApproved
		app.ValidatedOn = &now
		if comments != "" {
			app.Comments = comments
		}
		app.RejectionReason = nil

		return s.enqueueDecision(ctx, tx, app, events.LeaveApprovedEvent, spans, now)
	})
}

// Reject moves a pending application to REJECTED. No balance effect.
func (s *service) Reject(ctx context.Context, id, rejectionReason string) (LeaveApplicationResponse, error) {
	reason := strings.TrimSpace(rejectionReason)
	if reason == "" {
		return LeaveApplicationResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	return s.decideWithRetry(ctx, id, func(ctx context.Context, tx *gorm.DB, app *LeaveApplication, now time.Time) error {
		app.Status = StatusRejected
		app.ValidatedOn = &now
		app.RejectionReason = &reason

		spans := balance.SplitDaysByYear(app.StartDate, app.EndDate)
		return s.enqueueDecision(ctx, tx, app, events.LeaveRejectedEvent, spans, now)
	})
}

// Cancel is allowed while PENDING, or while APPROVED with a start date still
// in the future. Cancelling an approved application restores the debit.
func (s *service) Cancel(ctx context.Context, id string) (LeaveApplicationResponse, error) {
	return s.cancelWithRetry(ctx, id)
}

type decideFn func(ctx context.Context, tx *gorm.DB, app *LeaveApplication, now time.Time) error

// decideWithRetry runs one PENDING-only decision inside a transaction,
// rerunning it when the transaction aborts on deadlock or serialization
// failure.
func (s *service) decideWithRetry(ctx context.Context, id string, decide decideFn) (LeaveApplicationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var lastErr error
	for attempt := 1; attempt <= maxDecisionRetries; attempt++ {
		resp, err := s.decideOnce(ctx, id, decide)
		if err != nil && balance.IsRetryableTxError(err) {
			lastErr = err
			s.logger.Warn("leave decision retry",
				zap.String("leave_id", id),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		return resp, err
	}

	s.logger.Warn("leave decision gave up after retries",
		zap.String("leave_id", id),
		zap.Error(lastErr),
	)
	return LeaveApplicationResponse{}, balanceerrors.ErrBalanceContention
}

func (s *service) decideOnce(ctx context.Context, id string, decide decideFn) (LeaveApplicationResponse, error) {
	now := time.Now().UTC()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveApplicationResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	if app.Status != StatusPending {
		s.logger.Warn("leave decision on non-pending application",
			zap.String("leave_id", id),
			zap.String("status", app.Status),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrNotPending
	}

	if err := decide(ctx, tx, app, now); err != nil {
		return LeaveApplicationResponse{}, err
	}

	if err := qtx.Update(ctx, app); err != nil {
		s.logger.Error("leave decision persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		s.logger.Error("leave decision commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("leave decision committed",
		zap.String("leave_id", id),
		zap.String("status", app.Status),
	)
	return mapToResponse(*app), nil
}

func (s *service) cancelWithRetry(ctx context.Context, id string) (LeaveApplicationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var lastErr error
	for attempt := 1; attempt <= maxDecisionRetries; attempt++ {
		resp, err := s.cancelOnce(ctx, id)
		if err != nil && balance.IsRetryableTxError(err) {
			lastErr = err
			continue
		}
		return resp, err
	}

	s.logger.Warn("leave cancel gave up after retries",
		zap.String("leave_id", id),
		zap.Error(lastErr),
	)
	return LeaveApplicationResponse{}, balanceerrors.ErrBalanceContention
}

func (s *service) cancelOnce(ctx context.Context, id string) (LeaveApplicationResponse, error) {
	now := time.Now().UTC()
	today := truncateToDay(now)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveApplicationResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveApplicationResponse{}, err
	}

	spans := balance.SplitDaysByYear(app.StartDate, app.EndDate)

	switch app.Status {
	case StatusPending:
		// Nothing was debited yet.
	case StatusApproved:
		if !app.StartDate.After(today) {
			return LeaveApplicationResponse{}, leaveerrors.ErrLeaveUnderway
		}
		if err := s.ledger.Credit(ctx, tx, app.EmployeeID, app.LeaveTypeID, spans); err != nil {
			return LeaveApplicationResponse{}, err
		}
	default:
		return LeaveApplicationResponse{}, leaveerrors.ErrNotCancellable
	}

	app.Status = StatusCanceled

	if err := s.enqueueDecision(ctx, tx, app, events.LeaveCancelledEvent, spans, now); err != nil {
		return LeaveApplicationResponse{}, err
	}
	if err := qtx.Update(ctx, app); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("leave application cancelled", zap.String("leave_id", id))
	return mapToResponse(*app), nil
}

// enqueueDecision writes the decision event to the outbox inside the same
// transaction as the state change, so the event exists exactly when the
// decision does.
func (s *service) enqueueDecision(ctx context.Context, tx *gorm.DB, app *LeaveApplication, eventType string, spans []balance.YearDays, now time.Time) error {
	years := make([]int, 0, len(spans))
	for _, span := range spans {
		years = append(years, span.Year)
	}

	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:   eventType,
		LeaveID:     app.ID.String(),
		EmployeeID:  app.EmployeeID.String(),
		LeaveTypeID: app.LeaveTypeID.String(),
		Years:       years,
		OccurredAt:  now,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   app.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(app LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:            app.ID.String(),
		EmployeeID:    app.EmployeeID.String(),
		LeaveTypeID:   app.LeaveTypeID.String(),
		StartDate:     app.StartDate.Format("2006-01-02"),
		EndDate:       app.EndDate.Format("2006-01-02"),
		DaysRequested: app.DaysRequested,
		Reason:        app.Reason,
		Comments:      app.Comments,
		Status:        app.Status,
		AppliedOn:     app.AppliedOn.Format(time.RFC3339),
	}
	if app.ValidatedOn != nil {
		v := app.ValidatedOn.Format(time.RFC3339)
		resp.ValidatedOn = &v
	}
	resp.RejectionReason = app.RejectionReason
	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = mapToResponse(app)
	}
	return resp
}
