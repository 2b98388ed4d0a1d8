package balance

import (
	"context"
	"errors"
	"fmt"
	"time"

	balanceerrors "go-leave-ledger/internal/balance/errors"
	"go-leave-ledger/internal/leavetype"
	"go-leave-ledger/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultCarryForwardLookback keeps annual-reset semantics: only the
	// immediately prior year's remainder can roll over.
	DefaultCarryForwardLookback = 1

	// maxTxRetries bounds reruns of a transaction aborted by deadlock or
	// serialization failure before the contention surfaces to the caller.
	maxTxRetries = 3
)

type BalanceItem struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	Allocated     int    `json:"allocated_days"`
	Used          int    `json:"used_days"`
	Available     int    `json:"available_days"`
}

type YearBalances struct {
	Year     int           `json:"year"`
	Balances []BalanceItem `json:"balances"`
}

type EmployeeInfo struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type EmployeeBalancesResponse struct {
	Employee EmployeeInfo   `json:"employee"`
	Years    []YearBalances `json:"years"`
}

// Ledger is the balance side consumed by the leave workflow. Debit and
// Credit run inside the caller's transaction so an application's status
// change and its balance effect commit or roll back together.
type Ledger interface {
	Debit(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID uuid.UUID, spans []YearDays) error
	Credit(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID uuid.UUID, spans []YearDays) error
}

type Service interface {
	Ledger
	GetBalances(ctx context.Context, employeeID string, year *int) (EmployeeBalancesResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	types    leavetype.Repository
	cache    *Cache
	lookback int
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, types leavetype.Repository, cache *Cache, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		types:    types,
		cache:    cache,
		lookback: DefaultCarryForwardLookback,
		logger:   l,
	}
}

// Debit locks every touched balance row, re-validates availability against
// the committed state, and increments used days. Any failure leaves the
// caller's transaction poisoned and nothing is committed.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID uuid.UUID, spans []YearDays) error {
	qtx := s.repo.WithTx(tx)

	lt, err := s.types.WithTx(tx).FindByID(ctx, leaveTypeID.String())
	if err != nil {
		return err
	}

	for _, span := range spans {
		row, err := s.materializeLocked(ctx, qtx, lt, employeeID, span.Year)
		if err != nil {
			return err
		}
		if row.Available() < span.Days {
			return apperror.Wrap(
				fmt.Errorf("requested %d day(s), %d available for %s in %d",
					span.Days, row.Available(), lt.Name, span.Year),
				apperror.CodeInvalidInput,
				balanceerrors.ErrInsufficientBalance.Message,
				balanceerrors.ErrInsufficientBalance.HTTPStatus,
			)
		}
		if err := qtx.AddUsedDays(ctx, row.ID.String(), span.Days); err != nil {
			return err
		}
	}

	s.invalidateLocal(employeeID.String(), spans)
	return nil
}

// Credit reverses a previous debit, span for span.
func (s *service) Credit(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID uuid.UUID, spans []YearDays) error {
	qtx := s.repo.WithTx(tx)

	lt, err := s.types.WithTx(tx).FindByID(ctx, leaveTypeID.String())
	if err != nil {
		return err
	}

	for _, span := range spans {
		row, err := s.materializeLocked(ctx, qtx, lt, employeeID, span.Year)
		if err != nil {
			return err
		}
		if err := qtx.AddUsedDays(ctx, row.ID.String(), -span.Days); err != nil {
			return err
		}
	}

	s.invalidateLocal(employeeID.String(), spans)
	return nil
}

func (s *service) GetBalances(ctx context.Context, employeeID string, year *int) (EmployeeBalancesResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeBalancesResponse{}, balanceerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.EmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeBalancesResponse{}, balanceerrors.ErrEmployeeNotFound
		}
		return EmployeeBalancesResponse{}, err
	}

	resp := EmployeeBalancesResponse{
		Employee: EmployeeInfo{ID: emp.ID, FullName: emp.FullName, Email: emp.Email},
	}

	years, err := s.resolveYears(ctx, employeeID, year)
	if err != nil {
		return EmployeeBalancesResponse{}, err
	}

	for _, y := range years {
		yb, err := s.yearBalances(ctx, employeeID, y)
		if err != nil {
			return EmployeeBalancesResponse{}, err
		}
		resp.Years = append(resp.Years, yb)
	}

	return resp, nil
}

func (s *service) resolveYears(ctx context.Context, employeeID string, year *int) ([]int, error) {
	if year != nil {
		return []int{*year}, nil
	}

	years, err := s.repo.DistinctYears(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		years = []int{time.Now().UTC().Year()}
	}
	return years, nil
}

// yearBalances serves one (employee, year) summary, through the cache when
// one is configured. Concurrent misses for the same key collapse into a
// single materialization.
func (s *service) yearBalances(ctx context.Context, employeeID string, year int) (YearBalances, error) {
	if s.cache == nil {
		return s.computeYearBalances(ctx, employeeID, year)
	}

	return s.cache.GetOrCompute(ctx, employeeID, year, func() (YearBalances, error) {
		return s.computeYearBalances(ctx, employeeID, year)
	})
}

func (s *service) computeYearBalances(ctx context.Context, employeeID string, year int) (YearBalances, error) {
	yb := YearBalances{Year: year}
	empUUID := uuid.MustParse(employeeID)

	err := s.runInTxWithRetry(ctx, func(tx *gorm.DB) error {
		yb.Balances = yb.Balances[:0]

		types, err := s.types.WithTx(tx).FindAll(ctx, true)
		if err != nil {
			return err
		}

		qtx := s.repo.WithTx(tx)
		for i := range types {
			lt := &types[i]
			row, err := s.materializeLocked(ctx, qtx, lt, empUUID, year)
			if err != nil {
				return err
			}
			yb.Balances = append(yb.Balances, BalanceItem{
				LeaveTypeID:   lt.ID.String(),
				LeaveTypeName: lt.Name,
				Allocated:     row.AllocatedDays,
				Used:          row.UsedDays,
				Available:     row.Available(),
			})
		}
		return nil
	})
	if err != nil {
		return YearBalances{}, err
	}
	return yb, nil
}

// materializeLocked returns the locked balance row for one key, creating it
// on first touch. Allocation is fixed at creation: base annual allocation
// plus the prior year's positive remainder for carry-forward types.
func (s *service) materializeLocked(ctx context.Context, qtx Repository, lt *leavetype.LeaveType, employeeID uuid.UUID, year int) (*LeaveBalance, error) {
	row, err := qtx.FindForUpdate(ctx, employeeID.String(), lt.ID.String(), year)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	allocated := lt.AnnualAllocation
	if lt.CarryForward {
		carried, err := s.carriedForward(ctx, qtx, lt, employeeID, year)
		if err != nil {
			return nil, err
		}
		allocated += carried
	}

	if err := qtx.Create(ctx, &LeaveBalance{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   lt.ID,
		Year:          year,
		AllocatedDays: allocated,
		UsedDays:      0,
	}); err != nil {
		return nil, err
	}

	// Re-read under lock: a concurrent transaction may have won the insert.
	return qtx.FindForUpdate(ctx, employeeID.String(), lt.ID.String(), year)
}

// carriedForward walks back through prior-year rows, at most lookback years.
// Only rows with recorded usage can carry a remainder: a year without any
// approved leave resets annually, whether or not a read ever materialized its
// row, so the allocation never depends on query history.
func (s *service) carriedForward(ctx context.Context, qtx Repository, lt *leavetype.LeaveType, employeeID uuid.UUID, year int) (int, error) {
	for i := 1; i <= s.lookback; i++ {
		row, err := qtx.Find(ctx, employeeID.String(), lt.ID.String(), year-i)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, err
		}
		if row.UsedDays == 0 {
			continue
		}
		if avail := row.Available(); avail > 0 {
			return avail, nil
		}
		return 0, nil
	}
	return 0, nil
}

func (s *service) runInTxWithRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxRetries; attempt++ {
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return tx.Error
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if IsRetryableTxError(err) {
				lastErr = err
				s.logger.Warn("balance transaction retry",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				continue
			}
			return err
		}

		if err := tx.Commit().Error; err != nil {
			if IsRetryableTxError(err) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}

	s.logger.Warn("balance transaction gave up after retries", zap.Error(lastErr))
	return balanceerrors.ErrBalanceContention
}

func (s *service) invalidateLocal(employeeID string, spans []YearDays) {
	if s.cache == nil {
		return
	}
	years := make([]int, 0, len(spans))
	for _, span := range spans {
		years = append(years, span.Year)
	}
	s.cache.Invalidate(context.Background(), employeeID, years...)
}
