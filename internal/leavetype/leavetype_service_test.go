package leavetype_test

import (
	"context"
	"testing"
	"time"

	"go-leave-ledger/internal/leavetype"
	leavetypeerrors "go-leave-ledger/internal/leavetype/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	createFn                func(ctx context.Context, lt *leavetype.LeaveType) error
	findAllFn               func(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error)
	findByIDFn              func(ctx context.Context, id string) (*leavetype.LeaveType, error)
	updateFn                func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteFn                func(ctx context.Context, id string) error
	countOpenApplicationsFn func(ctx context.Context, id string, today time.Time) (int64, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *gorm.DB) leavetype.Repository { return f }

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]leavetype.LeaveType, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, activeOnly)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) CountOpenApplications(ctx context.Context, id string, today time.Time) (int64, error) {
	if f.countOpenApplicationsFn != nil {
		return f.countOpenApplicationsFn(ctx, id, today)
	}
	return 0, nil
}

type leaveTypeServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *fakeLeaveTypeRepository
	service leavetype.Service
}

func setupLeaveTypeServiceTest(t *testing.T) *leaveTypeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	repo := &fakeLeaveTypeRepository{}
	svc := leavetype.NewService(gormDB, repo)

	return &leaveTypeServiceDeps{sqlMock: sqlMock, repo: repo, service: svc}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestLeaveTypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success with defaults", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		var created *leavetype.LeaveType
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			created = lt
			return nil
		}

		resp, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:             "Annual Leave",
			AnnualAllocation: intPtr(20),
		})
		assert.NoError(t, err)
		assert.Equal(t, "Annual Leave", resp.Name)
		assert.Equal(t, 20, resp.AnnualAllocation)
		assert.Equal(t, 7, resp.MaxConsecutiveDays)
		assert.True(t, resp.IsActive)
		assert.NotNil(t, created)
	})

	t.Run("negative blank name", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		_, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:             "   ",
			AnnualAllocation: intPtr(20),
		})
		assert.ErrorIs(t, err, leavetypeerrors.ErrNameRequired)
	})

	t.Run("negative allocation below zero", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		_, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:             "Sick Leave",
			AnnualAllocation: intPtr(-1),
		})
		assert.ErrorIs(t, err, leavetypeerrors.ErrNegativeAllocation)
	})

	t.Run("zero allocation is allowed", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		resp, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:             "Unpaid Leave",
			AnnualAllocation: intPtr(0),
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, resp.AnnualAllocation)
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			return &pgconnUniqueError{}
		}

		_, err := deps.service.Create(ctx, leavetype.CreateLeaveTypeRequest{
			Name:             "Annual Leave",
			AnnualAllocation: intPtr(20),
		})
		assert.Error(t, err)
	})
}

// pgconnUniqueError stands in for a driver-level duplicate key failure that
// IsUniqueNameViolation does not recognize; the service must pass it through.
type pgconnUniqueError struct{}

func (e *pgconnUniqueError) Error() string { return "duplicate key value" }

func TestLeaveTypeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	existing := func() *leavetype.LeaveType {
		return &leavetype.LeaveType{
			ID:                 id,
			Name:               "Annual Leave",
			AnnualAllocation:   20,
			MaxConsecutiveDays: 7,
			MinNoticeDays:      1,
			IsActive:           true,
		}
	}

	t.Run("success partial update", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, _ string) (*leavetype.LeaveType, error) {
			return existing(), nil
		}

		resp, err := deps.service.Update(ctx, id.String(), leavetype.UpdateLeaveTypeRequest{
			AnnualAllocation: intPtr(25),
			IsActive:         boolPtr(false),
		})
		assert.NoError(t, err)
		assert.Equal(t, 25, resp.AnnualAllocation)
		assert.False(t, resp.IsActive)
		// Untouched fields survive.
		assert.Equal(t, "Annual Leave", resp.Name)
		assert.Equal(t, 7, resp.MaxConsecutiveDays)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		_, err := deps.service.Update(ctx, "nope", leavetype.UpdateLeaveTypeRequest{})
		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidLeaveTypeID)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		_, err := deps.service.Update(ctx, id.String(), leavetype.UpdateLeaveTypeRequest{})
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})

	t.Run("negative max consecutive below one", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, _ string) (*leavetype.LeaveType, error) {
			return existing(), nil
		}

		_, err := deps.service.Update(ctx, id.String(), leavetype.UpdateLeaveTypeRequest{
			MaxConsecutiveDays: intPtr(0),
		})
		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidMaxConsecutive)
	})
}

func TestLeaveTypeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, _ string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, Name: "Annual Leave"}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		err := deps.service.Delete(ctx, id.String())
		assert.NoError(t, err)
	})

	t.Run("negative blocked by open applications", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		deps.repo.findByIDFn = func(ctx context.Context, _ string) (*leavetype.LeaveType, error) {
			return &leavetype.LeaveType{ID: id, Name: "Annual Leave"}, nil
		}
		deps.repo.countOpenApplicationsFn = func(ctx context.Context, _ string, _ time.Time) (int64, error) {
			return 2, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		err := deps.service.Delete(ctx, id.String())
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeInUse)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		err := deps.service.Delete(ctx, id.String())
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	})
}
