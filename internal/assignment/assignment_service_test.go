package assignment_test

import (
	"context"
	"testing"
	"time"

	"go-leave-ledger/internal/assignment"
	assignmenterrors "go-leave-ledger/internal/assignment/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeAssignmentRepository struct {
	createFn             func(ctx context.Context, a *assignment.Assignment) error
	findByIDFn           func(ctx context.Context, id string) (*assignment.Assignment, error)
	findByIDForUpdateFn  func(ctx context.Context, id string) (*assignment.Assignment, error)
	findOpenByEmployeeFn func(ctx context.Context, employeeID string) (*assignment.Assignment, error)
	listByEmployeeFn     func(ctx context.Context, employeeID string) ([]assignment.Assignment, error)
	listByJobFn          func(ctx context.Context, jobID string) ([]assignment.Assignment, error)
	updateFn             func(ctx context.Context, a *assignment.Assignment) error
	employeeByIDFn       func(ctx context.Context, id string) (*assignment.EmployeeRef, error)
	deactivateEmployeeFn func(ctx context.Context, id string, resignationDate time.Time) error
	jobByIDFn            func(ctx context.Context, id string) (*assignment.JobRef, error)
}

func (f *fakeAssignmentRepository) WithTx(tx *gorm.DB) assignment.Repository { return f }

func (f *fakeAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAssignmentRepository) FindByID(ctx context.Context, id string) (*assignment.Assignment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepository) FindByIDForUpdate(ctx context.Context, id string) (*assignment.Assignment, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepository) FindOpenByEmployee(ctx context.Context, employeeID string) (*assignment.Assignment, error) {
	if f.findOpenByEmployeeFn != nil {
		return f.findOpenByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]assignment.Assignment, error) {
	if f.listByEmployeeFn != nil {
		return f.listByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeAssignmentRepository) ListByJob(ctx context.Context, jobID string) ([]assignment.Assignment, error) {
	if f.listByJobFn != nil {
		return f.listByJobFn(ctx, jobID)
	}
	return nil, nil
}

func (f *fakeAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAssignmentRepository) EmployeeByID(ctx context.Context, id string) (*assignment.EmployeeRef, error) {
	if f.employeeByIDFn != nil {
		return f.employeeByIDFn(ctx, id)
	}
	return &assignment.EmployeeRef{ID: id, IsActive: true}, nil
}

func (f *fakeAssignmentRepository) DeactivateEmployee(ctx context.Context, id string, resignationDate time.Time) error {
	if f.deactivateEmployeeFn != nil {
		return f.deactivateEmployeeFn(ctx, id, resignationDate)
	}
	return nil
}

func (f *fakeAssignmentRepository) JobByID(ctx context.Context, id string) (*assignment.JobRef, error) {
	if f.jobByIDFn != nil {
		return f.jobByIDFn(ctx, id)
	}
	return &assignment.JobRef{
		ID:        id,
		Title:     "Software Engineer",
		MinSalary: decimal.NewFromInt(3000),
		MaxSalary: decimal.NewFromInt(9000),
		IsActive:  true,
	}, nil
}

type assignmentServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *fakeAssignmentRepository
	service assignment.Service
}

func setupAssignmentServiceTest(t *testing.T) *assignmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	repo := &fakeAssignmentRepository{}
	svc := assignment.NewService(gormDB, repo)

	return &assignmentServiceDeps{sqlMock: sqlMock, repo: repo, service: svc}
}

func TestAssignmentService_Assign(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	jobID := uuid.New()

	baseRequest := func() assignment.AssignRequest {
		return assignment.AssignRequest{
			EmployeeID: employeeID.String(),
			JobID:      jobID.String(),
			Salary:     "5000.00",
			StartDate:  "2026-01-01",
		}
	}

	t.Run("success first assignment", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)

		var created *assignment.Assignment
		deps.repo.createFn = func(ctx context.Context, a *assignment.Assignment) error {
			created = a
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Assign(ctx, baseRequest())
		assert.NoError(t, err)
		assert.Equal(t, "5000.00", resp.Salary)
		assert.Nil(t, resp.EndDate)
		assert.NotNil(t, created)
	})

	t.Run("success closes previous open assignment", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)

		prev := &assignment.Assignment{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			JobID:      uuid.New(),
			Salary:     decimal.NewFromInt(4000),
			StartDate:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		}
		deps.repo.findOpenByEmployeeFn = func(ctx context.Context, _ string) (*assignment.Assignment, error) {
			return prev, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.Assign(ctx, baseRequest())
		assert.NoError(t, err)
		assert.NotNil(t, prev.EndDate)
		assert.Equal(t, "2025-12-31", prev.EndDate.Format("2006-01-02"))
	})

	t.Run("negative open assignment starting later", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)

		deps.repo.findOpenByEmployeeFn = func(ctx context.Context, _ string) (*assignment.Assignment, error) {
			return &assignment.Assignment{
				ID:        uuid.New(),
				StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Assign(ctx, baseRequest())
		assert.ErrorIs(t, err, assignmenterrors.ErrAlreadyAssigned)
	})

	t.Run("negative salary below job range", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)

		req := baseRequest()
		req.Salary = "1000"

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Assign(ctx, req)
		assert.ErrorIs(t, err, assignmenterrors.ErrSalaryOutOfRange)
	})

	t.Run("negative malformed salary", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)

		req := baseRequest()
		req.Salary = "lots"

		_, err := deps.service.Assign(ctx, req)
		assert.ErrorIs(t, err, assignmenterrors.ErrInvalidSalary)
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		deps.repo.employeeByIDFn = func(ctx context.Context, id string) (*assignment.EmployeeRef, error) {
			return nil, gorm.ErrRecordNotFound
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Assign(ctx, baseRequest())
		assert.ErrorIs(t, err, assignmenterrors.ErrEmployeeNotFound)
	})

	t.Run("negative inactive employee", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		deps.repo.employeeByIDFn = func(ctx context.Context, id string) (*assignment.EmployeeRef, error) {
			return &assignment.EmployeeRef{ID: id, IsActive: false}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Assign(ctx, baseRequest())
		assert.ErrorIs(t, err, assignmenterrors.ErrEmployeeInactive)
	})

	t.Run("negative inactive job", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		deps.repo.jobByIDFn = func(ctx context.Context, id string) (*assignment.JobRef, error) {
			return &assignment.JobRef{ID: id, Title: "Software Engineer", IsActive: false}, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Assign(ctx, baseRequest())
		assert.ErrorIs(t, err, assignmenterrors.ErrJobInactive)
	})
}

func TestAssignmentService_Terminate(t *testing.T) {
	ctx := context.Background()
	assignmentID := uuid.New()

	openAssignment := func() *assignment.Assignment {
		return &assignment.Assignment{
			ID:         assignmentID,
			EmployeeID: uuid.New(),
			JobID:      uuid.New(),
			Salary:     decimal.NewFromInt(5000),
			StartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*assignment.Assignment, error) {
			return openAssignment(), nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Terminate(ctx, assignmentID.String(), assignment.TerminateRequest{EndDate: "2026-03-31"})
		assert.NoError(t, err)
		assert.NotNil(t, resp.EndDate)
		assert.Equal(t, "2026-03-31", *resp.EndDate)
	})

	t.Run("success deactivating employee", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*assignment.Assignment, error) {
			return openAssignment(), nil
		}

		var deactivatedID string
		var resignedOn time.Time
		deps.repo.deactivateEmployeeFn = func(ctx context.Context, id string, resignationDate time.Time) error {
			deactivatedID = id
			resignedOn = resignationDate
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Terminate(ctx, assignmentID.String(), assignment.TerminateRequest{
			EndDate:            "2026-03-31",
			DeactivateEmployee: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, resp.EmployeeID, deactivatedID)
		assert.Equal(t, "2026-03-31", resignedOn.Format("2006-01-02"))
	})

	t.Run("negative already terminated", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		a := openAssignment()
		ended := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
		a.EndDate = &ended
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*assignment.Assignment, error) {
			return a, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Terminate(ctx, assignmentID.String(), assignment.TerminateRequest{EndDate: "2026-03-31"})
		assert.ErrorIs(t, err, assignmenterrors.ErrAlreadyTerminated)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*assignment.Assignment, error) {
			return openAssignment(), nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Terminate(ctx, assignmentID.String(), assignment.TerminateRequest{EndDate: "2024-12-31"})
		assert.ErrorIs(t, err, assignmenterrors.ErrEndBeforeStart)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Terminate(ctx, uuid.NewString(), assignment.TerminateRequest{EndDate: "2026-03-31"})
		assert.ErrorIs(t, err, assignmenterrors.ErrAssignmentNotFound)
	})
}
