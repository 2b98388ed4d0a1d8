package assignmenterrors

import (
	"net/http"

	"go-leave-ledger/internal/shared/apperror"
)

var (
	ErrInvalidAssignmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignment id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"salary must be a positive decimal amount",
		http.StatusBadRequest,
	)
	ErrSalaryOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"salary falls outside the job's salary range",
		http.StatusBadRequest,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidInput,
		"cannot assign a job to an inactive employee",
		http.StatusBadRequest,
	)
	ErrJobInactive = apperror.New(
		apperror.CodeInvalidInput,
		"cannot assign an inactive job",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrJobNotFound = apperror.New(
		apperror.CodeNotFound,
		"job not found",
		http.StatusNotFound,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"assignment not found",
		http.StatusNotFound,
	)
	ErrAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"employee already has an open assignment",
		http.StatusConflict,
	)
	ErrAlreadyTerminated = apperror.New(
		apperror.CodeInvalidState,
		"assignment is already terminated",
		http.StatusConflict,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end date cannot be before the assignment start date",
		http.StatusBadRequest,
	)
)
