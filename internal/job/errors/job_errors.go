package joberrors

import (
	"net/http"

	"go-leave-ledger/internal/shared/apperror"
)

var (
	ErrInvalidJobID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid job id",
		http.StatusBadRequest,
	)
	ErrTitleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"job title must not be empty",
		http.StatusBadRequest,
	)
	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"salary must be a non-negative decimal amount",
		http.StatusBadRequest,
	)
	ErrSalaryRange = apperror.New(
		apperror.CodeInvalidInput,
		"minimum salary cannot exceed maximum salary",
		http.StatusBadRequest,
	)
	ErrDuplicateTitle = apperror.New(
		apperror.CodeConflict,
		"a job with this title already exists",
		http.StatusConflict,
	)
	ErrJobNotFound = apperror.New(
		apperror.CodeNotFound,
		"job not found",
		http.StatusNotFound,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"department does not exist",
		http.StatusBadRequest,
	)
	ErrJobInUse = apperror.New(
		apperror.CodeConflict,
		"job still has active assignments",
		http.StatusConflict,
	)
)
