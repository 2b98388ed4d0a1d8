package employeeerrors

import (
	"net/http"

	"go-leave-ledger/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrHireDateInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"hire_date cannot be in the future",
		http.StatusBadRequest,
	)
	ErrInvalidResignationDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid resignation_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrResignationBeforeHire = apperror.New(
		apperror.CodeInvalidInput,
		"resignation_date cannot be before hire_date",
		http.StatusBadRequest,
	)
	ErrDuplicateEmail = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists",
		http.StatusConflict,
	)
	ErrDuplicateNumber = apperror.New(
		apperror.CodeConflict,
		"an employee with this employee number already exists",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"department does not exist",
		http.StatusBadRequest,
	)
	ErrEmployeeHasOpenLeaves = apperror.New(
		apperror.CodeConflict,
		"employee still has pending or upcoming approved leave applications",
		http.StatusConflict,
	)
)
