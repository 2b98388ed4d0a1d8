package leavetypeerrors

import (
	"net/http"

	"go-leave-ledger/internal/shared/apperror"
)

var (
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"leave type name must not be empty",
		http.StatusBadRequest,
	)
	ErrNegativeAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"annual allocation cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidMaxConsecutive = apperror.New(
		apperror.CodeInvalidInput,
		"maximum consecutive days must be at least 1",
		http.StatusBadRequest,
	)
	ErrNegativeMinNotice = apperror.New(
		apperror.CodeInvalidInput,
		"minimum notice days cannot be negative",
		http.StatusBadRequest,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a leave type with this name already exists",
		http.StatusConflict,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeInUse = apperror.New(
		apperror.CodeConflict,
		"leave type is referenced by pending or upcoming approved applications",
		http.StatusConflict,
	)
)
