package payrollerrors

import (
	"net/http"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidMonthFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll month, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"working_days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrDaysWorkedExceedsWorking = apperror.New(
		apperror.CodeInvalidInput,
		"days_worked cannot exceed working_days",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustment = apperror.New(
		apperror.CodeInvalidInput,
		"invalid adjustment payload",
		http.StatusBadRequest,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrEmployeeMissingGrade = apperror.New(
		apperror.CodeInvalidState,
		"employee has no grade assigned",
		http.StatusBadRequest,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"payroll record was modified concurrently",
		http.StatusConflict,
	)
	ErrPayrollExists = apperror.New(
		apperror.CodeConflict,
		"payroll record already exists for this employee and month",
		http.StatusConflict,
	)
	ErrUpdatePaidRecord = apperror.New(
		apperror.CodeInvalidState,
		"Cannot update paid payroll records",
		http.StatusBadRequest,
	)
	ErrAdjustPaidRecord = apperror.New(
		apperror.CodeInvalidState,
		"Cannot adjust paid payroll records",
		http.StatusBadRequest,
	)
	ErrApprovalNotPending = apperror.New(
		apperror.CodeInvalidState,
		"approval has already been decided for this party",
		http.StatusBadRequest,
	)
	ErrInvalidApprovalParty = apperror.New(
		apperror.CodeInvalidInput,
		"approval party must be hr or finance",
		http.StatusBadRequest,
	)
	ErrPartyRoleMismatch = apperror.New(
		apperror.CodeForbidden,
		"caller's role cannot decide for this approval party",
		http.StatusForbidden,
	)
	ErrNotApprovedForPayment = apperror.New(
		apperror.CodeInvalidState,
		"payroll record must be approved by HR and Finance before payment",
		http.StatusBadRequest,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payroll record has already been paid",
		http.StatusBadRequest,
	)
	ErrNoPreviousMonthRecords = apperror.New(
		apperror.CodeNotFound,
		"no payroll records found for the previous month",
		http.StatusNotFound,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"payslip is not generated yet",
		http.StatusNotFound,
	)
)
