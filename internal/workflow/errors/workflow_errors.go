package workflowerrors

import (
	"net/http"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/apperror"
)

var (
	ErrInvalidMonthFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll month, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver id",
		http.StatusBadRequest,
	)
	ErrWorkflowExists = apperror.New(
		apperror.CodeConflict,
		"a workflow already exists for this month",
		http.StatusConflict,
	)
	ErrWorkflowNotFound = apperror.New(
		apperror.CodeNotFound,
		"no workflow found for this month",
		http.StatusNotFound,
	)
	ErrWorkflowClosed = apperror.New(
		apperror.CodeInvalidState,
		"workflow is already completed or rejected",
		http.StatusBadRequest,
	)
	ErrNoPendingApproval = apperror.New(
		apperror.CodeInvalidState,
		"no pending approval for this user",
		http.StatusBadRequest,
	)
)
