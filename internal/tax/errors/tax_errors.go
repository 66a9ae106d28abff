package taxerrors

import (
	"net/http"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"max_amount must be greater than min_amount",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"tax_rate must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrBracketNotFound = apperror.New(
		apperror.CodeNotFound,
		"tax bracket not found",
		http.StatusNotFound,
	)
)
