package payroll

import (
	"time"

	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
)

// ParseMonth validates the YYYY-MM payroll month key and returns the
// first and last calendar day of that month.
func ParseMonth(month string) (start, end time.Time, err error) {
	t, parseErr := time.Parse("2006-01", month)
	if parseErr != nil {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidMonthFormat
	}

	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end, nil
}

// WorkingDaysInMonth counts Monday through Friday inclusive. No
// holiday calendar is applied.
func WorkingDaysInMonth(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days++
		}
	}
	return days
}

func PreviousMonth(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", payrollerrors.ErrInvalidMonthFormat
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), nil
}
