package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// The list types below are stored as single jsonb columns, mirroring
// the embedded-document shape of the source data they were migrated
// from.

type LoanDeduction struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	LoanRef string  `json:"loan_ref,omitempty"`
}

type LoanDeductionList []LoanDeduction

type OtherDeduction struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type OtherDeductionList []OtherDeduction

type DurationDetails struct {
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	NumberOfMonths int        `json:"number_of_months,omitempty"`
}

type AdjustmentChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// Adjustment is an append-only audit entry. Entries are never edited
// or removed once attached to a record.
type Adjustment struct {
	Type            string             `json:"type"`
	Category        string             `json:"category,omitempty"`
	Duration        string             `json:"duration"`
	DurationDetails DurationDetails    `json:"duration_details"`
	Amount          float64            `json:"amount"`
	Reason          string             `json:"reason,omitempty"`
	AppliedBy       string             `json:"applied_by"`
	AppliedAt       time.Time          `json:"applied_at"`
	Changes         []AdjustmentChange `json:"changes,omitempty"`
}

// InEffect reports whether the adjustment alters net pay at the given
// instant. Temporary adjustments are scoped to the record they are
// attached to, so they always apply; permanent ones only apply inside
// their date window.
func (a Adjustment) InEffect(now time.Time) bool {
	if a.Duration != AdjustmentDurationPermanent {
		return true
	}
	if a.DurationDetails.StartDate != nil && now.Before(*a.DurationDetails.StartDate) {
		return false
	}
	if a.DurationDetails.EndDate != nil && now.After(*a.DurationDetails.EndDate) {
		return false
	}
	return true
}

type AdjustmentList []Adjustment

func (l AdjustmentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *AdjustmentList) Scan(value any) error {
	return scanJSONList(value, l)
}

func (l LoanDeductionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *LoanDeductionList) Scan(value any) error {
	return scanJSONList(value, l)
}

func (l OtherDeductionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *OtherDeductionList) Scan(value any) error {
	return scanJSONList(value, l)
}

func scanJSONList(value, target any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return errors.New("unsupported jsonb scan source")
	}
}
