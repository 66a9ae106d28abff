package payroll

import (
	"time"

	"github.com/google/uuid"
)

// Payment status lifecycle. "approved" is forced by the month workflow
// completing; "paid" is terminal.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusPaid     = "paid"
)

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

const (
	AdjustmentTypeAddition   = "addition"
	AdjustmentTypeDeduction  = "deduction"
	AdjustmentTypeAdjustment = "adjustment"

	AdjustmentDurationTemporary = "temporary"
	AdjustmentDurationPermanent = "permanent"
)

type Salary struct {
	Base     float64 `gorm:"column:base_salary;type:numeric(18,2);not null;default:0" json:"base"`
	Prorated float64 `gorm:"column:prorated_salary;type:numeric(18,2);not null;default:0" json:"prorated"`
}

type Allowances struct {
	Transport     float64 `gorm:"type:numeric(18,2);not null;default:0" json:"transport"`
	Housing       float64 `gorm:"type:numeric(18,2);not null;default:0" json:"housing"`
	Medical       float64 `gorm:"type:numeric(18,2);not null;default:0" json:"medical"`
	Meals         float64 `gorm:"type:numeric(18,2);not null;default:0" json:"meals"`
	Communication float64 `gorm:"type:numeric(18,2);not null;default:0" json:"communication"`
	Other         float64 `gorm:"type:numeric(18,2);not null;default:0" json:"other"`
	Total         float64 `gorm:"type:numeric(18,2);not null;default:0" json:"total"`
}

type Overtime struct {
	Hours  float64 `gorm:"type:numeric(8,2);not null;default:0" json:"hours"`
	Rate   float64 `gorm:"type:numeric(18,2);not null;default:0" json:"rate"`
	Amount float64 `gorm:"type:numeric(18,2);not null;default:0" json:"amount"`
}

type Bonuses struct {
	Performance float64 `gorm:"type:numeric(18,2);not null;default:0" json:"performance"`
	Annual      float64 `gorm:"type:numeric(18,2);not null;default:0" json:"annual"`
	Other       float64 `gorm:"type:numeric(18,2);not null;default:0" json:"other"`
	Total       float64 `gorm:"type:numeric(18,2);not null;default:0" json:"total"`
}

type TaxDeduction struct {
	Rate   float64 `gorm:"type:numeric(5,2);not null;default:0" json:"rate"`
	Amount float64 `gorm:"type:numeric(18,2);not null;default:0" json:"amount"`
}

type PensionDeduction struct {
	Rate   float64 `gorm:"type:numeric(5,2);not null;default:0" json:"rate"`
	Amount float64 `gorm:"type:numeric(18,2);not null;default:0" json:"amount"`
}

type Deductions struct {
	Tax     TaxDeduction       `gorm:"embedded;embeddedPrefix:tax_" json:"tax"`
	Pension PensionDeduction   `gorm:"embedded;embeddedPrefix:pension_" json:"pension"`
	Loans   LoanDeductionList  `gorm:"type:jsonb" json:"loans"`
	Other   OtherDeductionList `gorm:"type:jsonb" json:"other"`
	Total   float64            `gorm:"type:numeric(18,2);not null;default:0" json:"total"`
}

// Approval is one party's decision on a record. By and At stay nil
// while the decision is pending.
type Approval struct {
	Status string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	By     *uuid.UUID `gorm:"type:uuid" json:"by,omitempty"`
	At     *time.Time `json:"at,omitempty"`
	Notes  string     `gorm:"type:text" json:"notes,omitempty"`
}

type Approvals struct {
	HR      Approval `gorm:"embedded;embeddedPrefix:hr_" json:"hr"`
	Finance Approval `gorm:"embedded;embeddedPrefix:finance_" json:"finance"`
}

type Payment struct {
	Status    string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Method    string     `gorm:"type:varchar(30)" json:"method,omitempty"`
	Reference string     `gorm:"type:varchar(120)" json:"reference,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	BatchID   string     `gorm:"type:varchar(60);index" json:"batch_id,omitempty"`
}

type Payslip struct {
	Generated   bool       `gorm:"not null;default:false" json:"generated"`
	Path        string     `gorm:"type:varchar(255)" json:"path,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// Payroll is the persisted record, unique per (employee, month). The
// computed columns (prorated salary, totals, gross, deductions, net)
// are always a pure function of the stored inputs: every save path
// runs the Computer first.
type Payroll struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_month,unique" json:"employee_id"`
	PayrollMonth string    `gorm:"type:varchar(7);not null;index:idx_employee_month,unique;index" json:"payroll_month"`

	PeriodStart time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date;not null" json:"period_end"`
	WorkingDays int       `gorm:"not null;default:0" json:"working_days"`
	DaysWorked  int       `gorm:"not null;default:0" json:"days_worked"`

	Salary     Salary     `gorm:"embedded" json:"salary"`
	Allowances Allowances `gorm:"embedded;embeddedPrefix:allowance_" json:"allowances"`
	Overtime   Overtime   `gorm:"embedded;embeddedPrefix:overtime_" json:"overtime"`
	Bonuses    Bonuses    `gorm:"embedded;embeddedPrefix:bonus_" json:"bonuses"`

	GrossPay   float64    `gorm:"type:numeric(18,2);not null;default:0" json:"gross_pay"`
	Deductions Deductions `gorm:"embedded;embeddedPrefix:deduction_" json:"deductions"`
	NetPay     float64    `gorm:"type:numeric(18,2);not null;default:0" json:"net_pay"`

	Currency     string  `gorm:"type:varchar(3);not null;default:'MWK'" json:"currency"`
	ExchangeRate float64 `gorm:"type:numeric(12,6);not null;default:1" json:"exchange_rate"`

	Adjustments AdjustmentList `gorm:"type:jsonb" json:"adjustments"`

	Payment   Payment   `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Approvals Approvals `gorm:"embedded;embeddedPrefix:approval_" json:"approvals"`
	Payslip   Payslip   `gorm:"embedded;embeddedPrefix:payslip_" json:"payslip"`

	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`

	// Version backs the optimistic write guard in the repository so
	// two concurrent recomputations cannot interleave their outputs.
	Version int `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payroll) TableName() string { return "payrolls" }

// ApprovalStatus derives the record-level gate from the two parties:
// a single rejection rejects the record, both approvals approve it,
// anything else is still pending.
func (p *Payroll) ApprovalStatus() string {
	if p.Approvals.HR.Status == ApprovalStatusRejected || p.Approvals.Finance.Status == ApprovalStatusRejected {
		return ApprovalStatusRejected
	}
	if p.Approvals.HR.Status == ApprovalStatusApproved && p.Approvals.Finance.Status == ApprovalStatusApproved {
		return ApprovalStatusApproved
	}
	return ApprovalStatusPending
}

func (p *Payroll) IsPaid() bool {
	return p.Payment.Status == PaymentStatusPaid
}
