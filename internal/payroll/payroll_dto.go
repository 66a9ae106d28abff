package payroll

import "time"

type AllowancesInput struct {
	Transport     float64 `json:"transport" binding:"min=0"`
	Housing       float64 `json:"housing" binding:"min=0"`
	Medical       float64 `json:"medical" binding:"min=0"`
	Meals         float64 `json:"meals" binding:"min=0"`
	Communication float64 `json:"communication" binding:"min=0"`
	Other         float64 `json:"other" binding:"min=0"`
}

type OvertimeInput struct {
	Hours float64 `json:"hours" binding:"min=0"`
	Rate  float64 `json:"rate" binding:"min=0"`
}

type BonusesInput struct {
	Performance float64 `json:"performance" binding:"min=0"`
	Annual      float64 `json:"annual" binding:"min=0"`
	Other       float64 `json:"other" binding:"min=0"`
}

type LoanDeductionInput struct {
	Name    string  `json:"name" binding:"required"`
	Amount  float64 `json:"amount" binding:"min=0"`
	LoanRef string  `json:"loan_ref"`
}

type OtherDeductionInput struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"min=0"`
}

type CreatePayrollRequest struct {
	EmployeeID   string                `json:"employee_id" binding:"required,uuid"`
	PayrollMonth string                `json:"payroll_month" binding:"required"`
	WorkingDays  int                   `json:"working_days" binding:"required,gt=0"`
	DaysWorked   int                   `json:"days_worked" binding:"min=0"`
	BaseSalary   float64               `json:"base_salary" binding:"min=0"`
	Allowances   AllowancesInput       `json:"allowances"`
	Overtime     OvertimeInput         `json:"overtime"`
	Bonuses      BonusesInput          `json:"bonuses"`
	PensionRate  float64               `json:"pension_rate" binding:"min=0,max=100"`
	Loans        []LoanDeductionInput  `json:"loans"`
	Other        []OtherDeductionInput `json:"other_deductions"`
	Currency     string                `json:"currency"`
	ExchangeRate float64               `json:"exchange_rate"`
}

type UpdatePayrollRequest struct {
	DaysWorked  int                   `json:"days_worked" binding:"min=0"`
	BaseSalary  float64               `json:"base_salary" binding:"min=0"`
	Allowances  AllowancesInput       `json:"allowances"`
	Overtime    OvertimeInput         `json:"overtime"`
	Bonuses     BonusesInput          `json:"bonuses"`
	PensionRate float64               `json:"pension_rate" binding:"min=0,max=100"`
	Loans       []LoanDeductionInput  `json:"loans"`
	Other       []OtherDeductionInput `json:"other_deductions"`
}

type AdjustmentRequest struct {
	Type           string  `json:"type" binding:"required,oneof=addition deduction adjustment"`
	Category       string  `json:"category"`
	Duration       string  `json:"duration" binding:"required,oneof=temporary permanent"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	NumberOfMonths int     `json:"number_of_months" binding:"min=0"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Reason         string  `json:"reason"`
}

type ApprovalDecisionRequest struct {
	Party    string `json:"party" binding:"required,oneof=hr finance"`
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Notes    string `json:"notes"`
}

type MarkPaidRequest struct {
	Reference string `json:"reference" binding:"required"`
	Method    string `json:"method" binding:"required"`
	BatchID   string `json:"batch_id"`
}

type BatchPaymentRequest struct {
	BatchID string `json:"batch_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
}

type GenerateBatchRequest struct {
	Month string `json:"month" binding:"required"`
}

type PayrollResponse struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employee_id"`
	PayrollMonth string         `json:"payroll_month"`
	PeriodStart  string         `json:"period_start"`
	PeriodEnd    string         `json:"period_end"`
	WorkingDays  int            `json:"working_days"`
	DaysWorked   int            `json:"days_worked"`
	Salary       Salary         `json:"salary"`
	Allowances   Allowances     `json:"allowances"`
	Overtime     Overtime       `json:"overtime"`
	Bonuses      Bonuses        `json:"bonuses"`
	GrossPay     float64        `json:"gross_pay"`
	Deductions   Deductions     `json:"deductions"`
	NetPay       float64        `json:"net_pay"`
	Currency     string         `json:"currency"`
	ExchangeRate float64        `json:"exchange_rate"`
	Adjustments  AdjustmentList `json:"adjustments"`
	Payment      Payment        `json:"payment"`
	Approvals    Approvals      `json:"approvals"`
	Status       string         `json:"approval_status"`
	Payslip      Payslip        `json:"payslip"`
}

type BatchError struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// BatchResult reports a best-effort generation run. Failed employees
// are listed but never abort the batch.
type BatchResult struct {
	Month     string       `json:"month"`
	Processed int          `json:"processed"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Total     int          `json:"total"`
	Errors    []BatchError `json:"errors,omitempty"`
}

type PaymentFailure struct {
	PayrollID string `json:"payroll_id"`
	Reason    string `json:"reason"`
}

type BatchPaymentResult struct {
	Month       string           `json:"month"`
	BatchID     string           `json:"batch_id"`
	Paid        int              `json:"paid"`
	Failed      int              `json:"failed"`
	TotalAmount float64          `json:"total_amount"`
	PaidAt      time.Time        `json:"paid_at"`
	Failures    []PaymentFailure `json:"failures,omitempty"`
}

func mapPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:           p.ID.String(),
		EmployeeID:   p.EmployeeID.String(),
		PayrollMonth: p.PayrollMonth,
		PeriodStart:  p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    p.PeriodEnd.Format("2006-01-02"),
		WorkingDays:  p.WorkingDays,
		DaysWorked:   p.DaysWorked,
		Salary:       p.Salary,
		Allowances:   p.Allowances,
		Overtime:     p.Overtime,
		Bonuses:      p.Bonuses,
		GrossPay:     p.GrossPay,
		Deductions:   p.Deductions,
		NetPay:       p.NetPay,
		Currency:     p.Currency,
		ExchangeRate: p.ExchangeRate,
		Adjustments:  p.Adjustments,
		Payment:      p.Payment,
		Approvals:    p.Approvals,
		Status:       p.ApprovalStatus(),
		Payslip:      p.Payslip,
	}
}

func mapPayrollListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapPayrollResponse(p)
	}
	return resp
}
