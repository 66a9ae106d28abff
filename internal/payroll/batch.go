package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/employee"
	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/tax"
)

// BatchGenerator creates one record per active employee per month. It
// is safe to re-run: existing (employee, month) records are skipped,
// and the unique index catches the race two concurrent runs would
// otherwise hit between the exists-check and the insert.
type BatchGenerator struct {
	payrolls  Repository
	employees employee.Repository
	computer  *Computer
	now       func() time.Time
}

func NewBatchGenerator(payrolls Repository, employees employee.Repository, computer *Computer) *BatchGenerator {
	return &BatchGenerator{
		payrolls:  payrolls,
		employees: employees,
		computer:  computer,
		now:       time.Now,
	}
}

// ProcessAllEmployees generates the month's records. Per-employee
// failures are logged and reported in the result counts; they never
// abort the run.
func (g *BatchGenerator) ProcessAllEmployees(ctx context.Context, month, processedBy string) (BatchResult, error) {
	start, end, err := ParseMonth(month)
	if err != nil {
		return BatchResult{}, err
	}

	processedByUUID, err := uuid.Parse(processedBy)
	if err != nil {
		return BatchResult{}, payrollerrors.ErrInvalidActorID
	}

	employees, err := g.employees.ListActiveWithGrade(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	log := contextutil.GetLogger(ctx, zap.L()).Named("payroll.batch")
	workingDays := WorkingDaysInMonth(start, end)
	result := BatchResult{Month: month, Total: len(employees)}

	for _, emp := range employees {
		exists, err := g.payrolls.ExistsForMonth(ctx, emp.ID.String(), month)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: emp.ID.String(), Reason: err.Error()})
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		record, err := g.buildBaseline(ctx, emp, month, start, end, workingDays, processedByUUID)
		if err != nil {
			log.Warn("build payroll baseline failed",
				zap.String("employee_id", emp.ID.String()),
				zap.String("month", month),
				zap.Error(err),
			)
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: emp.ID.String(), Reason: err.Error()})
			continue
		}

		if err := g.computer.Compute(ctx, record, g.now()); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: emp.ID.String(), Reason: err.Error()})
			continue
		}

		if err := g.payrolls.Create(ctx, record); err != nil {
			if IsUniqueViolation(err) {
				// A concurrent run got there first.
				result.Skipped++
				continue
			}
			log.Warn("save payroll record failed",
				zap.String("employee_id", emp.ID.String()),
				zap.String("month", month),
				zap.Error(err),
			)
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: emp.ID.String(), Reason: err.Error()})
			continue
		}

		result.Processed++
	}

	log.Info("payroll batch completed",
		zap.String("month", month),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// buildBaseline assembles the computation input for one employee from
// grade settings, approved overtime and full-month attendance. Actual
// attendance is adjusted later through record updates.
func (g *BatchGenerator) buildBaseline(
	ctx context.Context,
	emp employee.Employee,
	month string,
	start, end time.Time,
	workingDays int,
	processedBy uuid.UUID,
) (*Payroll, error) {
	grade := emp.Grade
	if grade == nil {
		return nil, payrollerrors.ErrEmployeeMissingGrade
	}

	record := &Payroll{
		ID:           uuid.New(),
		EmployeeID:   emp.ID,
		PayrollMonth: month,
		PeriodStart:  start,
		PeriodEnd:    end,
		WorkingDays:  workingDays,
		DaysWorked:   workingDays,
		Salary:       Salary{Base: grade.BaseSalary},
		Allowances: Allowances{
			Transport:     grade.TransportAllowance,
			Housing:       grade.HousingAllowance,
			Medical:       grade.MedicalAllowance,
			Meals:         grade.MealsAllowance,
			Communication: grade.CommunicationAllowance,
			Other:         grade.OtherAllowance,
		},
		Deductions: Deductions{
			Pension: PensionDeduction{Rate: grade.PensionRate},
			Loans:   LoanDeductionList{},
			Other:   OtherDeductionList{},
		},
		Adjustments:  AdjustmentList{},
		Currency:     grade.Currency,
		ExchangeRate: 1,
		Payment:      Payment{Status: PaymentStatusPending},
		Approvals: Approvals{
			HR:      Approval{Status: ApprovalStatusPending},
			Finance: Approval{Status: ApprovalStatusPending},
		},
		ProcessedBy: &processedBy,
		IsActive:    true,
	}
	if record.Currency == "" {
		record.Currency = tax.DefaultCurrency
	}

	overtime, err := g.employees.ApprovedOvertimeForMonth(ctx, emp.ID.String(), month)
	if err != nil {
		return nil, err
	}
	if overtime != nil {
		record.Overtime = Overtime{
			Hours: overtime.Hours,
			Rate:  overtime.HourlyRate,
			// Initial amount uses the grade multiplier; recomputation
			// replaces it with the fixed one (see compute.go).
			Amount: round2(overtime.Hours * overtime.HourlyRate * grade.OvertimeMultiplier),
		}
	}

	return record, nil
}

// CreateFromPreviousMonth clones last month's baseline into the new
// month, resetting everything that is period-specific: overtime,
// bonuses, other deductions, payment state and approvals. Loans and
// the pension rate carry over.
func (g *BatchGenerator) CreateFromPreviousMonth(ctx context.Context, month, processedBy string) (BatchResult, error) {
	start, end, err := ParseMonth(month)
	if err != nil {
		return BatchResult{}, err
	}

	processedByUUID, err := uuid.Parse(processedBy)
	if err != nil {
		return BatchResult{}, payrollerrors.ErrInvalidActorID
	}

	prevMonth, err := PreviousMonth(month)
	if err != nil {
		return BatchResult{}, err
	}

	previous, err := g.payrolls.FindAllByMonth(ctx, prevMonth)
	if err != nil {
		return BatchResult{}, err
	}
	if len(previous) == 0 {
		return BatchResult{}, payrollerrors.ErrNoPreviousMonthRecords
	}

	log := contextutil.GetLogger(ctx, zap.L()).Named("payroll.batch")
	workingDays := WorkingDaysInMonth(start, end)
	result := BatchResult{Month: month, Total: len(previous)}

	for _, prev := range previous {
		exists, err := g.payrolls.ExistsForMonth(ctx, prev.EmployeeID.String(), month)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: prev.EmployeeID.String(), Reason: err.Error()})
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		record := &Payroll{
			ID:           uuid.New(),
			EmployeeID:   prev.EmployeeID,
			PayrollMonth: month,
			PeriodStart:  start,
			PeriodEnd:    end,
			WorkingDays:  workingDays,
			DaysWorked:   workingDays,
			Salary:       Salary{Base: prev.Salary.Base},
			Allowances: Allowances{
				Transport:     prev.Allowances.Transport,
				Housing:       prev.Allowances.Housing,
				Medical:       prev.Allowances.Medical,
				Meals:         prev.Allowances.Meals,
				Communication: prev.Allowances.Communication,
				Other:         prev.Allowances.Other,
			},
			Deductions: Deductions{
				Pension: PensionDeduction{Rate: prev.Deductions.Pension.Rate},
				Loans:   append(LoanDeductionList{}, prev.Deductions.Loans...),
				Other:   OtherDeductionList{},
			},
			Adjustments:  AdjustmentList{},
			Currency:     prev.Currency,
			ExchangeRate: prev.ExchangeRate,
			Payment:      Payment{Status: PaymentStatusPending},
			Approvals: Approvals{
				HR:      Approval{Status: ApprovalStatusPending},
				Finance: Approval{Status: ApprovalStatusPending},
			},
			ProcessedBy: &processedByUUID,
			IsActive:    true,
		}

		if err := g.computer.Compute(ctx, record, g.now()); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: prev.EmployeeID.String(), Reason: err.Error()})
			continue
		}

		if err := g.payrolls.Create(ctx, record); err != nil {
			if IsUniqueViolation(err) {
				result.Skipped++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, BatchError{EmployeeID: prev.EmployeeID.String(), Reason: err.Error()})
			continue
		}

		result.Processed++
	}

	log.Info("payroll clone from previous month completed",
		zap.String("month", month),
		zap.String("source_month", prevMonth),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
