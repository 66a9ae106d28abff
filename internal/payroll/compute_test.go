package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll"
	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/tax"
)

// emptyBracketRepo forces the resolver onto its built-in table, which
// is what a fresh deployment computes with.
type emptyBracketRepo struct{}

func (emptyBracketRepo) Create(ctx context.Context, bracket *tax.TaxBracket) error { return nil }
func (emptyBracketRepo) FindAll(ctx context.Context, country, currency string) ([]tax.TaxBracket, error) {
	return nil, nil
}
func (emptyBracketRepo) FindByID(ctx context.Context, id string) (*tax.TaxBracket, error) {
	return nil, nil
}
func (emptyBracketRepo) Update(ctx context.Context, bracket *tax.TaxBracket) error { return nil }
func (emptyBracketRepo) Deactivate(ctx context.Context, id string) error           { return nil }
func (emptyBracketRepo) ActiveBrackets(ctx context.Context, country, currency string, at time.Time) ([]tax.TaxBracket, error) {
	return nil, nil
}

func newComputer() *payroll.Computer {
	return payroll.NewComputer(tax.NewResolver(emptyBracketRepo{}))
}

func fullMonthRecord() *payroll.Payroll {
	return &payroll.Payroll{
		PayrollMonth: "2026-03",
		WorkingDays:  22,
		DaysWorked:   22,
		Salary:       payroll.Salary{Base: 500_000},
		Deductions: payroll.Deductions{
			Pension: payroll.PensionDeduction{Rate: 5},
		},
		Currency: "MWK",
	}
}

func TestComputeFullMonthKnownFigures(t *testing.T) {
	p := fullMonthRecord()

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 500_000.0, p.Salary.Prorated)
	assert.Equal(t, 500_000.0, p.GrossPay)
	assert.Equal(t, 87_500.0, p.Deductions.Tax.Amount)
	assert.Equal(t, 17.5, p.Deductions.Tax.Rate)
	assert.Equal(t, 25_000.0, p.Deductions.Pension.Amount)
	assert.Equal(t, 112_500.0, p.Deductions.Total)
	assert.Equal(t, 387_500.0, p.NetPay)
}

func TestComputeProratesBaseSalary(t *testing.T) {
	p := fullMonthRecord()
	p.DaysWorked = 11

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 250_000.0, p.Salary.Prorated)
	assert.Equal(t, 250_000.0, p.GrossPay)
	// 0 on the first 150,000, 25% on the next 100,000.
	assert.Equal(t, 25_000.0, p.Deductions.Tax.Amount)
}

func TestComputeRejectsZeroWorkingDays(t *testing.T) {
	p := fullMonthRecord()
	p.WorkingDays = 0

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidWorkingDays)
}

func TestComputeSumsAllowancesAndBonusesIntoGross(t *testing.T) {
	p := fullMonthRecord()
	p.Allowances = payroll.Allowances{Transport: 20_000, Housing: 50_000, Medical: 10_000}
	p.Bonuses = payroll.Bonuses{Performance: 15_000, Other: 5_000}

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 80_000.0, p.Allowances.Total)
	assert.Equal(t, 20_000.0, p.Bonuses.Total)
	assert.Equal(t, 600_000.0, p.GrossPay)
}

func TestComputeOvertimeUsesFixedMultiplier(t *testing.T) {
	p := fullMonthRecord()
	p.Overtime = payroll.Overtime{Hours: 10, Rate: 2_000, Amount: 999_999}

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	// 10h * 2,000 * 1.5, regardless of any stale stored amount.
	assert.Equal(t, 30_000.0, p.Overtime.Amount)
	assert.Equal(t, 530_000.0, p.GrossPay)
}

func TestComputeIncludesLoansAndOtherDeductions(t *testing.T) {
	p := fullMonthRecord()
	p.Deductions.Loans = payroll.LoanDeductionList{{Name: "car loan", Amount: 40_000}}
	p.Deductions.Other = payroll.OtherDeductionList{{Name: "union dues", Amount: 2_500}}

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 155_000.0, p.Deductions.Total)
	assert.Equal(t, 345_000.0, p.NetPay)
}

func TestComputeFloorsNetPayAtZero(t *testing.T) {
	p := fullMonthRecord()
	p.Deductions.Loans = payroll.LoanDeductionList{{Name: "arrears", Amount: 900_000}}

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 0.0, p.NetPay)
}

func TestComputeTemporaryAdjustmentAlwaysApplies(t *testing.T) {
	p := fullMonthRecord()
	p.Adjustments = payroll.AdjustmentList{{
		Type:     payroll.AdjustmentTypeAddition,
		Duration: payroll.AdjustmentDurationTemporary,
		Amount:   10_000,
	}}

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	// Adjustments land after tax: the taxable base is unchanged.
	assert.Equal(t, 87_500.0, p.Deductions.Tax.Amount)
	assert.Equal(t, 397_500.0, p.NetPay)
}

func TestComputePermanentAdjustmentHonorsDateWindow(t *testing.T) {
	windowStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	p := fullMonthRecord()
	p.Adjustments = payroll.AdjustmentList{{
		Type:     payroll.AdjustmentTypeDeduction,
		Duration: payroll.AdjustmentDurationPermanent,
		Amount:   50_000,
		DurationDetails: payroll.DurationDetails{
			StartDate: &windowStart,
			EndDate:   &windowEnd,
		},
	}}

	inside := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	err := newComputer().Compute(context.Background(), p, inside)
	assert.NoError(t, err)
	assert.Equal(t, 337_500.0, p.NetPay)

	after := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	err = newComputer().Compute(context.Background(), p, after)
	assert.NoError(t, err)
	assert.Equal(t, 387_500.0, p.NetPay)
}

func TestComputeDeductingAdjustmentFloorsAtZero(t *testing.T) {
	p := fullMonthRecord()
	p.Adjustments = payroll.AdjustmentList{
		{Type: payroll.AdjustmentTypeDeduction, Duration: payroll.AdjustmentDurationTemporary, Amount: 400_000},
		{Type: payroll.AdjustmentTypeAddition, Duration: payroll.AdjustmentDurationTemporary, Amount: 5_000},
	}

	err := newComputer().Compute(context.Background(), p, time.Now())
	assert.NoError(t, err)

	// The over-deduction clamps to zero before the addition applies.
	assert.Equal(t, 5_000.0, p.NetPay)
}

func TestComputeIsIdempotentForSameInstant(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	p := fullMonthRecord()
	p.Allowances = payroll.Allowances{Transport: 12_345.67}
	p.Overtime = payroll.Overtime{Hours: 7.5, Rate: 1_333.33}
	p.Deductions.Loans = payroll.LoanDeductionList{{Name: "loan", Amount: 10_000}}

	computer := newComputer()
	err := computer.Compute(context.Background(), p, now)
	assert.NoError(t, err)
	first := *p

	err = computer.Compute(context.Background(), p, now)
	assert.NoError(t, err)

	assert.Equal(t, first.Salary, p.Salary)
	assert.Equal(t, first.GrossPay, p.GrossPay)
	assert.Equal(t, first.Deductions.Total, p.Deductions.Total)
	assert.Equal(t, first.NetPay, p.NetPay)
}
