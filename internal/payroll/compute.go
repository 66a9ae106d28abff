package payroll

import (
	"context"
	"math"
	"time"

	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/tax"
)

// RecomputeOvertimeMultiplier is the fixed multiplier applied on every
// recomputation. The grade's own multiplier only feeds the amount at
// baseline-build time and is overwritten on the first save; the two
// sources disagree today and product has not picked one.
// TODO: unify with Grade.OvertimeMultiplier once payroll policy decides
// which source wins.
const RecomputeOvertimeMultiplier = 1.5

// Computer derives every computed field of a record from its inputs.
// It is the one place gross, deductions and net pay are produced;
// every save path must run it so the stored outputs can never drift
// from the stored inputs. Given the same record and the same instant
// it always produces identical output.
type Computer struct {
	resolver tax.Resolver
}

func NewComputer(resolver tax.Resolver) *Computer {
	return &Computer{resolver: resolver}
}

// Compute runs the full pipeline in order. The instant is explicit
// because permanent adjustments are date-windowed; callers pass the
// same instant when they need bit-identical recomputation.
func (c *Computer) Compute(ctx context.Context, p *Payroll, now time.Time) error {
	if p.WorkingDays <= 0 {
		return payrollerrors.ErrInvalidWorkingDays
	}

	// 1. Prorate the base salary over attendance.
	p.Salary.Prorated = round2(p.Salary.Base * float64(p.DaysWorked) / float64(p.WorkingDays))

	// 2. Allowances.
	p.Allowances.Total = round2(p.Allowances.Transport +
		p.Allowances.Housing +
		p.Allowances.Medical +
		p.Allowances.Meals +
		p.Allowances.Communication +
		p.Allowances.Other)

	// 3. Overtime at the fixed record-level multiplier.
	p.Overtime.Amount = round2(p.Overtime.Hours * p.Overtime.Rate * RecomputeOvertimeMultiplier)

	// 4. Bonuses.
	p.Bonuses.Total = round2(p.Bonuses.Performance + p.Bonuses.Annual + p.Bonuses.Other)

	// 5. Gross pay.
	p.GrossPay = round2(p.Salary.Prorated + p.Allowances.Total + p.Overtime.Amount + p.Bonuses.Total)

	// 6. Tax. The resolver self-heals on configuration problems, so
	// this step cannot fail the save.
	taxResult := c.resolver.Resolve(ctx, p.GrossPay, tax.DefaultCountry, p.Currency)
	p.Deductions.Tax.Rate = taxResult.Rate
	p.Deductions.Tax.Amount = taxResult.Amount

	// 7. Pension on gross.
	p.Deductions.Pension.Amount = round2(p.GrossPay * p.Deductions.Pension.Rate / 100)

	// 8. Total deductions.
	total := p.Deductions.Tax.Amount + p.Deductions.Pension.Amount
	for _, loan := range p.Deductions.Loans {
		total += loan.Amount
	}
	for _, other := range p.Deductions.Other {
		total += other.Amount
	}
	p.Deductions.Total = round2(total)

	// 9. Net pay, floored at zero.
	net := p.GrossPay - p.Deductions.Total
	if net < 0 {
		net = 0
	}

	// 10. Post-tax adjustments, in list order. They never touch the
	// taxable base.
	for _, adj := range p.Adjustments {
		if !adj.InEffect(now) {
			continue
		}
		if adj.Type == AdjustmentTypeAddition {
			net += adj.Amount
		} else {
			net -= adj.Amount
			if net < 0 {
				net = 0
			}
		}
	}

	p.NetPay = round2(net)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
