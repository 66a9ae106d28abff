package payroll

import (
	"context"
	"time"

	"go.uber.org/zap"

	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
)

// PaymentProcessor moves approved records to paid. It never computes
// anything; a record reaches it fully derived and dual-approved.
type PaymentProcessor struct {
	repo Repository
	now  func() time.Time
}

func NewPaymentProcessor(repo Repository) *PaymentProcessor {
	return &PaymentProcessor{repo: repo, now: time.Now}
}

// MarkAsPaid transitions one record to paid. It requires the derived
// dual-approval status, and a paid record can never be paid again.
func (pp *PaymentProcessor) MarkAsPaid(ctx context.Context, payrollID string, req MarkPaidRequest) (PayrollResponse, error) {
	record, err := pp.repo.FindByID(ctx, payrollID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
	}

	if record.IsPaid() {
		return PayrollResponse{}, payrollerrors.ErrAlreadyPaid
	}
	if record.ApprovalStatus() != ApprovalStatusApproved {
		return PayrollResponse{}, payrollerrors.ErrNotApprovedForPayment
	}

	paidAt := pp.now().UTC()
	record.Payment = Payment{
		Status:    PaymentStatusPaid,
		Method:    req.Method,
		Reference: req.Reference,
		PaidAt:    &paidAt,
		BatchID:   req.BatchID,
	}

	if err := pp.repo.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	return mapPayrollResponse(*record), nil
}

// ProcessBatchPayment pays every eligible record of the month:
// dual-approved and not yet paid. One record failing does not abort
// the batch; failures come back in the result.
func (pp *PaymentProcessor) ProcessBatchPayment(ctx context.Context, month string, req BatchPaymentRequest) (BatchPaymentResult, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return BatchPaymentResult{}, err
	}

	records, err := pp.repo.FindAllByMonth(ctx, month)
	if err != nil {
		return BatchPaymentResult{}, err
	}

	log := contextutil.GetLogger(ctx, zap.L()).Named("payroll.payment")
	paidAt := pp.now().UTC()
	result := BatchPaymentResult{Month: month, BatchID: req.BatchID, PaidAt: paidAt}

	for i := range records {
		record := &records[i]

		if record.IsPaid() || record.ApprovalStatus() != ApprovalStatusApproved {
			continue
		}

		record.Payment = Payment{
			Status:    PaymentStatusPaid,
			Method:    req.Method,
			Reference: req.BatchID + "-" + record.EmployeeID.String()[:8],
			PaidAt:    &paidAt,
			BatchID:   req.BatchID,
		}

		if err := pp.repo.Update(ctx, record); err != nil {
			log.Warn("batch payment failed for record",
				zap.String("payroll_id", record.ID.String()),
				zap.String("month", month),
				zap.Error(err),
			)
			result.Failed++
			result.Failures = append(result.Failures, PaymentFailure{
				PayrollID: record.ID.String(),
				Reason:    err.Error(),
			})
			continue
		}

		result.Paid++
		result.TotalAmount = round2(result.TotalAmount + record.NetPay)
	}

	log.Info("batch payment completed",
		zap.String("month", month),
		zap.String("batch_id", req.BatchID),
		zap.Int("paid", result.Paid),
		zap.Int("failed", result.Failed),
		zap.Float64("total_amount", result.TotalAmount),
	)

	return result, nil
}
