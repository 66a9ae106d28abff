package payroll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll"
	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
)

func approvedRecord(month string, netPay float64) *payroll.Payroll {
	hrApprover := uuid.New()
	financeApprover := uuid.New()
	return &payroll.Payroll{
		ID:           uuid.New(),
		EmployeeID:   uuid.New(),
		PayrollMonth: month,
		NetPay:       netPay,
		Payment:      payroll.Payment{Status: payroll.PaymentStatusPending},
		Approvals: payroll.Approvals{
			HR:      payroll.Approval{Status: payroll.ApprovalStatusApproved, By: &hrApprover},
			Finance: payroll.Approval{Status: payroll.ApprovalStatusApproved, By: &financeApprover},
		},
		IsActive: true,
	}
}

func seedRecord(t *testing.T, repo *fakePayrollRepository, p *payroll.Payroll) {
	t.Helper()
	assert.NoError(t, repo.Create(context.Background(), p))
}

func TestMarkAsPaidTransitionsApprovedRecord(t *testing.T) {
	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 387_500)
	seedRecord(t, repo, record)

	processor := payroll.NewPaymentProcessor(repo)
	resp, err := processor.MarkAsPaid(context.Background(), record.ID.String(), payroll.MarkPaidRequest{
		Reference: "TXN-20260328-001",
		Method:    "bank_transfer",
	})
	assert.NoError(t, err)

	assert.Equal(t, payroll.PaymentStatusPaid, resp.Payment.Status)
	assert.Equal(t, "TXN-20260328-001", resp.Payment.Reference)
	assert.Equal(t, "bank_transfer", resp.Payment.Method)
	assert.NotNil(t, resp.Payment.PaidAt)
}

func TestMarkAsPaidRequiresDualApproval(t *testing.T) {
	repo := newFakePayrollRepository()
	processor := payroll.NewPaymentProcessor(repo)

	// HR approved, finance still pending.
	record := approvedRecord("2026-03", 100_000)
	record.Approvals.Finance = payroll.Approval{Status: payroll.ApprovalStatusPending}
	seedRecord(t, repo, record)

	_, err := processor.MarkAsPaid(context.Background(), record.ID.String(), payroll.MarkPaidRequest{
		Reference: "TXN-1", Method: "bank_transfer",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrNotApprovedForPayment)

	// A rejection by either party also blocks payment.
	rejected := approvedRecord("2026-03", 100_000)
	rejected.Approvals.HR = payroll.Approval{Status: payroll.ApprovalStatusRejected}
	seedRecord(t, repo, rejected)

	_, err = processor.MarkAsPaid(context.Background(), rejected.ID.String(), payroll.MarkPaidRequest{
		Reference: "TXN-2", Method: "bank_transfer",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrNotApprovedForPayment)
}

func TestMarkAsPaidRejectsDoublePayment(t *testing.T) {
	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 100_000)
	seedRecord(t, repo, record)

	processor := payroll.NewPaymentProcessor(repo)
	_, err := processor.MarkAsPaid(context.Background(), record.ID.String(), payroll.MarkPaidRequest{
		Reference: "TXN-1", Method: "bank_transfer",
	})
	assert.NoError(t, err)

	_, err = processor.MarkAsPaid(context.Background(), record.ID.String(), payroll.MarkPaidRequest{
		Reference: "TXN-2", Method: "bank_transfer",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPaid)
}

func TestMarkAsPaidUnknownRecord(t *testing.T) {
	processor := payroll.NewPaymentProcessor(newFakePayrollRepository())

	_, err := processor.MarkAsPaid(context.Background(), uuid.NewString(), payroll.MarkPaidRequest{
		Reference: "TXN-1", Method: "bank_transfer",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
}

func TestProcessBatchPaymentPaysOnlyEligibleRecords(t *testing.T) {
	repo := newFakePayrollRepository()

	eligible1 := approvedRecord("2026-03", 387_500)
	eligible2 := approvedRecord("2026-03", 212_500)
	pendingApproval := approvedRecord("2026-03", 50_000)
	pendingApproval.Approvals.Finance = payroll.Approval{Status: payroll.ApprovalStatusPending}
	alreadyPaid := approvedRecord("2026-03", 75_000)
	alreadyPaid.Payment.Status = payroll.PaymentStatusPaid

	for _, r := range []*payroll.Payroll{eligible1, eligible2, pendingApproval, alreadyPaid} {
		seedRecord(t, repo, r)
	}

	processor := payroll.NewPaymentProcessor(repo)
	result, err := processor.ProcessBatchPayment(context.Background(), "2026-03", payroll.BatchPaymentRequest{
		BatchID: "BATCH-2026-03", Method: "bank_transfer",
	})
	assert.NoError(t, err)

	assert.Equal(t, 2, result.Paid)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 600_000.0, result.TotalAmount)
	assert.Equal(t, "BATCH-2026-03", result.BatchID)
}

func TestProcessBatchPaymentCollectsFailures(t *testing.T) {
	repo := newFakePayrollRepository()

	healthy := approvedRecord("2026-03", 100_000)
	broken := approvedRecord("2026-03", 200_000)
	seedRecord(t, repo, healthy)
	seedRecord(t, repo, broken)
	repo.updateErr[broken.ID.String()] = errors.New("deadlock detected")

	processor := payroll.NewPaymentProcessor(repo)
	result, err := processor.ProcessBatchPayment(context.Background(), "2026-03", payroll.BatchPaymentRequest{
		BatchID: "BATCH-2026-03", Method: "bank_transfer",
	})
	assert.NoError(t, err)

	assert.Equal(t, 1, result.Paid)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 100_000.0, result.TotalAmount)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, broken.ID.String(), result.Failures[0].PayrollID)
}

func TestProcessBatchPaymentRejectsBadMonth(t *testing.T) {
	processor := payroll.NewPaymentProcessor(newFakePayrollRepository())

	_, err := processor.ProcessBatchPayment(context.Background(), "last month", payroll.BatchPaymentRequest{
		BatchID: "B-1", Method: "bank_transfer",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMonthFormat)
}
