package payroll_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/messaging/kafka"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll"
	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
)

type fakePayslipWriter struct {
	written []string
	err     error
}

func (f *fakePayslipWriter) Write(p payroll.Payroll) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := "/var/payslips/" + p.ID.String() + ".pdf"
	f.written = append(f.written, path)
	return path, nil
}

func newTestService(t *testing.T, repo payroll.Repository) payroll.Service {
	t.Helper()
	return payroll.NewService(nil, repo, newComputer(), nil, &fakePayslipWriter{})
}

func createRequest() payroll.CreatePayrollRequest {
	return payroll.CreatePayrollRequest{
		EmployeeID:   uuid.NewString(),
		PayrollMonth: "2026-03",
		WorkingDays:  22,
		DaysWorked:   22,
		BaseSalary:   500_000,
		PensionRate:  5,
	}
}

func TestServiceCreateComputesAndPersists(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	resp, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	assert.Equal(t, 500_000.0, resp.GrossPay)
	assert.Equal(t, 87_500.0, resp.Deductions.Tax.Amount)
	assert.Equal(t, 387_500.0, resp.NetPay)
	assert.Equal(t, "MWK", resp.Currency)
	assert.Equal(t, 1.0, resp.ExchangeRate)
	assert.Equal(t, payroll.ApprovalStatusPending, resp.Status)
	assert.Len(t, repo.records, 1)
}

func TestServiceCreateRejectsDuplicateMonth(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)
	req := createRequest()

	_, err := svc.Create(context.Background(), uuid.NewString(), req)
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.NewString(), req)
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollExists)
}

func TestServiceCreateValidatesAttendance(t *testing.T) {
	svc := newTestService(t, newFakePayrollRepository())
	req := createRequest()
	req.DaysWorked = 25

	_, err := svc.Create(context.Background(), uuid.NewString(), req)
	assert.ErrorIs(t, err, payrollerrors.ErrDaysWorkedExceedsWorking)
}

func TestServiceUpdateRecomputes(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	resp, err := svc.Update(context.Background(), uuid.NewString(), created.ID, payroll.UpdatePayrollRequest{
		DaysWorked:  11,
		BaseSalary:  500_000,
		PensionRate: 5,
	})
	assert.NoError(t, err)

	assert.Equal(t, 250_000.0, resp.Salary.Prorated)
	assert.Equal(t, 250_000.0, resp.GrossPay)
	assert.Equal(t, 25_000.0, resp.Deductions.Tax.Amount)
}

func TestServiceUpdateSurfacesConcurrentWriteConflict(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	repo.updateErr[created.ID] = payrollerrors.ErrVersionConflict

	_, err = svc.Update(context.Background(), uuid.NewString(), created.ID, payroll.UpdatePayrollRequest{
		DaysWorked: 20, BaseSalary: 500_000, PensionRate: 5,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrVersionConflict)
}

func TestStaleRecordCopyCannotOverwrite(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	record, err := repo.FindByID(context.Background(), created.ID)
	assert.NoError(t, err)
	stale := *record

	assert.NoError(t, repo.Update(context.Background(), record))

	err = repo.Update(context.Background(), &stale)
	assert.ErrorIs(t, err, payrollerrors.ErrVersionConflict)
}

func TestServiceUpdateRejectsPaidRecord(t *testing.T) {
	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 387_500)
	record.Payment.Status = payroll.PaymentStatusPaid
	record.WorkingDays = 22
	seedRecord(t, repo, record)

	svc := newTestService(t, repo)
	_, err := svc.Update(context.Background(), uuid.NewString(), record.ID.String(), payroll.UpdatePayrollRequest{
		DaysWorked: 20, BaseSalary: 500_000,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrUpdatePaidRecord)
}

func TestServiceAddAdjustmentAppendsAndRecomputes(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	actor := uuid.NewString()
	resp, err := svc.AddAdjustment(context.Background(), actor, created.ID, payroll.AdjustmentRequest{
		Type:     payroll.AdjustmentTypeAddition,
		Duration: payroll.AdjustmentDurationTemporary,
		Amount:   10_000,
		Reason:   "acting allowance",
	})
	assert.NoError(t, err)

	assert.Equal(t, 397_500.0, resp.NetPay)
	assert.Len(t, resp.Adjustments, 1)
	assert.Equal(t, actor, resp.Adjustments[0].AppliedBy)
	assert.Len(t, resp.Adjustments[0].Changes, 1)
	assert.Equal(t, "net_pay", resp.Adjustments[0].Changes[0].Field)
	assert.Equal(t, 387_500.0, resp.Adjustments[0].Changes[0].OldValue)
	assert.Equal(t, 397_500.0, resp.Adjustments[0].Changes[0].NewValue)

	// A second adjustment stacks on the first.
	resp, err = svc.AddAdjustment(context.Background(), actor, created.ID, payroll.AdjustmentRequest{
		Type:     payroll.AdjustmentTypeDeduction,
		Duration: payroll.AdjustmentDurationTemporary,
		Amount:   2_500,
	})
	assert.NoError(t, err)
	assert.Equal(t, 395_000.0, resp.NetPay)
	assert.Len(t, resp.Adjustments, 2)
}

func TestServiceAddAdjustmentRequiresWindowForPermanent(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	_, err = svc.AddAdjustment(context.Background(), uuid.NewString(), created.ID, payroll.AdjustmentRequest{
		Type:     payroll.AdjustmentTypeDeduction,
		Duration: payroll.AdjustmentDurationPermanent,
		Amount:   5_000,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidAdjustment)
}

func TestServiceAddAdjustmentRejectsPaidRecord(t *testing.T) {
	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 387_500)
	record.Payment.Status = payroll.PaymentStatusPaid
	seedRecord(t, repo, record)

	svc := newTestService(t, repo)
	_, err := svc.AddAdjustment(context.Background(), uuid.NewString(), record.ID.String(), payroll.AdjustmentRequest{
		Type:     payroll.AdjustmentTypeAddition,
		Duration: payroll.AdjustmentDurationTemporary,
		Amount:   1_000,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrAdjustPaidRecord)
}

func TestServiceDecideBothPartiesIndependently(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	resp, err := svc.Decide(context.Background(), uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "finance", Decision: payroll.ApprovalStatusApproved,
	})
	assert.NoError(t, err)
	assert.Equal(t, payroll.ApprovalStatusPending, resp.Status)
	assert.Equal(t, payroll.ApprovalStatusApproved, resp.Approvals.Finance.Status)

	resp, err = svc.Decide(context.Background(), uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "hr", Decision: payroll.ApprovalStatusApproved, Notes: "verified",
	})
	assert.NoError(t, err)
	assert.Equal(t, payroll.ApprovalStatusApproved, resp.Status)
	assert.Equal(t, "verified", resp.Approvals.HR.Notes)
	assert.NotNil(t, resp.Approvals.HR.At)
}

func TestServiceDecideOncePerParty(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	_, err = svc.Decide(context.Background(), uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "hr", Decision: payroll.ApprovalStatusRejected,
	})
	assert.NoError(t, err)

	_, err = svc.Decide(context.Background(), uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "hr", Decision: payroll.ApprovalStatusApproved,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrApprovalNotPending)
}

func TestServiceDecideEnforcesPartyRole(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	hrCtx := contextutil.WithRole(context.Background(), "hr")
	_, err = svc.Decide(hrCtx, uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "finance", Decision: payroll.ApprovalStatusApproved,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrPartyRoleMismatch)

	adminCtx := contextutil.WithRole(context.Background(), "admin")
	_, err = svc.Decide(adminCtx, uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "finance", Decision: payroll.ApprovalStatusApproved,
	})
	assert.NoError(t, err)
}

func TestServiceRejectionBlocksPayment(t *testing.T) {
	repo := newFakePayrollRepository()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), uuid.NewString(), createRequest())
	assert.NoError(t, err)

	_, err = svc.Decide(context.Background(), uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "hr", Decision: payroll.ApprovalStatusApproved,
	})
	assert.NoError(t, err)
	resp, err := svc.Decide(context.Background(), uuid.NewString(), created.ID, payroll.ApprovalDecisionRequest{
		Party: "finance", Decision: payroll.ApprovalStatusRejected,
	})
	assert.NoError(t, err)
	assert.Equal(t, payroll.ApprovalStatusRejected, resp.Status)

	processor := payroll.NewPaymentProcessor(repo)
	_, err = processor.MarkAsPaid(context.Background(), created.ID, payroll.MarkPaidRequest{
		Reference: "TXN-1", Method: "bank_transfer",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrNotApprovedForPayment)
}

func TestRequestPayslipWritesOutboxInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 387_500)
	seedRecord(t, repo, record)

	svc := payroll.NewService(db, repo, newComputer(), kafka.NewOutboxRepository(db), &fakePayslipWriter{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = svc.RequestPayslip(context.Background(), uuid.NewString(), record.ID.String())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnounceBatchCompletedWritesOutbox(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := payroll.NewService(db, newFakePayrollRepository(), newComputer(), kafka.NewOutboxRepository(db), &fakePayslipWriter{})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = svc.AnnounceBatchCompleted(context.Background(), uuid.NewString(), payroll.BatchResult{
		Month: "2026-03", Processed: 40, Skipped: 2, Total: 42,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestPayslipRequiresApprovedRecord(t *testing.T) {
	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 387_500)
	record.Approvals.Finance = payroll.Approval{Status: payroll.ApprovalStatusPending}
	seedRecord(t, repo, record)

	svc := newTestService(t, repo)
	err := svc.RequestPayslip(context.Background(), uuid.NewString(), record.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrNotApprovedForPayment)
}

func TestGeneratePayslipStampsMetadata(t *testing.T) {
	repo := newFakePayrollRepository()
	record := approvedRecord("2026-03", 387_500)
	seedRecord(t, repo, record)

	writer := &fakePayslipWriter{}
	svc := payroll.NewService(nil, repo, newComputer(), nil, writer)

	resp, err := svc.GeneratePayslip(context.Background(), record.ID.String())
	assert.NoError(t, err)

	assert.True(t, resp.Payslip.Generated)
	assert.Equal(t, "/var/payslips/"+record.ID.String()+".pdf", resp.Payslip.Path)
	assert.NotNil(t, resp.Payslip.GeneratedAt)
	assert.Len(t, writer.written, 1)
}
