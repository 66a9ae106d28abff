package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/events"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/messaging/kafka"
	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	GetAllByMonth(ctx context.Context, month string) ([]PayrollResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	AddAdjustment(ctx context.Context, actorID, id string, req AdjustmentRequest) (PayrollResponse, error)
	Decide(ctx context.Context, actorID, id string, req ApprovalDecisionRequest) (PayrollResponse, error)
	Summary(ctx context.Context, month string) (MonthlySummary, error)
	Deactivate(ctx context.Context, id string) error

	RequestPayslip(ctx context.Context, actorID, id string) error
	GeneratePayslip(ctx context.Context, id string) (PayrollResponse, error)
	AnnounceBatchCompleted(ctx context.Context, actorID string, result BatchResult) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	computer *Computer
	outbox   kafka.OutboxRepository
	payslips PayslipWriter
	now      func() time.Time
}

func NewService(db *sql.DB, repo Repository, computer *Computer, outbox kafka.OutboxRepository, payslips PayslipWriter) Service {
	return &service{
		db:       db,
		repo:     repo,
		computer: computer,
		outbox:   outbox,
		payslips: payslips,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreatePayrollRequest) (PayrollResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	start, end, err := ParseMonth(req.PayrollMonth)
	if err != nil {
		return PayrollResponse{}, err
	}
	if req.DaysWorked > req.WorkingDays {
		return PayrollResponse{}, payrollerrors.ErrDaysWorkedExceedsWorking
	}

	currency := req.Currency
	if currency == "" {
		currency = "MWK"
	}
	exchangeRate := req.ExchangeRate
	if exchangeRate <= 0 {
		exchangeRate = 1
	}

	record := &Payroll{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		PayrollMonth: req.PayrollMonth,
		PeriodStart:  start,
		PeriodEnd:    end,
		WorkingDays:  req.WorkingDays,
		DaysWorked:   req.DaysWorked,
		Salary:       Salary{Base: req.BaseSalary},
		Allowances:   mapAllowancesInput(req.Allowances),
		Overtime:     Overtime{Hours: req.Overtime.Hours, Rate: req.Overtime.Rate},
		Bonuses:      mapBonusesInput(req.Bonuses),
		Deductions: Deductions{
			Pension: PensionDeduction{Rate: req.PensionRate},
			Loans:   mapLoanInputs(req.Loans),
			Other:   mapOtherInputs(req.Other),
		},
		Adjustments:  AdjustmentList{},
		Currency:     currency,
		ExchangeRate: exchangeRate,
		Payment:      Payment{Status: PaymentStatusPending},
		Approvals: Approvals{
			HR:      Approval{Status: ApprovalStatusPending},
			Finance: Approval{Status: ApprovalStatusPending},
		},
		ProcessedBy: &actorUUID,
		IsActive:    true,
	}

	if err := s.computer.Compute(ctx, record, s.now()); err != nil {
		return PayrollResponse{}, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if IsUniqueViolation(err) {
			return PayrollResponse{}, payrollerrors.ErrPayrollExists
		}
		return PayrollResponse{}, err
	}

	return mapPayrollResponse(*record), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
	}
	return mapPayrollResponse(*record), nil
}

func (s *service) GetAllByMonth(ctx context.Context, month string) ([]PayrollResponse, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	records, err := s.repo.FindAllByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return mapPayrollListResponse(records), nil
}

// Update replaces the record's inputs and recomputes everything.
// There is no incremental patching: any edit reruns the full pipeline
// so the stored outputs always match the stored inputs.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdatePayrollRequest) (PayrollResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
	}
	if record.IsPaid() {
		return PayrollResponse{}, payrollerrors.ErrUpdatePaidRecord
	}
	if req.DaysWorked > record.WorkingDays {
		return PayrollResponse{}, payrollerrors.ErrDaysWorkedExceedsWorking
	}

	record.DaysWorked = req.DaysWorked
	record.Salary.Base = req.BaseSalary
	record.Allowances = mapAllowancesInput(req.Allowances)
	record.Overtime = Overtime{Hours: req.Overtime.Hours, Rate: req.Overtime.Rate}
	record.Bonuses = mapBonusesInput(req.Bonuses)
	record.Deductions.Pension.Rate = req.PensionRate
	record.Deductions.Loans = mapLoanInputs(req.Loans)
	record.Deductions.Other = mapOtherInputs(req.Other)

	if err := s.computer.Compute(ctx, record, s.now()); err != nil {
		return PayrollResponse{}, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	return mapPayrollResponse(*record), nil
}

// AddAdjustment appends one audit entry and recomputes. Entries are
// never edited in place.
func (s *service) AddAdjustment(ctx context.Context, actorID, id string, req AdjustmentRequest) (PayrollResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
	}
	if record.IsPaid() {
		return PayrollResponse{}, payrollerrors.ErrAdjustPaidRecord
	}

	adj := Adjustment{
		Type:      req.Type,
		Category:  req.Category,
		Duration:  req.Duration,
		Amount:    req.Amount,
		Reason:    req.Reason,
		AppliedBy: actorID,
		AppliedAt: s.now().UTC(),
	}
	adj.DurationDetails.NumberOfMonths = req.NumberOfMonths

	if req.StartDate != nil && *req.StartDate != "" {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return PayrollResponse{}, payrollerrors.ErrInvalidAdjustment
		}
		adj.DurationDetails.StartDate = &t
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return PayrollResponse{}, payrollerrors.ErrInvalidAdjustment
		}
		adj.DurationDetails.EndDate = &t
	}
	if req.Duration == AdjustmentDurationPermanent &&
		(adj.DurationDetails.StartDate == nil || adj.DurationDetails.EndDate == nil) {
		return PayrollResponse{}, payrollerrors.ErrInvalidAdjustment
	}

	previousNet := record.NetPay
	record.Adjustments = append(record.Adjustments, adj)

	if err := s.computer.Compute(ctx, record, s.now()); err != nil {
		return PayrollResponse{}, err
	}

	record.Adjustments[len(record.Adjustments)-1].Changes = []AdjustmentChange{
		{Field: "net_pay", OldValue: previousNet, NewValue: record.NetPay},
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	return mapPayrollResponse(*record), nil
}

// Decide records one party's approval or rejection. Each party decides
// once; HR and Finance act independently of each other.
func (s *service) Decide(ctx context.Context, actorID, id string, req ApprovalDecisionRequest) (PayrollResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
	}
	if record.IsPaid() {
		return PayrollResponse{}, payrollerrors.ErrUpdatePaidRecord
	}

	var target *Approval
	switch req.Party {
	case "hr":
		target = &record.Approvals.HR
	case "finance":
		target = &record.Approvals.Finance
	default:
		return PayrollResponse{}, payrollerrors.ErrInvalidApprovalParty
	}

	// HR decides the HR slot, finance the finance slot. Admin may act
	// for either; an empty role means an internal caller.
	if role := contextutil.GetRole(ctx); role != "" && role != "admin" && role != req.Party {
		return PayrollResponse{}, payrollerrors.ErrPartyRoleMismatch
	}

	if target.Status != ApprovalStatusPending {
		return PayrollResponse{}, payrollerrors.ErrApprovalNotPending
	}

	decidedAt := s.now().UTC()
	target.Status = req.Decision
	target.By = &actorUUID
	target.At = &decidedAt
	target.Notes = req.Notes

	if err := s.repo.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	return mapPayrollResponse(*record), nil
}

func (s *service) Summary(ctx context.Context, month string) (MonthlySummary, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return MonthlySummary{}, err
	}
	return s.repo.Summary(ctx, month)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return payrollerrors.ErrPayrollNotFound
	}
	// Paid records are never physically removed; deactivation hides
	// them from listings while the audit trail stays intact.
	return s.repo.Deactivate(ctx, record.ID.String())
}

// RequestPayslip enqueues payslip generation through the outbox so the
// event is only published if the enqueue commits.
func (s *service) RequestPayslip(ctx context.Context, actorID, id string) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return payrollerrors.ErrPayrollNotFound
	}
	if record.ApprovalStatus() != ApprovalStatusApproved && !record.IsPaid() {
		return payrollerrors.ErrNotApprovedForPayment
	}

	event := events.PayrollPayslipRequestedEvent{
		EventType:   "payroll.payslip.requested",
		PayrollID:   record.ID.String(),
		RequestedBy: actorID,
		OccurredAt:  s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll",
		AggregateID:   record.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollPayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GeneratePayslip renders the document and stamps the payslip
// metadata. Computed fields are read, never written: a finalized
// record is immutable to this path.
func (s *service) GeneratePayslip(ctx context.Context, id string) (PayrollResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
	}

	path, err := s.payslips.Write(*record)
	if err != nil {
		return PayrollResponse{}, err
	}

	generatedAt := s.now().UTC()
	record.Payslip = Payslip{
		Generated:   true,
		Path:        path,
		GeneratedAt: &generatedAt,
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return PayrollResponse{}, err
	}

	return mapPayrollResponse(*record), nil
}

// AnnounceBatchCompleted publishes the outcome of a generation run
// through the outbox. Reporting consumers only see runs that actually
// happened, not attempts that rolled back.
func (s *service) AnnounceBatchCompleted(ctx context.Context, actorID string, result BatchResult) error {
	event := events.PayrollBatchCompletedEvent{
		EventType:   "payroll.batch.completed",
		Month:       result.Month,
		Processed:   result.Processed,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		ProcessedBy: actorID,
		OccurredAt:  s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll_batch",
		AggregateID:   result.Month,
		EventType:     event.EventType,
		Topic:         events.PayrollBatchCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

func mapAllowancesInput(in AllowancesInput) Allowances {
	return Allowances{
		Transport:     in.Transport,
		Housing:       in.Housing,
		Medical:       in.Medical,
		Meals:         in.Meals,
		Communication: in.Communication,
		Other:         in.Other,
	}
}

func mapBonusesInput(in BonusesInput) Bonuses {
	return Bonuses{
		Performance: in.Performance,
		Annual:      in.Annual,
		Other:       in.Other,
	}
}

func mapLoanInputs(in []LoanDeductionInput) LoanDeductionList {
	out := make(LoanDeductionList, len(in))
	for i, l := range in {
		out[i] = LoanDeduction{Name: l.Name, Amount: l.Amount, LoanRef: l.LoanRef}
	}
	return out
}

func mapOtherInputs(in []OtherDeductionInput) OtherDeductionList {
	out := make(OtherDeductionList, len(in))
	for i, o := range in {
		out[i] = OtherDeduction{Name: o.Name, Amount: o.Amount}
	}
	return out
}
