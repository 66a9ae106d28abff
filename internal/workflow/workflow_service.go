package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
	workflowerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/workflow/errors"
)

// PayrollGate is the workflow's only hook into payroll: completing the
// chain forces the month's payment status forward. Implemented by the
// payroll repository.
type PayrollGate interface {
	ApprovePaymentsForMonth(ctx context.Context, month string) (int64, error)
}

//go:generate mockgen -source=workflow_service.go -destination=mock/workflow_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, initiatedBy string, req CreateWorkflowRequest) (WorkflowResponse, error)
	GetByMonth(ctx context.Context, month string) (WorkflowResponse, error)
	ApproveStep(ctx context.Context, month, userID string, req StepDecisionRequest) (WorkflowResponse, error)
	RejectStep(ctx context.Context, month, userID string, req StepDecisionRequest) (WorkflowResponse, error)
}

type service struct {
	repo Repository
	gate PayrollGate
	now  func() time.Time
}

func NewService(repo Repository, gate PayrollGate) Service {
	return &service{repo: repo, gate: gate, now: time.Now}
}

// Create starts the fixed three-step chain for a month. The approver
// for each role is bound now; the chain never re-resolves them. Only
// step 1 starts pending.
func (s *service) Create(ctx context.Context, initiatedBy string, req CreateWorkflowRequest) (WorkflowResponse, error) {
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return WorkflowResponse{}, workflowerrors.ErrInvalidMonthFormat
	}

	initiatorUUID, err := uuid.Parse(initiatedBy)
	if err != nil {
		return WorkflowResponse{}, workflowerrors.ErrInvalidApproverID
	}
	hrUUID, err := uuid.Parse(req.HRApproverID)
	if err != nil {
		return WorkflowResponse{}, workflowerrors.ErrInvalidApproverID
	}
	reviewerUUID, err := uuid.Parse(req.ReviewerID)
	if err != nil {
		return WorkflowResponse{}, workflowerrors.ErrInvalidApproverID
	}
	adminUUID, err := uuid.Parse(req.AdminApproverID)
	if err != nil {
		return WorkflowResponse{}, workflowerrors.ErrInvalidApproverID
	}

	workflowID := uuid.New()
	w := &Workflow{
		ID:           workflowID,
		PayrollMonth: req.Month,
		InitiatedBy:  initiatorUUID,
		Status:       StatusPending,
		CurrentStep:  1,
		Steps: []WorkflowStep{
			{ID: uuid.New(), WorkflowID: workflowID, StepNumber: 1, Role: RoleHR, ApproverID: hrUUID, Status: StepStatusPending},
			{ID: uuid.New(), WorkflowID: workflowID, StepNumber: 2, Role: RoleEmployee, ApproverID: reviewerUUID, Status: StepStatusWaiting},
			{ID: uuid.New(), WorkflowID: workflowID, StepNumber: 3, Role: RoleAdmin, ApproverID: adminUUID, Status: StepStatusWaiting},
		},
	}

	if err := s.repo.Create(ctx, w); err != nil {
		if IsUniqueViolation(err) {
			return WorkflowResponse{}, workflowerrors.ErrWorkflowExists
		}
		return WorkflowResponse{}, err
	}

	return mapWorkflowResponse(*w), nil
}

func (s *service) GetByMonth(ctx context.Context, month string) (WorkflowResponse, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return WorkflowResponse{}, workflowerrors.ErrInvalidMonthFormat
	}

	w, err := s.repo.FindByMonth(ctx, month)
	if err != nil {
		return WorkflowResponse{}, workflowerrors.ErrWorkflowNotFound
	}
	return mapWorkflowResponse(*w), nil
}

// ApproveStep advances the chain by one step. The caller must own the
// single pending step; anyone else fails deterministically, including
// approvers acting out of turn. Approving the final step completes the
// workflow and forces the month's records to payment-approved.
func (s *service) ApproveStep(ctx context.Context, month, userID string, req StepDecisionRequest) (WorkflowResponse, error) {
	w, step, err := s.pendingStep(ctx, month, userID)
	if err != nil {
		return WorkflowResponse{}, err
	}

	decidedAt := s.now().UTC()
	step.Status = StepStatusApproved
	step.ApprovedAt = &decidedAt
	step.Notes = req.Notes

	if step.StepNumber == len(w.Steps) {
		w.Status = StatusCompleted
		w.CompletedAt = &decidedAt
	} else {
		w.Status = StatusInProgress
		w.CurrentStep = step.StepNumber + 1
		w.Steps[step.StepNumber].Status = StepStatusPending
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return WorkflowResponse{}, err
	}

	if w.Status == StatusCompleted {
		count, err := s.gate.ApprovePaymentsForMonth(ctx, month)
		if err != nil {
			// The chain itself is complete; payment approval can be
			// replayed, so log rather than unwind.
			contextutil.GetLogger(ctx, zap.L()).Error("force payment approval failed",
				zap.String("month", month),
				zap.Error(err),
			)
		} else {
			contextutil.GetLogger(ctx, zap.L()).Info("month payments approved by workflow",
				zap.String("month", month),
				zap.Int64("records", count),
			)
		}
	}

	return mapWorkflowResponse(*w), nil
}

// RejectStep terminates the workflow immediately. Remaining steps are
// left untouched and there is no resume path; the month stays blocked
// behind the one-workflow-per-month constraint.
func (s *service) RejectStep(ctx context.Context, month, userID string, req StepDecisionRequest) (WorkflowResponse, error) {
	w, step, err := s.pendingStep(ctx, month, userID)
	if err != nil {
		return WorkflowResponse{}, err
	}

	decidedAt := s.now().UTC()
	step.Status = StepStatusRejected
	step.ApprovedAt = &decidedAt
	step.Notes = req.Notes
	w.Status = StatusRejected

	if err := s.repo.Update(ctx, w); err != nil {
		return WorkflowResponse{}, err
	}

	return mapWorkflowResponse(*w), nil
}

func (s *service) pendingStep(ctx context.Context, month, userID string) (*Workflow, *WorkflowStep, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, nil, workflowerrors.ErrInvalidMonthFormat
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil, workflowerrors.ErrInvalidApproverID
	}

	w, err := s.repo.FindByMonth(ctx, month)
	if err != nil {
		return nil, nil, workflowerrors.ErrWorkflowNotFound
	}
	if w.IsClosed() {
		return nil, nil, workflowerrors.ErrWorkflowClosed
	}

	step := w.PendingStepFor(userUUID)
	if step == nil {
		return nil, nil, workflowerrors.ErrNoPendingApproval
	}

	return w, step, nil
}
