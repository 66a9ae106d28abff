package workflow

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// Step statuses. Only one step is ever pending; the ones behind it are
// waiting, so an out-of-turn approver simply has no pending step.
const (
	StepStatusWaiting  = "waiting"
	StepStatusPending  = "pending"
	StepStatusApproved = "approved"
	StepStatusRejected = "rejected"
)

// The three fixed review roles, in order. "employee" here is a
// second-reviewer role, not the payee.
const (
	RoleHR       = "hr"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Workflow is the month-level approval chain. Exactly one exists per
// payroll month; the unique index enforces it at write time.
type Workflow struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PayrollMonth string     `gorm:"type:varchar(7);not null;uniqueIndex" json:"payroll_month"`
	InitiatedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"initiated_by"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CurrentStep  int        `gorm:"not null;default:1" json:"current_step"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	Steps []WorkflowStep `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE" json:"steps"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Workflow) TableName() string { return "payroll_workflows" }

type WorkflowStep struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkflowID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workflow_id"`
	StepNumber int        `gorm:"not null" json:"step_number"`
	Role       string     `gorm:"type:varchar(20);not null" json:"role"`
	ApproverID uuid.UUID  `gorm:"type:uuid;not null" json:"approver_id"`
	Status     string     `gorm:"type:varchar(20);not null;default:'waiting'" json:"status"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
}

func (WorkflowStep) TableName() string { return "payroll_workflow_steps" }

func (w *Workflow) IsClosed() bool {
	return w.Status == StatusCompleted || w.Status == StatusRejected
}

// PendingStepFor returns the step the given user may act on right now,
// or nil. Because only the current step is pending, this also rejects
// out-of-turn approvers.
func (w *Workflow) PendingStepFor(userID uuid.UUID) *WorkflowStep {
	for i := range w.Steps {
		step := &w.Steps[i]
		if step.Status == StepStatusPending && step.ApproverID == userID {
			return step
		}
	}
	return nil
}
