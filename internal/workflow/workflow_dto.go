package workflow

type CreateWorkflowRequest struct {
	Month           string `json:"month" binding:"required"`
	HRApproverID    string `json:"hr_approver_id" binding:"required,uuid"`
	ReviewerID      string `json:"reviewer_id" binding:"required,uuid"`
	AdminApproverID string `json:"admin_approver_id" binding:"required,uuid"`
}

type StepDecisionRequest struct {
	Notes string `json:"notes"`
}

type StepResponse struct {
	StepNumber int    `json:"step_number"`
	Role       string `json:"role"`
	ApproverID string `json:"approver_id"`
	Status     string `json:"status"`
	ApprovedAt string `json:"approved_at,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type WorkflowResponse struct {
	ID           string         `json:"id"`
	PayrollMonth string         `json:"payroll_month"`
	InitiatedBy  string         `json:"initiated_by"`
	Status       string         `json:"status"`
	CurrentStep  int            `json:"current_step"`
	CompletedAt  string         `json:"completed_at,omitempty"`
	Steps        []StepResponse `json:"steps"`
}

func mapWorkflowResponse(w Workflow) WorkflowResponse {
	resp := WorkflowResponse{
		ID:           w.ID.String(),
		PayrollMonth: w.PayrollMonth,
		InitiatedBy:  w.InitiatedBy.String(),
		Status:       w.Status,
		CurrentStep:  w.CurrentStep,
		Steps:        make([]StepResponse, len(w.Steps)),
	}
	if w.CompletedAt != nil {
		resp.CompletedAt = w.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	for i, step := range w.Steps {
		s := StepResponse{
			StepNumber: step.StepNumber,
			Role:       step.Role,
			ApproverID: step.ApproverID.String(),
			Status:     step.Status,
			Notes:      step.Notes,
		}
		if step.ApprovedAt != nil {
			s.ApprovedAt = step.ApprovedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		resp.Steps[i] = s
	}
	return resp
}
