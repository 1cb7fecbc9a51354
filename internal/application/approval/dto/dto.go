package dto

import (
	"time"

	"deskflow/internal/domain/approval"
)

type ProcessDTO struct {
	ID          uint       `json:"id"`
	TicketID    uint       `json:"ticket_id"`
	TemplateID  uint       `json:"template_id"`
	Status      string     `json:"status"`
	CurrentStep int        `json:"current_step"`
	CompletedAt *time.Time `json:"completed_at"`
	Steps       []StepDTO  `json:"steps"`
}

type StepDTO struct {
	ID         uint       `json:"id"`
	ProcessID  uint       `json:"process_id"`
	StepOrder  int        `json:"step_order"`
	ApproverID uint       `json:"approver_id"`
	ProxyID    *uint      `json:"proxy_id,omitempty"`
	Status     string     `json:"status"`
	Comment    string     `json:"comment,omitempty"`
	ActionAt   *time.Time `json:"action_at,omitempty"`
}

type PendingStepDTO struct {
	StepID       uint      `json:"step_id"`
	ProcessID    uint      `json:"process_id"`
	TicketID     uint      `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	TicketTitle  string    `json:"ticket_title"`
	StepOrder    int       `json:"step_order"`
	ApproverID   uint      `json:"approver_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToStepDTO(s *approval.Step) StepDTO {
	return StepDTO{
		ID:         s.ID(),
		ProcessID:  s.ProcessID(),
		StepOrder:  s.StepOrder(),
		ApproverID: s.ApproverID(),
		ProxyID:    s.ProxyID(),
		Status:     s.Status().String(),
		Comment:    s.Comment(),
		ActionAt:   s.ActionAt(),
	}
}

func ToProcessDTO(p *approval.Process) *ProcessDTO {
	if p == nil {
		return nil
	}
	steps := make([]StepDTO, 0, len(p.Steps()))
	for _, s := range p.Steps() {
		steps = append(steps, ToStepDTO(s))
	}
	return &ProcessDTO{
		ID:          p.ID(),
		TicketID:    p.TicketID(),
		TemplateID:  p.TemplateID(),
		Status:      p.Status().String(),
		CurrentStep: p.CurrentStep(),
		CompletedAt: p.CompletedAt(),
		Steps:       steps,
	}
}

func ToPendingStepDTOs(rows []*approval.PendingStep) []*PendingStepDTO {
	dtos := make([]*PendingStepDTO, 0, len(rows))
	for _, r := range rows {
		dtos = append(dtos, &PendingStepDTO{
			StepID:       r.StepID,
			ProcessID:    r.ProcessID,
			TicketID:     r.TicketID,
			TicketNumber: r.TicketNumber,
			TicketTitle:  r.TicketTitle,
			StepOrder:    r.StepOrder,
			ApproverID:   r.ApproverID,
			CreatedAt:    r.CreatedAt,
		})
	}
	return dtos
}
