package approval

import (
	"strconv"
	"time"

	"deskflow/internal/domain/shared/events"
)

const (
	EventTypeApprovalRequested = "approval.requested"
	EventTypeStepDecided       = "approval.step_decided"
	EventTypeProcessCompleted  = "approval.process_completed"
)

// ApprovalRequestedEvent is published for the approver of the step that just
// became current, including the first step at instantiation.
type ApprovalRequestedEvent struct {
	events.BaseEvent
	ProcessID  uint `json:"process_id"`
	TicketID   uint `json:"ticket_id"`
	StepID     uint `json:"step_id"`
	StepOrder  int  `json:"step_order"`
	ApproverID uint `json:"approver_id"`
}

func NewApprovalRequestedEvent(p *Process, s *Step, occurredAt time.Time) ApprovalRequestedEvent {
	return ApprovalRequestedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(p.ID()), 10),
			EventType:   EventTypeApprovalRequested,
			OccurredAt:  occurredAt,
			Version:     1,
		},
		ProcessID:  p.ID(),
		TicketID:   p.TicketID(),
		StepID:     s.ID(),
		StepOrder:  s.StepOrder(),
		ApproverID: s.ApproverID(),
	}
}

// StepDecidedEvent is published after a step decision commits.
type StepDecidedEvent struct {
	events.BaseEvent
	ProcessID uint   `json:"process_id"`
	TicketID  uint   `json:"ticket_id"`
	StepID    uint   `json:"step_id"`
	Outcome   string `json:"outcome"`
	DecidedBy uint   `json:"decided_by"`
	ProxyID   *uint  `json:"proxy_id,omitempty"`
}

func NewStepDecidedEvent(p *Process, s *Step, decidedBy uint, occurredAt time.Time) StepDecidedEvent {
	return StepDecidedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(p.ID()), 10),
			EventType:   EventTypeStepDecided,
			OccurredAt:  occurredAt,
			Version:     1,
		},
		ProcessID: p.ID(),
		TicketID:  p.TicketID(),
		StepID:    s.ID(),
		Outcome:   s.Status().String(),
		DecidedBy: decidedBy,
		ProxyID:   s.ProxyID(),
	}
}

// ProcessCompletedEvent is published when a process reaches a terminal status.
type ProcessCompletedEvent struct {
	events.BaseEvent
	ProcessID uint   `json:"process_id"`
	TicketID  uint   `json:"ticket_id"`
	Outcome   string `json:"outcome"`
}

func NewProcessCompletedEvent(p *Process, occurredAt time.Time) ProcessCompletedEvent {
	return ProcessCompletedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(p.ID()), 10),
			EventType:   EventTypeProcessCompleted,
			OccurredAt:  occurredAt,
			Version:     1,
		},
		ProcessID: p.ID(),
		TicketID:  p.TicketID(),
		Outcome:   p.Status().String(),
	}
}
