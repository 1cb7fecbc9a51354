package ticket

import (
	"strconv"
	"time"

	"deskflow/internal/domain/shared/events"
)

const (
	EventTypeTicketSubmitted     = "ticket.submitted"
	EventTypeTicketStatusChanged = "ticket.status_changed"
	EventTypeTicketAssigned      = "ticket.assigned"
)

// TicketSubmittedEvent is published when a draft ticket enters the workflow.
type TicketSubmittedEvent struct {
	events.BaseEvent
	TicketID uint   `json:"ticket_id"`
	Number   string `json:"number"`
	Title    string `json:"title"`
	ActorID  uint   `json:"actor_id"`
}

func NewTicketSubmittedEvent(t *Ticket, actorID uint, occurredAt time.Time) TicketSubmittedEvent {
	return TicketSubmittedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(t.ID()), 10),
			EventType:   EventTypeTicketSubmitted,
			OccurredAt:  occurredAt,
			Version:     1,
		},
		TicketID: t.ID(),
		Number:   t.Number(),
		Title:    t.Title(),
		ActorID:  actorID,
	}
}

// TicketStatusChangedEvent is published after a lifecycle transition commits.
type TicketStatusChangedEvent struct {
	events.BaseEvent
	TicketID  uint   `json:"ticket_id"`
	Number    string `json:"number"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ActorID   uint   `json:"actor_id"`
}

func NewTicketStatusChangedEvent(t *Ticket, oldStatus string, actorID uint, occurredAt time.Time) TicketStatusChangedEvent {
	return TicketStatusChangedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(t.ID()), 10),
			EventType:   EventTypeTicketStatusChanged,
			OccurredAt:  occurredAt,
			Version:     1,
		},
		TicketID:  t.ID(),
		Number:    t.Number(),
		OldStatus: oldStatus,
		NewStatus: t.Status().String(),
		ActorID:   actorID,
	}
}

// TicketAssignedEvent is published when a ticket is assigned.
type TicketAssignedEvent struct {
	events.BaseEvent
	TicketID   uint `json:"ticket_id"`
	AssigneeID uint `json:"assignee_id"`
	AssignedBy uint `json:"assigned_by"`
}

func NewTicketAssignedEvent(t *Ticket, assigneeID, assignedBy uint, occurredAt time.Time) TicketAssignedEvent {
	return TicketAssignedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(t.ID()), 10),
			EventType:   EventTypeTicketAssigned,
			OccurredAt:  occurredAt,
			Version:     1,
		},
		TicketID:   t.ID(),
		AssigneeID: assigneeID,
		AssignedBy: assignedBy,
	}
}
