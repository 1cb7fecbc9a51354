package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusDraft           TicketStatus = "draft"
	StatusWaitingApproval TicketStatus = "waiting_approval"
	StatusRejected        TicketStatus = "rejected"
	StatusOpen            TicketStatus = "open"
	StatusInProgress      TicketStatus = "in_progress"
	StatusResolved        TicketStatus = "resolved"
	StatusClosed          TicketStatus = "closed"
	StatusCancelled       TicketStatus = "cancelled"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusDraft:           true,
	StatusWaitingApproval: true,
	StatusRejected:        true,
	StatusOpen:            true,
	StatusInProgress:      true,
	StatusResolved:        true,
	StatusClosed:          true,
	StatusCancelled:       true,
}

var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusDraft: {
		StatusWaitingApproval,
		StatusCancelled,
	},
	StatusWaitingApproval: {
		StatusRejected,
		StatusOpen,
	},
	StatusRejected: {},
	StatusOpen: {
		StatusInProgress,
		StatusCancelled,
	},
	StatusInProgress: {
		StatusResolved,
	},
	StatusResolved: {
		StatusClosed,
		StatusInProgress,
	},
	StatusClosed:    {},
	StatusCancelled: {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	allowedTransitions, ok := ticketStatusTransitions[ts]
	if !ok {
		return false
	}

	for _, allowed := range allowedTransitions {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of the status.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusClosed || ts == StatusCancelled
}

func (ts TicketStatus) IsDraft() bool {
	return ts == StatusDraft
}

func (ts TicketStatus) IsWaitingApproval() bool {
	return ts == StatusWaitingApproval
}

func (ts TicketStatus) IsOpen() bool {
	return ts == StatusOpen
}

func (ts TicketStatus) IsInProgress() bool {
	return ts == StatusInProgress
}

func (ts TicketStatus) IsResolved() bool {
	return ts == StatusResolved
}

func (ts TicketStatus) IsRejected() bool {
	return ts == StatusRejected
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
