package approval

import (
	"fmt"
	"sort"
	"time"

	"deskflow/internal/shared/biztime"
)

type ProcessStatus string

const (
	ProcessStatusPending  ProcessStatus = "pending"
	ProcessStatusApproved ProcessStatus = "approved"
	ProcessStatusRejected ProcessStatus = "rejected"
)

func (s ProcessStatus) String() string {
	return string(s)
}

func (s ProcessStatus) IsPending() bool {
	return s == ProcessStatusPending
}

// Process is a live instance of an approval template bound to one ticket. A
// ticket has at most one process, ever; the process is created when the
// ticket enters the approval-required state and is never deleted.
type Process struct {
	id          uint
	ticketID    uint
	templateID  uint
	status      ProcessStatus
	currentStep int
	completedAt *time.Time
	steps       []*Step
}

// NewProcess instantiates a process from resolved approver ids keyed by step
// order. All steps start pending and currentStep points at the first order.
func NewProcess(ticketID, templateID uint, steps []*Step) (*Process, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if templateID == 0 {
		return nil, fmt.Errorf("template ID is required")
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("process requires at least one step")
	}

	sorted := make([]*Step, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].stepOrder < sorted[j].stepOrder })

	return &Process{
		ticketID:    ticketID,
		templateID:  templateID,
		status:      ProcessStatusPending,
		currentStep: sorted[0].stepOrder,
		steps:       sorted,
	}, nil
}

func ReconstructProcess(
	id uint,
	ticketID uint,
	templateID uint,
	status ProcessStatus,
	currentStep int,
	completedAt *time.Time,
	steps []*Step,
) (*Process, error) {
	if id == 0 {
		return nil, fmt.Errorf("process ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	sorted := make([]*Step, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].stepOrder < sorted[j].stepOrder })

	return &Process{
		id:          id,
		ticketID:    ticketID,
		templateID:  templateID,
		status:      status,
		currentStep: currentStep,
		completedAt: completedAt,
		steps:       sorted,
	}, nil
}

func (p *Process) ID() uint                { return p.id }
func (p *Process) TicketID() uint          { return p.ticketID }
func (p *Process) TemplateID() uint        { return p.templateID }
func (p *Process) Status() ProcessStatus   { return p.status }
func (p *Process) CurrentStep() int        { return p.currentStep }
func (p *Process) CompletedAt() *time.Time { return p.completedAt }

// Steps returns the process steps in ascending step order.
func (p *Process) Steps() []*Step {
	stepsCopy := make([]*Step, len(p.steps))
	copy(stepsCopy, p.steps)
	return stepsCopy
}

func (p *Process) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("process ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("process ID cannot be zero")
	}
	p.id = id
	for _, s := range p.steps {
		s.setProcessID(id)
	}
	return nil
}

// StepByID returns the step with the given id, or nil.
func (p *Process) StepByID(stepID uint) *Step {
	for _, s := range p.steps {
		if s.id == stepID {
			return s
		}
	}
	return nil
}

// NextPendingOrder returns the order of the next pending step after the
// given one, or 0 when none remains. Advancing never revisits earlier steps.
func NextPendingOrder(steps []*Step, currentOrder int) int {
	next := 0
	for _, s := range steps {
		if s.stepOrder > currentOrder && s.status.IsPending() {
			if next == 0 || s.stepOrder < next {
				next = s.stepOrder
			}
		}
	}
	return next
}

// Advance moves the current-step pointer forward after an approval on the
// current step. It returns true when the process completed (no pending step
// remains), marking the process approved.
func (p *Process) Advance() bool {
	next := NextPendingOrder(p.steps, p.currentStep)
	if next == 0 {
		p.markCompleted(ProcessStatusApproved)
		return true
	}
	p.currentStep = next
	return false
}

// MarkRejected terminates the process after any step rejection. Rejection is
// final for the whole process; no partial retry.
func (p *Process) MarkRejected() {
	p.markCompleted(ProcessStatusRejected)
}

func (p *Process) markCompleted(status ProcessStatus) {
	now := biztime.NowUTC()
	p.status = status
	p.completedAt = &now
}

// CurrentStepEntity returns the step whose order matches the current pointer.
func (p *Process) CurrentStepEntity() *Step {
	for _, s := range p.steps {
		if s.stepOrder == p.currentStep {
			return s
		}
	}
	return nil
}

// IsParticipant reports whether the user appears as approver or proxy on any
// step of the process, at any order, regardless of step status.
func (p *Process) IsParticipant(userID uint) bool {
	for _, s := range p.steps {
		if s.approverID == userID {
			return true
		}
		if s.proxyID != nil && *s.proxyID == userID {
			return true
		}
	}
	return false
}
