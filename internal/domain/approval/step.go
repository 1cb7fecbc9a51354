package approval

import (
	"fmt"
	"time"

	"deskflow/internal/shared/biztime"
)

type StepStatus string

const (
	StepStatusPending  StepStatus = "pending"
	StepStatusApproved StepStatus = "approved"
	StepStatusRejected StepStatus = "rejected"
)

func (s StepStatus) String() string {
	return string(s)
}

func (s StepStatus) IsPending() bool {
	return s == StepStatusPending
}

// Outcome is the decision an approver takes on a step.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

func (o Outcome) IsValid() bool {
	return o == OutcomeApprove || o == OutcomeReject
}

// Step is one stage of an approval process. It is an immutable snapshot of
// the template step it was created from; its status transitions at most once
// from pending to a terminal state. Both approverID (the original designee)
// and proxyID (the actor who acted on their behalf, when different) persist
// permanently as the historical record.
type Step struct {
	id         uint
	processID  uint
	stepOrder  int
	approverID uint
	proxyID    *uint
	status     StepStatus
	comment    string
	actionAt   *time.Time
}

func NewStep(stepOrder int, approverID uint) (*Step, error) {
	if stepOrder <= 0 {
		return nil, fmt.Errorf("step order must be positive")
	}
	if approverID == 0 {
		return nil, fmt.Errorf("approver ID is required")
	}
	return &Step{
		stepOrder:  stepOrder,
		approverID: approverID,
		status:     StepStatusPending,
	}, nil
}

func ReconstructStep(
	id uint,
	processID uint,
	stepOrder int,
	approverID uint,
	proxyID *uint,
	status StepStatus,
	comment string,
	actionAt *time.Time,
) (*Step, error) {
	if id == 0 {
		return nil, fmt.Errorf("step ID cannot be zero")
	}
	if processID == 0 {
		return nil, fmt.Errorf("process ID is required")
	}
	return &Step{
		id:         id,
		processID:  processID,
		stepOrder:  stepOrder,
		approverID: approverID,
		proxyID:    proxyID,
		status:     status,
		comment:    comment,
		actionAt:   actionAt,
	}, nil
}

func (s *Step) ID() uint             { return s.id }
func (s *Step) ProcessID() uint      { return s.processID }
func (s *Step) StepOrder() int       { return s.stepOrder }
func (s *Step) ApproverID() uint     { return s.approverID }
func (s *Step) ProxyID() *uint       { return s.proxyID }
func (s *Step) Status() StepStatus   { return s.status }
func (s *Step) Comment() string      { return s.comment }
func (s *Step) ActionAt() *time.Time { return s.actionAt }

func (s *Step) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("step ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("step ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *Step) setProcessID(processID uint) {
	s.processID = processID
}

// Decide moves the step from pending to a terminal state, recording the
// acting proxy when the decision was made on the approver's behalf.
func (s *Step) Decide(outcome Outcome, comment string, proxyID *uint) error {
	if !s.status.IsPending() {
		return fmt.Errorf("step %d has already been decided (%s)", s.id, s.status)
	}
	if outcome == OutcomeReject && comment == "" {
		return fmt.Errorf("a reason is required to reject")
	}

	switch outcome {
	case OutcomeApprove:
		s.status = StepStatusApproved
	case OutcomeReject:
		s.status = StepStatusRejected
	default:
		return fmt.Errorf("invalid outcome: %s", outcome)
	}

	now := biztime.NowUTC()
	s.comment = comment
	s.proxyID = proxyID
	s.actionAt = &now
	return nil
}
