package approval

import (
	"context"
	"time"
)

// ProcessRepository persists approval processes and their steps.
type ProcessRepository interface {
	// Save persists a new process together with all of its steps and assigns
	// their ids.
	Save(ctx context.Context, process *Process) error

	// Update persists the process header fields (status, current step,
	// completion time).
	Update(ctx context.Context, process *Process) error

	// UpdateStepDecision persists a decided step with a compare-and-set on the
	// pending status. It returns ErrStepAlreadyDecided-class conflict when the
	// row was decided concurrently.
	UpdateStepDecision(ctx context.Context, step *Step) error

	// GetByID loads a process with all of its steps.
	GetByID(ctx context.Context, id uint) (*Process, error)

	// GetByTicketID loads the process bound to a ticket, or a not-found error.
	GetByTicketID(ctx context.Context, ticketID uint) (*Process, error)

	// GetByStepID loads the process owning the given step.
	GetByStepID(ctx context.Context, stepID uint) (*Process, error)

	// ListPendingStepsForApprovers returns pending steps, at the current order
	// of a pending process, whose approver is one of the given users.
	ListPendingStepsForApprovers(ctx context.Context, approverIDs []uint) ([]*PendingStep, error)
}

// PendingStep is a read model row for approval inbox listings.
type PendingStep struct {
	StepID       uint
	ProcessID    uint
	TicketID     uint
	TicketNumber string
	TicketTitle  string
	StepOrder    int
	ApproverID   uint
	CreatedAt    time.Time
}
