package usecases

import (
	"context"

	"deskflow/internal/application/approval/dto"
	"deskflow/internal/domain/ticket"
)

// TxManager runs a function within a single database transaction; the
// transactional handle travels in the context.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TicketViewPolicy decides whether an actor may read the ticket an approval
// process belongs to.
type TicketViewPolicy interface {
	CanView(ctx context.Context, t *ticket.Ticket, actor ticket.Actor) (bool, error)
}

type DecideStepExecutor interface {
	Execute(ctx context.Context, cmd DecideStepCommand) (*dto.StepDTO, error)
}

type GetProcessExecutor interface {
	Execute(ctx context.Context, query GetProcessQuery) (*dto.ProcessDTO, error)
}

type ListPendingApprovalsExecutor interface {
	Execute(ctx context.Context, query ListPendingApprovalsQuery) ([]*dto.PendingStepDTO, error)
}
