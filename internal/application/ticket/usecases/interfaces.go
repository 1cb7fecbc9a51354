package usecases

import (
	"context"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
)

// ApprovalStarter instantiates the approval process for a ticket entering the
// approval-required state. It runs inside the caller's unit of work and
// returns domain events to publish after commit.
type ApprovalStarter interface {
	Start(ctx context.Context, t *ticket.Ticket) ([]events.DomainEvent, error)
}

// TxManager runs a function within a single database transaction; the
// transactional handle travels in the context.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ViewPolicy decides whether an actor may read a ticket.
type ViewPolicy interface {
	CanView(ctx context.Context, t *ticket.Ticket, actor ticket.Actor) (bool, error)
}

// MarkdownRenderer converts comment markdown to sanitized HTML for display.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type TransitionTicketExecutor interface {
	Execute(ctx context.Context, cmd TransitionTicketCommand) (*TransitionTicketResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error)
}

type AddNoteExecutor interface {
	Execute(ctx context.Context, cmd AddNoteCommand) (*dto.NoteDTO, error)
}

type RemoveNoteExecutor interface {
	Execute(ctx context.Context, cmd RemoveNoteCommand) error
}

type GetTimelineExecutor interface {
	Execute(ctx context.Context, query GetTimelineQuery) ([]*dto.NoteDTO, error)
}

type GrantViewExecutor interface {
	Execute(ctx context.Context, cmd GrantViewCommand) (*GrantViewResult, error)
}

type GetTicketStatsExecutor interface {
	Execute(ctx context.Context, query GetTicketStatsQuery) (*GetTicketStatsResult, error)
}
