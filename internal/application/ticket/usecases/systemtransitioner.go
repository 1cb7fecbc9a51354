package usecases

import (
	"context"

	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
)

// SystemTransitioner adapts the transition use case for the approval engine's
// callback. It reuses the caller's transaction and per-ticket lock instead of
// acquiring its own, since the engine already holds both.
type SystemTransitioner struct {
	uc *TransitionTicketUseCase
}

func NewSystemTransitioner(uc *TransitionTicketUseCase) *SystemTransitioner {
	return &SystemTransitioner{uc: uc}
}

func (s *SystemTransitioner) RequestTransition(ctx context.Context, ticketID uint, target string, onBehalfOf uint) ([]events.DomainEvent, error) {
	result, err := s.uc.apply(ctx, TransitionTicketCommand{
		TicketID:     ticketID,
		TargetStatus: target,
		Actor:        ticket.SystemActor(onBehalfOf),
	})
	if err != nil {
		return nil, err
	}
	return result.events, nil
}
