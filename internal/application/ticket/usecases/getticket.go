package usecases

import (
	"context"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID uint
	Actor    ticket.Actor
}

type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	viewPolicy ViewPolicy
	logger     logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	viewPolicy ViewPolicy,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		viewPolicy: viewPolicy,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	uc.logger.Debugw("executing get ticket use case", "ticket_id", query.TicketID, "user_id", query.Actor.ID)

	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}

	allowed, err := uc.viewPolicy.CanView(ctx, t, query.Actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		// Direct-id access: the caller already knows the id, so denial is
		// reported as forbidden rather than masked as not-found.
		uc.logger.Warnw("view denied", "ticket_id", query.TicketID, "user_id", query.Actor.ID)
		return nil, errors.NewForbiddenError("you do not have permission to view this ticket")
	}

	return dto.ToTicketDTO(t), nil
}
