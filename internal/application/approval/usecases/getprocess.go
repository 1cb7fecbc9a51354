package usecases

import (
	"context"

	"deskflow/internal/application/approval/dto"
	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type GetProcessQuery struct {
	TicketID uint
	Actor    ticket.Actor
}

type GetProcessUseCase struct {
	processRepo approval.ProcessRepository
	ticketRepo  ticket.TicketRepository
	viewPolicy  TicketViewPolicy
	logger      logger.Interface
}

func NewGetProcessUseCase(
	processRepo approval.ProcessRepository,
	ticketRepo ticket.TicketRepository,
	viewPolicy TicketViewPolicy,
	logger logger.Interface,
) *GetProcessUseCase {
	return &GetProcessUseCase{
		processRepo: processRepo,
		ticketRepo:  ticketRepo,
		viewPolicy:  viewPolicy,
		logger:      logger,
	}
}

func (uc *GetProcessUseCase) Execute(ctx context.Context, query GetProcessQuery) (*dto.ProcessDTO, error) {
	uc.logger.Debugw("executing get process use case", "ticket_id", query.TicketID, "user_id", query.Actor.ID)

	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}

	allowed, err := uc.viewPolicy.CanView(ctx, t, query.Actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.NewForbiddenError("you do not have permission to view this ticket")
	}

	process, err := uc.processRepo.GetByTicketID(ctx, query.TicketID)
	if err != nil {
		return nil, err
	}
	return dto.ToProcessDTO(process), nil
}
