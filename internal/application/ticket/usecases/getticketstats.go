package usecases

import (
	"context"

	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/logger"
)

type GetTicketStatsQuery struct {
	Actor ticket.Actor
}

type GetTicketStatsResult struct {
	Total    int64
	ByStatus map[string]int64
}

type GetTicketStatsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewGetTicketStatsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *GetTicketStatsUseCase {
	return &GetTicketStatsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *GetTicketStatsUseCase) Execute(ctx context.Context, query GetTicketStatsQuery) (*GetTicketStatsResult, error) {
	uc.logger.Debugw("executing get ticket stats use case", "user_id", query.Actor.ID)

	counts, err := uc.ticketRepo.CountByStatus(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count tickets by status", "error", err)
		return nil, err
	}

	result := &GetTicketStatsResult{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		result.ByStatus[status.String()] = count
		result.Total += count
	}
	return result, nil
}
