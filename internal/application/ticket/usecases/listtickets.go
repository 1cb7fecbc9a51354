package usecases

import (
	"context"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/constants"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type ListTicketsQuery struct {
	Status     string
	Priority   string
	CreatorID  *uint
	AssigneeID *uint
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
	Actor      ticket.Actor
}

type ListTicketsResult struct {
	Tickets  []*dto.TicketDTO
	Total    int64
	Page     int
	PageSize int
}

// ListTicketsUseCase lists tickets visible to the caller. Visibility is part
// of the repository query itself, so page contents, page sizes, and the total
// count are all computed over viewable rows only; a restricted ticket the
// caller cannot see leaves no trace in the result.
type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	uc.logger.Debugw("executing list tickets use case", "user_id", query.Actor.ID, "page", query.Page)

	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, err
	}

	return &ListTicketsResult{
		Tickets:  dto.ToTicketDTOs(tickets),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (uc *ListTicketsUseCase) buildFilter(query ListTicketsQuery) (ticket.TicketFilter, error) {
	viewer := query.Actor
	filter := ticket.TicketFilter{
		CreatorID:  query.CreatorID,
		AssigneeID: query.AssigneeID,
		Search:     query.Search,
		Page:       query.Page,
		PageSize:   query.PageSize,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
		Viewer:     &viewer,
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority := vo.Priority(query.Priority)
		if !priority.IsValid() {
			return filter, errors.NewValidationError("invalid priority")
		}
		filter.Priority = &priority
	}

	if filter.Page <= 0 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize <= 0 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}

	return filter, nil
}
