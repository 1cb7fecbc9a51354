package usecases

import (
	"context"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type GetTimelineQuery struct {
	TicketID uint
	Actor    ticket.Actor
}

// GetTimelineUseCase returns the full ticket history in ascending creation
// order: user comments rendered to HTML plus system events.
type GetTimelineUseCase struct {
	ticketRepo ticket.TicketRepository
	noteRepo   ticket.NoteRepository
	viewPolicy ViewPolicy
	renderer   MarkdownRenderer
	logger     logger.Interface
}

func NewGetTimelineUseCase(
	ticketRepo ticket.TicketRepository,
	noteRepo ticket.NoteRepository,
	viewPolicy ViewPolicy,
	renderer MarkdownRenderer,
	logger logger.Interface,
) *GetTimelineUseCase {
	return &GetTimelineUseCase{
		ticketRepo: ticketRepo,
		noteRepo:   noteRepo,
		viewPolicy: viewPolicy,
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *GetTimelineUseCase) Execute(ctx context.Context, query GetTimelineQuery) ([]*dto.NoteDTO, error) {
	uc.logger.Debugw("executing get timeline use case", "ticket_id", query.TicketID, "user_id", query.Actor.ID)

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

	notes, err := uc.noteRepo.ListByTicketID(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load timeline", "ticket_id", query.TicketID, "error", err)
		return nil, err
	}

	dtos := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		html := ""
		if !n.IsSystemEvent() && !n.IsDeleted() {
			html, err = uc.renderer.Render(n.Body())
			if err != nil {
				uc.logger.Warnw("failed to render note markdown", "note_id", n.ID(), "error", err)
				html = ""
			}
		}
		dtos = append(dtos, dto.ToNoteDTO(n, html))
	}
	return dtos, nil
}
