package usecases

import (
	"context"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type AddNoteCommand struct {
	TicketID uint
	Body     string
	Actor    ticket.Actor
}

type AddNoteUseCase struct {
	ticketRepo ticket.TicketRepository
	noteRepo   ticket.NoteRepository
	viewPolicy ViewPolicy
	renderer   MarkdownRenderer
	logger     logger.Interface
}

func NewAddNoteUseCase(
	ticketRepo ticket.TicketRepository,
	noteRepo ticket.NoteRepository,
	viewPolicy ViewPolicy,
	renderer MarkdownRenderer,
	logger logger.Interface,
) *AddNoteUseCase {
	return &AddNoteUseCase{
		ticketRepo: ticketRepo,
		noteRepo:   noteRepo,
		viewPolicy: viewPolicy,
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *AddNoteUseCase) Execute(ctx context.Context, cmd AddNoteCommand) (*dto.NoteDTO, error) {
	uc.logger.Infow("executing add note use case", "ticket_id", cmd.TicketID, "author_id", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid add note command", "error", err)
		return nil, err
	}

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	allowed, err := uc.viewPolicy.CanView(ctx, t, cmd.Actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.NewForbiddenError("you do not have permission to comment on this ticket")
	}

	note, err := ticket.NewUserNote(cmd.TicketID, cmd.Actor.ID, cmd.Body)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.noteRepo.Save(ctx, note); err != nil {
		uc.logger.Errorw("failed to save note", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	html, err := uc.renderer.Render(note.Body())
	if err != nil {
		uc.logger.Warnw("failed to render note markdown", "note_id", note.ID(), "error", err)
		html = ""
	}

	uc.logger.Infow("note added successfully", "ticket_id", cmd.TicketID, "note_id", note.ID())
	return dto.ToNoteDTO(note, html), nil
}

func (uc *AddNoteUseCase) validateCommand(cmd AddNoteCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("author ID is required")
	}
	if len(cmd.Body) == 0 {
		return errors.NewValidationError("note body is required")
	}
	if len(cmd.Body) > 5000 {
		return errors.NewValidationError("note body exceeds maximum length of 5000 characters")
	}
	return nil
}
