package usecases

import (
	"context"

	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type RemoveNoteCommand struct {
	NoteID uint
	Actor  ticket.Actor
}

// RemoveNoteUseCase soft-deletes a user comment for moderation. The row stays
// in the timeline; only its body is hidden from display.
type RemoveNoteUseCase struct {
	noteRepo  ticket.NoteRepository
	txManager TxManager
	logger    logger.Interface
}

func NewRemoveNoteUseCase(
	noteRepo ticket.NoteRepository,
	txManager TxManager,
	logger logger.Interface,
) *RemoveNoteUseCase {
	return &RemoveNoteUseCase{
		noteRepo:  noteRepo,
		txManager: txManager,
		logger:    logger,
	}
}

func (uc *RemoveNoteUseCase) Execute(ctx context.Context, cmd RemoveNoteCommand) error {
	uc.logger.Infow("executing remove note use case", "note_id", cmd.NoteID, "actor_id", cmd.Actor.ID)

	if cmd.NoteID == 0 {
		return errors.NewValidationError("note ID is required")
	}
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("actor ID is required")
	}

	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		note, err := uc.noteRepo.GetByID(txCtx, cmd.NoteID)
		if err != nil {
			return err
		}

		if cmd.Actor.ID != note.AuthorID() && !cmd.Actor.IsAdmin() {
			return errors.NewForbiddenError("only the author or an admin may remove a comment")
		}

		if err := note.MarkDeleted(cmd.Actor.ID); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.noteRepo.MarkDeleted(txCtx, note); err != nil {
			return err
		}

		event, err := ticket.NewSystemEvent(note.TicketID(), cmd.Actor.ID, vo.EventNoteRemoved, map[string]any{
			"note_id": note.ID(),
		})
		if err != nil {
			return errors.NewInternalError(err.Error())
		}
		return uc.noteRepo.Save(txCtx, event)
	})
}
