package usecases

import (
	"context"
	"time"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/lock"
	"deskflow/internal/shared/logger"
)

type UpdateTicketCommand struct {
	TicketID    uint
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	ClearDue    bool
	Actor       ticket.Actor
}

// UpdateTicketUseCase mutates the editable ticket fields, recording one
// field-specific timeline event per changed field in the same transaction.
type UpdateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	noteRepo   ticket.NoteRepository
	txManager  TxManager
	locks      *lock.KeyedMutex
	logger     logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	noteRepo ticket.NoteRepository,
	txManager TxManager,
	locks *lock.KeyedMutex,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		ticketRepo: ticketRepo,
		noteRepo:   noteRepo,
		txManager:  txManager,
		locks:      locks,
		logger:     logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket use case", "ticket_id", cmd.TicketID, "actor_id", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid update ticket command", "error", err)
		return nil, err
	}

	uc.locks.Lock(cmd.TicketID)
	defer uc.locks.Unlock(cmd.TicketID)

	var updated *ticket.Ticket
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		if !uc.mayEdit(t, cmd.Actor) {
			return errors.NewForbiddenError("you do not have permission to edit this ticket")
		}
		if !t.IsEditable() {
			return errors.NewValidationError("ticket is no longer editable")
		}

		changes, err := uc.applyChanges(txCtx, t, cmd)
		if err != nil {
			return err
		}
		if changes == 0 {
			return errors.NewValidationError("at least one field must be provided for update")
		}

		updated = t
		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("ticket updated successfully", "ticket_id", cmd.TicketID)
	return dto.ToTicketDTO(updated), nil
}

func (uc *UpdateTicketUseCase) applyChanges(ctx context.Context, t *ticket.Ticket, cmd UpdateTicketCommand) (int, error) {
	changes := 0

	if cmd.Title != nil && *cmd.Title != t.Title() {
		old := t.Title()
		if err := t.ChangeTitle(*cmd.Title, cmd.Actor.ID); err != nil {
			return 0, errors.NewValidationError(err.Error())
		}
		if err := uc.recordChange(ctx, t, vo.EventTitleChange, old, *cmd.Title, cmd.Actor.ID); err != nil {
			return 0, err
		}
		changes++
	}

	if cmd.Description != nil && *cmd.Description != t.Description() {
		old := t.Description()
		if err := t.ChangeDescription(*cmd.Description, cmd.Actor.ID); err != nil {
			return 0, errors.NewValidationError(err.Error())
		}
		if err := uc.recordChange(ctx, t, vo.EventDescriptionChange, old, *cmd.Description, cmd.Actor.ID); err != nil {
			return 0, err
		}
		changes++
	}

	if cmd.Priority != nil && *cmd.Priority != t.Priority().String() {
		old := t.Priority().String()
		if err := t.ChangePriority(vo.Priority(*cmd.Priority), cmd.Actor.ID); err != nil {
			return 0, errors.NewValidationError(err.Error())
		}
		if err := uc.recordChange(ctx, t, vo.EventPriorityChange, old, *cmd.Priority, cmd.Actor.ID); err != nil {
			return 0, err
		}
		changes++
	}

	if cmd.DueDate != nil || cmd.ClearDue {
		var old, next any
		if t.DueDate() != nil {
			old = t.DueDate().Format(time.RFC3339)
		}
		if cmd.ClearDue {
			t.ChangeDueDate(nil, cmd.Actor.ID)
		} else {
			t.ChangeDueDate(cmd.DueDate, cmd.Actor.ID)
			next = cmd.DueDate.Format(time.RFC3339)
		}
		if err := uc.recordChange(ctx, t, vo.EventDueDateChange, old, next, cmd.Actor.ID); err != nil {
			return 0, err
		}
		changes++
	}

	return changes, nil
}

func (uc *UpdateTicketUseCase) recordChange(ctx context.Context, t *ticket.Ticket, eventType vo.EventType, from, to any, actorID uint) error {
	note, err := ticket.NewSystemEvent(t.ID(), actorID, eventType, map[string]any{
		"from": from,
		"to":   to,
	})
	if err != nil {
		return errors.NewInternalError(err.Error())
	}
	return uc.noteRepo.Save(ctx, note)
}

func (uc *UpdateTicketUseCase) mayEdit(t *ticket.Ticket, actor ticket.Actor) bool {
	if actor.IsAdmin() || actor.ID == t.CreatedBy() {
		return true
	}
	return t.AssignedTo() != nil && actor.ID == *t.AssignedTo()
}

func (uc *UpdateTicketUseCase) validateCommand(cmd UpdateTicketCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("actor ID is required")
	}
	if cmd.Title == nil && cmd.Description == nil && cmd.Priority == nil && cmd.DueDate == nil && !cmd.ClearDue {
		return errors.NewValidationError("at least one field must be provided for update")
	}
	if cmd.Priority != nil && !vo.Priority(*cmd.Priority).IsValid() {
		return errors.NewValidationError("invalid priority")
	}
	return nil
}
