package usecases

import (
	"context"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/goroutine"
	"deskflow/internal/shared/lock"
	"deskflow/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID   uint
	AssigneeID uint
	Actor      ticket.Actor
}

type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	noteRepo   ticket.NoteRepository
	txManager  TxManager
	locks      *lock.KeyedMutex
	publisher  events.Publisher
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	noteRepo ticket.NoteRepository,
	txManager TxManager,
	locks *lock.KeyedMutex,
	publisher events.Publisher,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		noteRepo:   noteRepo,
		txManager:  txManager,
		locks:      locks,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID, "assignee_id", cmd.AssigneeID, "actor_id", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid assign ticket command", "error", err)
		return nil, err
	}

	uc.locks.Lock(cmd.TicketID)
	defer uc.locks.Unlock(cmd.TicketID)

	var assigned *ticket.Ticket
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		if !cmd.Actor.IsAdmin() && cmd.Actor.ID != t.CreatedBy() {
			return errors.NewForbiddenError("only the creator or an admin may assign the ticket")
		}

		var old any
		if t.AssignedTo() != nil {
			old = *t.AssignedTo()
		}
		if err := t.AssignTo(cmd.AssigneeID, cmd.Actor.ID); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return err
		}

		note, err := ticket.NewSystemEvent(t.ID(), cmd.Actor.ID, vo.EventAssignedToChange, map[string]any{
			"from": old,
			"to":   cmd.AssigneeID,
		})
		if err != nil {
			return errors.NewInternalError(err.Error())
		}
		if err := uc.noteRepo.Save(txCtx, note); err != nil {
			return err
		}

		assigned = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	evt := ticket.NewTicketAssignedEvent(assigned, cmd.AssigneeID, cmd.Actor.ID, biztime.NowUTC())
	goroutine.SafeGo(uc.logger, "publish ticket assigned event", func() {
		if err := uc.publisher.Publish(evt); err != nil {
			uc.logger.Warnw("failed to publish ticket assigned event", "error", err)
		}
	})

	uc.logger.Infow("ticket assigned successfully", "ticket_id", cmd.TicketID, "assignee_id", cmd.AssigneeID)
	return dto.ToTicketDTO(assigned), nil
}

func (uc *AssignTicketUseCase) validateCommand(cmd AssignTicketCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.AssigneeID == 0 {
		return errors.NewValidationError("assignee ID is required")
	}
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("actor ID is required")
	}
	return nil
}
