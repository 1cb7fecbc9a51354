package usecases

import (
	"context"
	"time"

	"deskflow/internal/domain/permission"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type GrantViewCommand struct {
	TicketID uint
	UserID   *uint
	Role     *string
	Actor    ticket.Actor
}

type GrantViewResult struct {
	GrantID   uint
	TicketID  uint
	CreatedAt time.Time
}

// GrantViewUseCase inserts an explicit view permission row and records the
// grant on the timeline in the same transaction.
type GrantViewUseCase struct {
	ticketRepo ticket.TicketRepository
	grantRepo  permission.GrantRepository
	noteRepo   ticket.NoteRepository
	txManager  TxManager
	logger     logger.Interface
}

func NewGrantViewUseCase(
	ticketRepo ticket.TicketRepository,
	grantRepo permission.GrantRepository,
	noteRepo ticket.NoteRepository,
	txManager TxManager,
	logger logger.Interface,
) *GrantViewUseCase {
	return &GrantViewUseCase{
		ticketRepo: ticketRepo,
		grantRepo:  grantRepo,
		noteRepo:   noteRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *GrantViewUseCase) Execute(ctx context.Context, cmd GrantViewCommand) (*GrantViewResult, error) {
	uc.logger.Infow("executing grant view use case", "ticket_id", cmd.TicketID, "actor_id", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid grant view command", "error", err)
		return nil, err
	}

	var grant *permission.Grant
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}

		if cmd.Actor.ID != t.CreatedBy() && !cmd.Actor.IsAdmin() {
			return errors.NewForbiddenError("only the creator or an admin may grant access")
		}

		grant, err = permission.NewGrant(cmd.TicketID, cmd.UserID, cmd.Role, cmd.Actor.ID, biztime.NowUTC())
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.grantRepo.Save(txCtx, grant); err != nil {
			return err
		}

		details := map[string]any{"granted_by": cmd.Actor.ID}
		if cmd.UserID != nil {
			details["user_id"] = *cmd.UserID
		} else {
			details["role"] = *cmd.Role
		}
		note, err := ticket.NewSystemEvent(cmd.TicketID, cmd.Actor.ID, vo.EventPermissionGranted, details)
		if err != nil {
			return errors.NewInternalError(err.Error())
		}
		return uc.noteRepo.Save(txCtx, note)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("view permission granted", "ticket_id", cmd.TicketID, "grant_id", grant.ID())
	return &GrantViewResult{
		GrantID:   grant.ID(),
		TicketID:  cmd.TicketID,
		CreatedAt: grant.CreatedAt(),
	}, nil
}

func (uc *GrantViewUseCase) validateCommand(cmd GrantViewCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("actor ID is required")
	}
	if cmd.UserID == nil && cmd.Role == nil {
		return errors.NewValidationError("a user or a role must be specified")
	}
	if cmd.UserID != nil && cmd.Role != nil {
		return errors.NewValidationError("a grant cannot target both a user and a role")
	}
	return nil
}
