package usecases

import (
	"context"
	"time"

	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type CreateTicketCommand struct {
	Title              string
	Description        string
	Priority           string
	Visibility         string
	DueDate            *time.Time
	TicketTemplateID   *uint
	ApprovalTemplateID *uint
	CreatorID          uint
}

type CreateTicketResult struct {
	TicketID  uint
	Number    string
	Status    string
	CreatedAt time.Time
}

type CreateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	numberGen  ticket.NumberGenerator
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	numberGen ticket.NumberGenerator,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo,
		numberGen:  numberGen,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	uc.logger.Infow("executing create ticket use case", "title", cmd.Title, "creator_id", cmd.CreatorID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create ticket command", "error", err)
		return nil, err
	}

	visibility := vo.Visibility(cmd.Visibility)
	if cmd.Visibility == "" {
		visibility = vo.VisibilityInternal
	}

	newTicket, err := ticket.NewTicket(
		cmd.Title,
		cmd.Description,
		vo.Priority(cmd.Priority),
		visibility,
		cmd.CreatorID,
	)
	if err != nil {
		uc.logger.Errorw("failed to create ticket entity", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if cmd.DueDate != nil {
		newTicket.ChangeDueDate(cmd.DueDate, cmd.CreatorID)
	}
	if cmd.ApprovalTemplateID != nil {
		if err := newTicket.SetApprovalTemplate(*cmd.ApprovalTemplateID); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	number, err := uc.numberGen.Generate(ctx)
	if err != nil {
		uc.logger.Errorw("failed to generate ticket number", "error", err)
		return nil, errors.NewInternalError("failed to generate ticket number")
	}
	if err := newTicket.SetNumber(number); err != nil {
		return nil, errors.NewInternalError(err.Error())
	}

	if err := uc.ticketRepo.Save(ctx, newTicket); err != nil {
		uc.logger.Errorw("failed to save ticket", "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket created successfully", "ticket_id", newTicket.ID(), "number", newTicket.Number())

	return &CreateTicketResult{
		TicketID:  newTicket.ID(),
		Number:    newTicket.Number(),
		Status:    newTicket.Status().String(),
		CreatedAt: newTicket.CreatedAt(),
	}, nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if len(cmd.Title) == 0 {
		return errors.NewValidationError("title is required")
	}
	if len(cmd.Title) > 200 {
		return errors.NewValidationError("title exceeds maximum length of 200 characters")
	}
	if len(cmd.Description) > 5000 {
		return errors.NewValidationError("description exceeds maximum length of 5000 characters")
	}
	if cmd.CreatorID == 0 {
		return errors.NewValidationError("creator ID is required")
	}
	if !vo.Priority(cmd.Priority).IsValid() {
		return errors.NewValidationError("invalid priority")
	}
	if cmd.Visibility != "" && !vo.Visibility(cmd.Visibility).IsValid() {
		return errors.NewValidationError("invalid visibility")
	}
	return nil
}
