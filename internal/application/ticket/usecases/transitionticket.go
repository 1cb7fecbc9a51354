package usecases

import (
	"context"
	"time"

	"deskflow/internal/application/ticket/dto"
	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/goroutine"
	"deskflow/internal/shared/lock"
	"deskflow/internal/shared/logger"
)

type TransitionTicketCommand struct {
	TicketID     uint
	TargetStatus string
	Reason       string
	Actor        ticket.Actor
}

type TransitionTicketResult struct {
	Ticket    *dto.TicketDTO
	OldStatus string
	NewStatus string
}

// TransitionTicketUseCase applies one lifecycle transition as a single unit
// of work: ticket row, approval process instantiation (when entering the
// approval-required state), default assignment, and the timeline entry all
// commit or roll back together. A per-ticket lock serializes mutations so
// approval advancement and user transitions on the same ticket never
// interleave.
type TransitionTicketUseCase struct {
	ticketRepo      ticket.TicketRepository
	noteRepo        ticket.NoteRepository
	templates       approval.TemplateResolver
	approvalStarter ApprovalStarter
	txManager       TxManager
	locks           *lock.KeyedMutex
	publisher       events.Publisher
	logger          logger.Interface
}

func NewTransitionTicketUseCase(
	ticketRepo ticket.TicketRepository,
	noteRepo ticket.NoteRepository,
	templates approval.TemplateResolver,
	approvalStarter ApprovalStarter,
	txManager TxManager,
	locks *lock.KeyedMutex,
	publisher events.Publisher,
	logger logger.Interface,
) *TransitionTicketUseCase {
	return &TransitionTicketUseCase{
		ticketRepo:      ticketRepo,
		noteRepo:        noteRepo,
		templates:       templates,
		approvalStarter: approvalStarter,
		txManager:       txManager,
		locks:           locks,
		publisher:       publisher,
		logger:          logger,
	}
}

// applied carries the outcome of one transition out of the transaction.
type applied struct {
	ticket    *ticket.Ticket
	oldStatus vo.TicketStatus
	events    []events.DomainEvent
}

func (uc *TransitionTicketUseCase) Execute(ctx context.Context, cmd TransitionTicketCommand) (*TransitionTicketResult, error) {
	uc.logger.Infow("executing transition ticket use case",
		"ticket_id", cmd.TicketID, "target_status", cmd.TargetStatus, "actor_id", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid transition ticket command", "error", err)
		return nil, err
	}

	uc.locks.Lock(cmd.TicketID)
	defer uc.locks.Unlock(cmd.TicketID)

	var result *applied
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var applyErr error
		result, applyErr = uc.apply(txCtx, cmd)
		return applyErr
	})
	if err != nil {
		uc.logger.Errorw("ticket transition failed",
			"ticket_id", cmd.TicketID, "target_status", cmd.TargetStatus, "error", err)
		return nil, err
	}

	uc.publishAfterCommit(result.events)

	uc.logger.Infow("ticket transitioned successfully",
		"ticket_id", cmd.TicketID, "from", result.oldStatus, "to", result.ticket.Status())

	return &TransitionTicketResult{
		Ticket:    dto.ToTicketDTO(result.ticket),
		OldStatus: result.oldStatus.String(),
		NewStatus: result.ticket.Status().String(),
	}, nil
}

// apply runs the transition inside an existing unit of work. The caller holds
// the per-ticket lock.
func (uc *TransitionTicketUseCase) apply(ctx context.Context, cmd TransitionTicketCommand) (*applied, error) {
	target, err := vo.NewTicketStatus(cmd.TargetStatus)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	from := t.Status()
	now := biztime.NowUTC()
	var evts []events.DomainEvent

	// Template-less tickets skip the approval stage entirely: submit lands
	// them in open without ever creating a process.
	shortCircuit := from.IsDraft() && target == vo.StatusWaitingApproval && !t.RequiresApproval()

	if err := t.Transition(target, cmd.Actor); err != nil {
		return nil, err
	}

	if shortCircuit {
		if err := t.Transition(vo.StatusOpen, ticket.SystemActor(cmd.Actor.ID)); err != nil {
			return nil, err
		}
	}

	if from.IsDraft() && !t.Status().IsDraft() && target == vo.StatusWaitingApproval {
		evts = append(evts, ticket.NewTicketSubmittedEvent(t, cmd.Actor.ID, now))
	}

	if t.Status().IsWaitingApproval() {
		startEvts, startErr := uc.approvalStarter.Start(ctx, t)
		if startErr != nil {
			return nil, startErr
		}
		evts = append(evts, startEvts...)
	}

	if from.IsWaitingApproval() && t.Status().IsOpen() {
		assignEvts, assignErr := uc.applyDefaultAssignee(ctx, t, cmd.Actor.ID, now)
		if assignErr != nil {
			return nil, assignErr
		}
		evts = append(evts, assignEvts...)
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	details := map[string]any{
		"from": from.String(),
		"to":   t.Status().String(),
	}
	if cmd.Reason != "" {
		details["reason"] = cmd.Reason
	}
	note, err := ticket.NewSystemEvent(t.ID(), cmd.Actor.ID, vo.EventStatusChange, details)
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	if err := uc.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	evts = append(evts, ticket.NewTicketStatusChangedEvent(t, from.String(), cmd.Actor.ID, now))

	return &applied{ticket: t, oldStatus: from, events: evts}, nil
}

// applyDefaultAssignee assigns the template's default assignee when approval
// completes and the ticket is still unassigned.
func (uc *TransitionTicketUseCase) applyDefaultAssignee(ctx context.Context, t *ticket.Ticket, actorID uint, now time.Time) ([]events.DomainEvent, error) {
	if t.ApprovalTemplateID() == nil || t.AssignedTo() != nil {
		return nil, nil
	}

	tpl, err := uc.templates.Get(ctx, *t.ApprovalTemplateID())
	if err != nil {
		return nil, err
	}
	if tpl.DefaultAssignee() == nil {
		return nil, nil
	}

	assignee := *tpl.DefaultAssignee()
	if err := t.AssignTo(assignee, actorID); err != nil {
		return nil, errors.NewInternalError(err.Error())
	}

	note, err := ticket.NewSystemEvent(t.ID(), actorID, vo.EventAssignedToChange, map[string]any{
		"from": nil,
		"to":   assignee,
	})
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	if err := uc.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	return []events.DomainEvent{ticket.NewTicketAssignedEvent(t, assignee, actorID, now)}, nil
}

func (uc *TransitionTicketUseCase) publishAfterCommit(evts []events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	goroutine.SafeGo(uc.logger, "publish ticket transition events", func() {
		if err := uc.publisher.PublishAll(evts); err != nil {
			uc.logger.Warnw("failed to publish ticket transition events", "error", err)
		}
	})
}

func (uc *TransitionTicketUseCase) validateCommand(cmd TransitionTicketCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.TargetStatus == "" {
		return errors.NewValidationError("target status is required")
	}
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("actor ID is required")
	}
	return nil
}
