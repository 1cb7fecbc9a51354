package usecases

import (
	"context"

	"deskflow/internal/application/approval/dto"
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

type DecideStepCommand struct {
	StepID  uint
	ActorID uint
	Outcome string
	Comment string
}

// DecideStepUseCase applies one approver decision. A step is decided exactly
// once: the per-ticket lock serializes decisions on the same process, and the
// repository's compare-and-set on the pending status turns a concurrent
// double-submit into AlreadyDecided instead of a second success. Terminal
// outcomes call back into the ticket lifecycle through TransitionRequester
// within the same transaction.
type DecideStepUseCase struct {
	processRepo approval.ProcessRepository
	noteRepo    ticket.NoteRepository
	proxies     approval.ProxyLookup
	transitions approval.TransitionRequester
	txManager   TxManager
	locks       *lock.KeyedMutex
	publisher   events.Publisher
	logger      logger.Interface
}

func NewDecideStepUseCase(
	processRepo approval.ProcessRepository,
	noteRepo ticket.NoteRepository,
	proxies approval.ProxyLookup,
	transitions approval.TransitionRequester,
	txManager TxManager,
	locks *lock.KeyedMutex,
	publisher events.Publisher,
	logger logger.Interface,
) *DecideStepUseCase {
	return &DecideStepUseCase{
		processRepo: processRepo,
		noteRepo:    noteRepo,
		proxies:     proxies,
		transitions: transitions,
		txManager:   txManager,
		locks:       locks,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *DecideStepUseCase) Execute(ctx context.Context, cmd DecideStepCommand) (*dto.StepDTO, error) {
	uc.logger.Infow("executing decide step use case",
		"step_id", cmd.StepID, "actor_id", cmd.ActorID, "outcome", cmd.Outcome)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid decide step command", "error", err)
		return nil, err
	}

	// The ticket id is needed before the lock can be taken; the process is
	// re-read inside the transaction for a fresh view.
	located, err := uc.processRepo.GetByStepID(ctx, cmd.StepID)
	if err != nil {
		return nil, err
	}
	ticketID := located.TicketID()

	uc.locks.Lock(ticketID)
	defer uc.locks.Unlock(ticketID)

	var decided *approval.Step
	var evts []events.DomainEvent
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		decided, evts, txErr = uc.decide(txCtx, cmd)
		return txErr
	})
	if err != nil {
		uc.logger.Errorw("step decision failed", "step_id", cmd.StepID, "error", err)
		return nil, err
	}

	uc.publishAfterCommit(evts)

	uc.logger.Infow("step decided successfully",
		"step_id", cmd.StepID, "outcome", cmd.Outcome, "ticket_id", ticketID)

	result := dto.ToStepDTO(decided)
	return &result, nil
}

func (uc *DecideStepUseCase) decide(ctx context.Context, cmd DecideStepCommand) (*approval.Step, []events.DomainEvent, error) {
	process, err := uc.processRepo.GetByStepID(ctx, cmd.StepID)
	if err != nil {
		return nil, nil, err
	}

	step := process.StepByID(cmd.StepID)
	if step == nil {
		return nil, nil, errors.NewStepNotFoundError(cmd.StepID)
	}
	if !step.Status().IsPending() {
		return nil, nil, errors.NewAlreadyDecidedError(cmd.StepID, step.Status().String())
	}
	// A pending step of a terminated process (a later step after an earlier
	// rejection) was never decided; it is simply no longer actionable.
	if !process.Status().IsPending() || step.StepOrder() != process.CurrentStep() {
		return nil, nil, errors.NewStepNotActionableError(cmd.StepID, step.StepOrder(), process.CurrentStep())
	}

	proxyID, err := uc.authorize(ctx, step, cmd.ActorID)
	if err != nil {
		return nil, nil, err
	}

	outcome := approval.Outcome(cmd.Outcome)
	if err := step.Decide(outcome, cmd.Comment, proxyID); err != nil {
		return nil, nil, errors.NewValidationError(err.Error())
	}
	if err := uc.processRepo.UpdateStepDecision(ctx, step); err != nil {
		return nil, nil, err
	}

	now := biztime.NowUTC()
	evts := []events.DomainEvent{approval.NewStepDecidedEvent(process, step, cmd.ActorID, now)}

	if err := uc.recordDecision(ctx, process, step, cmd.ActorID); err != nil {
		return nil, nil, err
	}

	switch outcome {
	case approval.OutcomeReject:
		// Any rejection is final for the whole process.
		process.MarkRejected()
		if err := uc.processRepo.Update(ctx, process); err != nil {
			return nil, nil, err
		}
		transEvts, err := uc.transitions.RequestTransition(ctx, process.TicketID(), vo.StatusRejected.String(), cmd.ActorID)
		if err != nil {
			return nil, nil, err
		}
		evts = append(evts, transEvts...)
		evts = append(evts, approval.NewProcessCompletedEvent(process, now))

	case approval.OutcomeApprove:
		done := process.Advance()
		if err := uc.processRepo.Update(ctx, process); err != nil {
			return nil, nil, err
		}
		if done {
			transEvts, err := uc.transitions.RequestTransition(ctx, process.TicketID(), vo.StatusOpen.String(), cmd.ActorID)
			if err != nil {
				return nil, nil, err
			}
			evts = append(evts, transEvts...)
			evts = append(evts, approval.NewProcessCompletedEvent(process, now))
		} else if next := process.CurrentStepEntity(); next != nil {
			evts = append(evts, approval.NewApprovalRequestedEvent(process, next, now))
		}
	}

	return step, evts, nil
}

// authorize returns the proxy id to record: nil when the actor is the
// designated approver, the actor's id when acting as a confirmed proxy.
func (uc *DecideStepUseCase) authorize(ctx context.Context, step *approval.Step, actorID uint) (*uint, error) {
	if actorID == step.ApproverID() {
		return nil, nil
	}

	ok, err := uc.proxies.IsProxyFor(ctx, step.ApproverID(), actorID, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("proxy lookup failed",
			"approver_id", step.ApproverID(), "actor_id", actorID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, errors.NewNotAuthorizedError(step.ID())
	}
	return &actorID, nil
}

func (uc *DecideStepUseCase) recordDecision(ctx context.Context, process *approval.Process, step *approval.Step, actorID uint) error {
	eventType := vo.EventApprovalApproved
	if step.Status() == approval.StepStatusRejected {
		eventType = vo.EventApprovalRejected
	}

	details := map[string]any{
		"step_order":  step.StepOrder(),
		"outcome":     step.Status().String(),
		"approver_id": step.ApproverID(),
	}
	if step.ProxyID() != nil {
		details["proxy_id"] = *step.ProxyID()
	}
	if step.Comment() != "" {
		details["comment"] = step.Comment()
	}

	note, err := ticket.NewSystemEvent(process.TicketID(), actorID, eventType, details)
	if err != nil {
		return errors.NewInternalError(err.Error())
	}
	return uc.noteRepo.Save(ctx, note)
}

func (uc *DecideStepUseCase) publishAfterCommit(evts []events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	goroutine.SafeGo(uc.logger, "publish approval decision events", func() {
		if err := uc.publisher.PublishAll(evts); err != nil {
			uc.logger.Warnw("failed to publish approval decision events", "error", err)
		}
	})
}

func (uc *DecideStepUseCase) validateCommand(cmd DecideStepCommand) error {
	if cmd.StepID == 0 {
		return errors.NewValidationError("step ID is required")
	}
	if cmd.ActorID == 0 {
		return errors.NewValidationError("actor ID is required")
	}
	if !approval.Outcome(cmd.Outcome).IsValid() {
		return errors.NewValidationError("outcome must be approve or reject")
	}
	if approval.Outcome(cmd.Outcome) == approval.OutcomeReject && cmd.Comment == "" {
		return errors.NewValidationError("a reason is required to reject")
	}
	return nil
}
