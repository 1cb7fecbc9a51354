package usecases

import (
	"context"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

// StartProcessUseCase materializes an approval process from the ticket's
// bound template: one process row plus one pending step per template step,
// with role designations resolved to concrete approvers at this moment.
// Instantiation is all-or-nothing; it runs inside the submitting transition's
// transaction, so a failed role resolution rolls back the submit entirely.
type StartProcessUseCase struct {
	templates    approval.TemplateResolver
	roleResolver approval.RoleApproverResolver
	processRepo  approval.ProcessRepository
	noteRepo     ticket.NoteRepository
	logger       logger.Interface
}

func NewStartProcessUseCase(
	templates approval.TemplateResolver,
	roleResolver approval.RoleApproverResolver,
	processRepo approval.ProcessRepository,
	noteRepo ticket.NoteRepository,
	logger logger.Interface,
) *StartProcessUseCase {
	return &StartProcessUseCase{
		templates:    templates,
		roleResolver: roleResolver,
		processRepo:  processRepo,
		noteRepo:     noteRepo,
		logger:       logger,
	}
}

func (uc *StartProcessUseCase) Start(ctx context.Context, t *ticket.Ticket) ([]events.DomainEvent, error) {
	uc.logger.Infow("starting approval process", "ticket_id", t.ID())

	// An unset template id is the same configuration failure as a deleted one.
	if t.ApprovalTemplateID() == nil {
		return nil, errors.NewTemplateNotFoundError(0)
	}

	tpl, err := uc.templates.Get(ctx, *t.ApprovalTemplateID())
	if err != nil {
		uc.logger.Errorw("failed to resolve approval template",
			"ticket_id", t.ID(), "template_id", *t.ApprovalTemplateID(), "error", err)
		return nil, err
	}
	if tpl.IsEmpty() {
		return nil, errors.NewEmptyTemplateError(tpl.ID())
	}

	steps, err := uc.resolveSteps(ctx, tpl)
	if err != nil {
		return nil, err
	}

	process, err := approval.NewProcess(t.ID(), tpl.ID(), steps)
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	if err := uc.processRepo.Save(ctx, process); err != nil {
		uc.logger.Errorw("failed to save approval process", "ticket_id", t.ID(), "error", err)
		return nil, err
	}

	note, err := ticket.NewSystemEvent(t.ID(), t.CreatedBy(), vo.EventApprovalSubmitted, map[string]any{
		"process_id":  process.ID(),
		"template_id": tpl.ID(),
		"steps":       len(steps),
	})
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	if err := uc.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	uc.logger.Infow("approval process started",
		"ticket_id", t.ID(), "process_id", process.ID(), "steps", len(steps))

	first := process.CurrentStepEntity()
	return []events.DomainEvent{approval.NewApprovalRequestedEvent(process, first, biztime.NowUTC())}, nil
}

// resolveSteps maps template steps to pending process steps, resolving each
// role designation to the single approver it yields right now.
func (uc *StartProcessUseCase) resolveSteps(ctx context.Context, tpl *approval.Template) ([]*approval.Step, error) {
	steps := make([]*approval.Step, 0, len(tpl.Steps()))
	for _, ts := range tpl.Steps() {
		approverID, err := uc.resolveApprover(ctx, ts)
		if err != nil {
			return nil, err
		}
		step, err := approval.NewStep(ts.StepOrder(), approverID)
		if err != nil {
			return nil, errors.NewInternalError(err.Error())
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (uc *StartProcessUseCase) resolveApprover(ctx context.Context, ts approval.TemplateStep) (uint, error) {
	if !ts.IsRoleStep() {
		return *ts.ApproverUserID(), nil
	}

	roleID := *ts.ApproverRoleID()
	approverID, err := uc.roleResolver.Resolve(ctx, roleID)
	if err != nil || approverID == 0 {
		uc.logger.Errorw("role resolution yielded no approver", "role_id", roleID, "error", err)
		return 0, errors.NewNoEligibleApproverError(roleID)
	}
	return approverID, nil
}
