package ticket

import (
	"fmt"
	"time"

	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
)

type Ticket struct {
	id                 uint
	number             string
	title              string
	description        string
	status             vo.TicketStatus
	priority           vo.Priority
	visibility         vo.Visibility
	dueDate            *time.Time
	assignedTo         *uint
	ticketTemplateID   *uint
	approvalTemplateID *uint
	createdBy          uint
	updatedBy          uint
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

func NewTicket(
	title string,
	description string,
	priority vo.Priority,
	visibility vo.Visibility,
	createdBy uint,
) (*Ticket, error) {
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("title exceeds maximum length of 200 characters")
	}
	if len(description) > 5000 {
		return nil, fmt.Errorf("description exceeds maximum length of 5000 characters")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("invalid visibility")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	now := biztime.NowUTC()
	return &Ticket{
		title:       title,
		description: description,
		status:      vo.StatusDraft,
		priority:    priority,
		visibility:  visibility,
		createdBy:   createdBy,
		updatedBy:   createdBy,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	id uint,
	number string,
	title string,
	description string,
	status vo.TicketStatus,
	priority vo.Priority,
	visibility vo.Visibility,
	dueDate *time.Time,
	assignedTo *uint,
	ticketTemplateID *uint,
	approvalTemplateID *uint,
	createdBy uint,
	updatedBy uint,
	version int,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(number) == 0 {
		return nil, fmt.Errorf("ticket number is required")
	}
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("invalid visibility")
	}

	return &Ticket{
		id:                 id,
		number:             number,
		title:              title,
		description:        description,
		status:             status,
		priority:           priority,
		visibility:         visibility,
		dueDate:            dueDate,
		assignedTo:         assignedTo,
		ticketTemplateID:   ticketTemplateID,
		approvalTemplateID: approvalTemplateID,
		createdBy:          createdBy,
		updatedBy:          updatedBy,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (t *Ticket) ID() uint                  { return t.id }
func (t *Ticket) Number() string            { return t.number }
func (t *Ticket) Title() string             { return t.title }
func (t *Ticket) Description() string       { return t.description }
func (t *Ticket) Status() vo.TicketStatus   { return t.status }
func (t *Ticket) Priority() vo.Priority     { return t.priority }
func (t *Ticket) Visibility() vo.Visibility { return t.visibility }
func (t *Ticket) DueDate() *time.Time       { return t.dueDate }
func (t *Ticket) AssignedTo() *uint         { return t.assignedTo }
func (t *Ticket) TicketTemplateID() *uint   { return t.ticketTemplateID }
func (t *Ticket) ApprovalTemplateID() *uint { return t.approvalTemplateID }
func (t *Ticket) CreatedBy() uint           { return t.createdBy }
func (t *Ticket) UpdatedBy() uint           { return t.updatedBy }
func (t *Ticket) Version() int              { return t.version }
func (t *Ticket) CreatedAt() time.Time      { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time      { return t.updatedAt }

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetNumber(number string) error {
	if len(t.number) > 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if len(number) == 0 {
		return fmt.Errorf("ticket number cannot be empty")
	}
	t.number = number
	return nil
}

// SetApprovalTemplate binds an approval template to a draft ticket. The
// binding is immutable once an approval process has been instantiated, which
// can only happen after the ticket leaves draft.
func (t *Ticket) SetApprovalTemplate(templateID uint) error {
	if !t.status.IsDraft() {
		return fmt.Errorf("approval template can only be set while ticket is draft")
	}
	t.approvalTemplateID = &templateID
	return nil
}

// Transition validates and applies a status change according to the lifecycle
// table and the caller guard for that edge. It returns an InvalidTransition
// error when the edge is not in the table, and NotAuthorized when the edge
// exists but the actor fails its guard.
func (t *Ticket) Transition(target vo.TicketStatus, actor Actor) error {
	if !target.IsValid() {
		return errors.NewValidationError(fmt.Sprintf("invalid status: %s", target))
	}

	if !t.status.CanTransitionTo(target) {
		return errors.NewInvalidTransitionError(t.status.String(), target.String())
	}

	if err := t.checkGuard(target, actor); err != nil {
		return err
	}

	t.status = target
	t.touch(actor.ID)
	return nil
}

func (t *Ticket) checkGuard(target vo.TicketStatus, actor Actor) error {
	if actor.System {
		// Engine-triggered edges are the only ones a system actor may take.
		if t.status.IsWaitingApproval() && (target == vo.StatusOpen || target == vo.StatusRejected) {
			return nil
		}
		return errors.NewForbiddenError("transition is not system-triggerable",
			fmt.Sprintf("from %s to %s", t.status, target))
	}

	switch {
	case t.status.IsDraft():
		// draft -> waiting_approval | cancelled: creator only
		if actor.ID != t.createdBy {
			return errors.NewForbiddenError("only the ticket creator may perform this transition")
		}
	case t.status.IsWaitingApproval():
		// waiting_approval edges belong to the approval engine
		return errors.NewForbiddenError("approval outcome transitions are driven by the approval process")
	case t.status.IsOpen():
		if target == vo.StatusInProgress {
			if t.assignedTo == nil || actor.ID != *t.assignedTo {
				return errors.NewForbiddenError("only the assignee may start work on the ticket")
			}
		} else if target == vo.StatusCancelled {
			if actor.ID != t.createdBy && !actor.IsAdmin() {
				return errors.NewForbiddenError("only the creator or an admin may cancel the ticket")
			}
		}
	case t.status.IsInProgress():
		if t.assignedTo == nil || actor.ID != *t.assignedTo {
			return errors.NewForbiddenError("only the assignee may resolve the ticket")
		}
	case t.status.IsResolved():
		// resolved -> closed | in_progress (reopen): creator only
		if actor.ID != t.createdBy {
			return errors.NewForbiddenError("only the ticket creator may close or reopen the ticket")
		}
	}
	return nil
}

// RequiresApproval reports whether submitting the ticket must instantiate an
// approval process. Template-less tickets take the immediate-approve path.
func (t *Ticket) RequiresApproval() bool {
	return t.approvalTemplateID != nil
}

func (t *Ticket) AssignTo(assigneeID uint, assignedBy uint) error {
	if assigneeID == 0 {
		return fmt.Errorf("assignee ID cannot be zero")
	}
	if t.status.IsTerminal() {
		return fmt.Errorf("cannot assign a %s ticket", t.status)
	}

	t.assignedTo = &assigneeID
	t.touch(assignedBy)
	return nil
}

func (t *Ticket) ChangeTitle(title string, changedBy uint) error {
	if len(title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(title) > 200 {
		return fmt.Errorf("title exceeds maximum length of 200 characters")
	}
	t.title = title
	t.touch(changedBy)
	return nil
}

func (t *Ticket) ChangeDescription(description string, changedBy uint) error {
	if len(description) > 5000 {
		return fmt.Errorf("description exceeds maximum length of 5000 characters")
	}
	t.description = description
	t.touch(changedBy)
	return nil
}

func (t *Ticket) ChangePriority(priority vo.Priority, changedBy uint) error {
	if !priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", priority)
	}
	t.priority = priority
	t.touch(changedBy)
	return nil
}

func (t *Ticket) ChangeDueDate(dueDate *time.Time, changedBy uint) {
	t.dueDate = dueDate
	t.touch(changedBy)
}

// IsEditable reports whether mutable fields may still change.
func (t *Ticket) IsEditable() bool {
	return !t.status.IsTerminal() && !t.status.IsRejected()
}

func (t *Ticket) touch(by uint) {
	t.updatedBy = by
	t.updatedAt = biztime.NowUTC()
	t.version++
}
