package usecases

import (
	"context"
	"testing"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTicket(t *testing.T, id uint, status vo.TicketStatus, createdBy uint, assignedTo, approvalTemplateID *uint) *ticket.Ticket {
	t.Helper()
	now := biztime.NowUTC()
	tk, err := ticket.ReconstructTicket(
		id, "T-20250101-0001", "new laptop", "a fast one",
		status, vo.PriorityMedium, vo.VisibilityInternal,
		nil, assignedTo, nil, approvalTemplateID,
		createdBy, createdBy, 1, now, now,
	)
	require.NoError(t, err)
	return tk
}

func newTransitionUseCase(
	ticketRepo *mockTicketRepository,
	noteRepo *mockNoteRepository,
	templates *mockTemplateResolver,
	starter *mockApprovalStarter,
	publisher *mockPublisher,
) *TransitionTicketUseCase {
	return NewTransitionTicketUseCase(
		ticketRepo, noteRepo, templates, starter,
		passthroughTxManager{}, lock.NewKeyedMutex(), publisher, noopLogger{},
	)
}

func TestTransitionTicketUseCase_SubmitWithTemplate(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusDraft, 10, nil, uintPtr(5))

	var savedNotes []*ticket.Note
	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	noteRepo := &mockNoteRepository{
		SaveFunc: func(ctx context.Context, n *ticket.Note) error {
			savedNotes = append(savedNotes, n)
			return nil
		},
	}
	starter := &mockApprovalStarter{}

	uc := newTransitionUseCase(ticketRepo, noteRepo, &mockTemplateResolver{}, starter, &mockPublisher{})

	result, err := uc.Execute(context.Background(), TransitionTicketCommand{
		TicketID:     1,
		TargetStatus: "waiting_approval",
		Actor:        ticket.Actor{ID: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, "draft", result.OldStatus)
	assert.Equal(t, "waiting_approval", result.NewStatus)
	assert.Equal(t, 1, starter.started)

	require.Len(t, savedNotes, 1)
	assert.Equal(t, vo.EventStatusChange, savedNotes[0].EventType())
	assert.Equal(t, "draft", savedNotes[0].EventDetails()["from"])
	assert.Equal(t, "waiting_approval", savedNotes[0].EventDetails()["to"])
}

func TestTransitionTicketUseCase_SubmitWithoutTemplate(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusDraft, 10, nil, nil)

	var savedNotes []*ticket.Note
	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	noteRepo := &mockNoteRepository{
		SaveFunc: func(ctx context.Context, n *ticket.Note) error {
			savedNotes = append(savedNotes, n)
			return nil
		},
	}
	starter := &mockApprovalStarter{}

	uc := newTransitionUseCase(ticketRepo, noteRepo, &mockTemplateResolver{}, starter, &mockPublisher{})

	result, err := uc.Execute(context.Background(), TransitionTicketCommand{
		TicketID:     1,
		TargetStatus: "waiting_approval",
		Actor:        ticket.Actor{ID: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, "open", result.NewStatus)
	assert.Equal(t, 0, starter.started, "no approval process for template-less tickets")

	require.Len(t, savedNotes, 1)
	assert.Equal(t, "draft", savedNotes[0].EventDetails()["from"])
	assert.Equal(t, "open", savedNotes[0].EventDetails()["to"])
}

func TestTransitionTicketUseCase_InvalidTransition(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusOpen, 10, nil, nil)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}

	uc := newTransitionUseCase(ticketRepo, &mockNoteRepository{}, &mockTemplateResolver{}, &mockApprovalStarter{}, &mockPublisher{})

	_, err := uc.Execute(context.Background(), TransitionTicketCommand{
		TicketID:     1,
		TargetStatus: "resolved",
		Actor:        ticket.Actor{ID: 10},
	})

	require.Error(t, err)
	wfErr := errors.GetWorkflowError(err)
	require.NotNil(t, wfErr)
	assert.Equal(t, errors.ErrorTypeInvalidTransition, wfErr.Type)
	assert.Equal(t, "open", wfErr.FromStatus)
	assert.Equal(t, "resolved", wfErr.ToStatus)
}

func TestTransitionTicketUseCase_GuardRejectsWrongActor(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusDraft, 10, nil, nil)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}

	uc := newTransitionUseCase(ticketRepo, &mockNoteRepository{}, &mockTemplateResolver{}, &mockApprovalStarter{}, &mockPublisher{})

	_, err := uc.Execute(context.Background(), TransitionTicketCommand{
		TicketID:     1,
		TargetStatus: "waiting_approval",
		Actor:        ticket.Actor{ID: 99},
	})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}

func TestTransitionTicketUseCase_ApprovalCompletionAppliesDefaultAssignee(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusWaitingApproval, 10, nil, uintPtr(5))

	step, err := approval.NewTemplateStep(1, 1, uintPtr(20), nil)
	require.NoError(t, err)
	tpl, err := approval.ReconstructTemplate(5, "hardware", uintPtr(42), []approval.TemplateStep{step})
	require.NoError(t, err)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	templates := &mockTemplateResolver{
		GetFunc: func(ctx context.Context, id uint) (*approval.Template, error) { return tpl, nil },
	}

	uc := newTransitionUseCase(ticketRepo, &mockNoteRepository{}, templates, &mockApprovalStarter{}, &mockPublisher{})

	result, err := uc.Execute(context.Background(), TransitionTicketCommand{
		TicketID:     1,
		TargetStatus: "open",
		Actor:        ticket.SystemActor(20),
	})

	require.NoError(t, err)
	assert.Equal(t, "open", result.NewStatus)
	require.NotNil(t, result.Ticket.AssignedTo)
	assert.Equal(t, uint(42), *result.Ticket.AssignedTo)
}

func TestTransitionTicketUseCase_ValidationErrors(t *testing.T) {
	uc := newTransitionUseCase(&mockTicketRepository{}, &mockNoteRepository{}, &mockTemplateResolver{}, &mockApprovalStarter{}, &mockPublisher{})

	tests := []struct {
		name string
		cmd  TransitionTicketCommand
	}{
		{"missing ticket id", TransitionTicketCommand{TargetStatus: "open", Actor: ticket.Actor{ID: 1}}},
		{"missing target", TransitionTicketCommand{TicketID: 1, Actor: ticket.Actor{ID: 1}}},
		{"missing actor", TransitionTicketCommand{TicketID: 1, TargetStatus: "open"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		})
	}
}
