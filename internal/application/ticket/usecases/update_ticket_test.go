package usecases

import (
	"context"
	"testing"
	"time"

	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpdateUseCase(ticketRepo *mockTicketRepository, noteRepo *mockNoteRepository) *UpdateTicketUseCase {
	return NewUpdateTicketUseCase(ticketRepo, noteRepo, passthroughTxManager{}, lock.NewKeyedMutex(), noopLogger{})
}

func TestUpdateTicketUseCase_RecordsOneEventPerChangedField(t *testing.T) {
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

	uc := newUpdateUseCase(ticketRepo, noteRepo)

	result, err := uc.Execute(context.Background(), UpdateTicketCommand{
		TicketID: 1,
		Title:    strPtr("faster laptop"),
		Priority: strPtr("high"),
		Actor:    ticket.Actor{ID: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, "faster laptop", result.Title)
	assert.Equal(t, "high", result.Priority)

	require.Len(t, savedNotes, 2)
	assert.Equal(t, vo.EventTitleChange, savedNotes[0].EventType())
	assert.Equal(t, "new laptop", savedNotes[0].EventDetails()["from"])
	assert.Equal(t, "faster laptop", savedNotes[0].EventDetails()["to"])
	assert.Equal(t, vo.EventPriorityChange, savedNotes[1].EventType())
}

func TestUpdateTicketUseCase_UnchangedFieldProducesNoEvent(t *testing.T) {
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

	uc := newUpdateUseCase(ticketRepo, noteRepo)

	_, err := uc.Execute(context.Background(), UpdateTicketCommand{
		TicketID: 1,
		Title:    strPtr("new laptop"),
		Actor:    ticket.Actor{ID: 10},
	})

	require.Error(t, err, "an update that changes nothing is rejected")
	assert.Empty(t, savedNotes)
}

func TestUpdateTicketUseCase_ClearDueDate(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusOpen, 10, nil, nil)
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tk.ChangeDueDate(&due, 10)

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

	uc := newUpdateUseCase(ticketRepo, noteRepo)

	result, err := uc.Execute(context.Background(), UpdateTicketCommand{
		TicketID: 1,
		ClearDue: true,
		Actor:    ticket.Actor{ID: 10},
	})

	require.NoError(t, err)
	assert.Nil(t, result.DueDate)
	require.Len(t, savedNotes, 1)
	assert.Equal(t, vo.EventDueDateChange, savedNotes[0].EventType())
	assert.Nil(t, savedNotes[0].EventDetails()["to"])
}

func TestUpdateTicketUseCase_Permissions(t *testing.T) {
	assignee := uint(11)

	tests := []struct {
		name    string
		actor   ticket.Actor
		wantErr bool
	}{
		{"creator may edit", ticket.Actor{ID: 10}, false},
		{"assignee may edit", ticket.Actor{ID: assignee}, false},
		{"admin may edit", ticket.Actor{ID: 99, Roles: []string{"admin"}}, false},
		{"stranger may not", ticket.Actor{ID: 99}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := makeTicket(t, 1, vo.StatusOpen, 10, &assignee, nil)
			ticketRepo := &mockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
			}

			uc := newUpdateUseCase(ticketRepo, &mockNoteRepository{})

			_, err := uc.Execute(context.Background(), UpdateTicketCommand{
				TicketID: 1,
				Title:    strPtr("renamed"),
				Actor:    tt.actor,
			})

			if tt.wantErr {
				require.Error(t, err)
				appErr := errors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUpdateTicketUseCase_TerminalTicketIsNotEditable(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusClosed, 10, nil, nil)
	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}

	uc := newUpdateUseCase(ticketRepo, &mockNoteRepository{})

	_, err := uc.Execute(context.Background(), UpdateTicketCommand{
		TicketID: 1,
		Title:    strPtr("renamed"),
		Actor:    ticket.Actor{ID: 10},
	})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}
