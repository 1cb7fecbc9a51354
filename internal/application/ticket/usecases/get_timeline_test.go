package usecases

import (
	"context"
	"testing"

	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTimelineUseCase_MixesCommentsAndEvents(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusOpen, 10, nil, nil)
	now := biztime.NowUTC()

	comment, err := ticket.ReconstructNote(1, 1, 30, "please expedite", "", nil, now, nil, nil)
	require.NoError(t, err)
	event, err := ticket.ReconstructNote(2, 1, 10, "", vo.EventStatusChange,
		map[string]any{"from": "draft", "to": "open"}, now, nil, nil)
	require.NoError(t, err)
	deletedBy := uint(99)
	removed, err := ticket.ReconstructNote(3, 1, 30, "rude remark", "", nil, now, &deletedBy, &now)
	require.NoError(t, err)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	noteRepo := &mockNoteRepository{
		ListByTicketIDFunc: func(ctx context.Context, ticketID uint) ([]*ticket.Note, error) {
			return []*ticket.Note{comment, event, removed}, nil
		},
	}

	uc := NewGetTimelineUseCase(ticketRepo, noteRepo, &mockViewPolicy{}, &mockRenderer{}, noopLogger{})

	result, err := uc.Execute(context.Background(), GetTimelineQuery{TicketID: 1, Actor: ticket.Actor{ID: 10}})

	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, "please expedite", result[0].Note)
	assert.Equal(t, "<p>please expedite</p>", result[0].NoteHTML)

	assert.Equal(t, "status_change", result[1].EventType)
	assert.Equal(t, "open", result[1].EventDetails["to"])
	assert.Empty(t, result[1].Note)

	// Removed comments keep their row but hide the body.
	assert.True(t, result[2].IsDeleted)
	assert.Empty(t, result[2].Note)
	assert.Empty(t, result[2].NoteHTML)
}

func TestGetTimelineUseCase_DeniedIsForbidden(t *testing.T) {
	tk := makeTicket(t, 1, vo.StatusOpen, 10, nil, nil)
	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	policy := &mockViewPolicy{
		CanViewFunc: func(ctx context.Context, t *ticket.Ticket, actor ticket.Actor) (bool, error) {
			return false, nil
		},
	}

	uc := NewGetTimelineUseCase(ticketRepo, &mockNoteRepository{}, policy, &mockRenderer{}, noopLogger{})

	_, err := uc.Execute(context.Background(), GetTimelineQuery{TicketID: 1, Actor: ticket.Actor{ID: 99}})

	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
}
