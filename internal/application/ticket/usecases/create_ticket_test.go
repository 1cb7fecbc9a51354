package usecases

import (
	"context"
	"testing"

	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTicketUseCase_Execute_Success(t *testing.T) {
	var saved *ticket.Ticket
	ticketRepo := &mockTicketRepository{
		SaveFunc: func(ctx context.Context, tk *ticket.Ticket) error {
			saved = tk
			return tk.SetID(7)
		},
	}

	uc := NewCreateTicketUseCase(ticketRepo, &mockNumberGenerator{}, noopLogger{})

	result, err := uc.Execute(context.Background(), CreateTicketCommand{
		Title:              "need a monitor",
		Description:        "27 inch",
		Priority:           "medium",
		ApprovalTemplateID: uintPtr(3),
		CreatorID:          10,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(7), result.TicketID)
	assert.Equal(t, "T-20250101-0001", result.Number)
	assert.Equal(t, "draft", result.Status)

	require.NotNil(t, saved)
	require.NotNil(t, saved.ApprovalTemplateID())
	assert.Equal(t, uint(3), *saved.ApprovalTemplateID())
	assert.Equal(t, "internal", saved.Visibility().String())
}

func TestCreateTicketUseCase_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateTicketCommand
	}{
		{"missing title", CreateTicketCommand{Priority: "low", CreatorID: 1}},
		{"missing creator", CreateTicketCommand{Title: "x", Priority: "low"}},
		{"invalid priority", CreateTicketCommand{Title: "x", Priority: "extreme", CreatorID: 1}},
		{"invalid visibility", CreateTicketCommand{Title: "x", Priority: "low", Visibility: "secret", CreatorID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCreateTicketUseCase(&mockTicketRepository{}, &mockNumberGenerator{}, noopLogger{})

			result, err := uc.Execute(context.Background(), tt.cmd)

			require.Error(t, err)
			assert.Nil(t, result)
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		})
	}
}

func TestCreateTicketUseCase_Execute_RestrictedVisibility(t *testing.T) {
	ticketRepo := &mockTicketRepository{
		SaveFunc: func(ctx context.Context, tk *ticket.Ticket) error { return tk.SetID(1) },
	}
	uc := NewCreateTicketUseCase(ticketRepo, &mockNumberGenerator{}, noopLogger{})

	result, err := uc.Execute(context.Background(), CreateTicketCommand{
		Title:      "salary adjustment",
		Priority:   "high",
		Visibility: "restricted",
		CreatorID:  10,
	})

	require.NoError(t, err)
	assert.NotZero(t, result.TicketID)
}
