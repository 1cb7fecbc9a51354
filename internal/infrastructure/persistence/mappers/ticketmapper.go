package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket domain entities and
// persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	NoteToModel(n *ticket.Note) (*models.NoteModel, error)
	NoteToDomain(model *models.NoteModel) (*ticket.Note, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:                 t.ID(),
		Number:             t.Number(),
		Title:              t.Title(),
		Description:        t.Description(),
		Status:             t.Status().String(),
		Priority:           t.Priority().String(),
		Visibility:         t.Visibility().String(),
		AssignedTo:         t.AssignedTo(),
		TicketTemplateID:   t.TicketTemplateID(),
		ApprovalTemplateID: t.ApprovalTemplateID(),
		CreatedBy:          t.CreatedBy(),
		UpdatedBy:          t.UpdatedBy(),
		Version:            t.Version(),
		CreatedAt:          t.CreatedAt().UnixMilli(),
		UpdatedAt:          t.UpdatedAt().UnixMilli(),
	}

	if t.DueDate() != nil {
		due := t.DueDate().UnixMilli()
		model.DueDate = &due
	}

	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket status (id=%d): %w", model.ID, err)
	}

	var dueDate *time.Time
	if model.DueDate != nil {
		t := millisToTime(*model.DueDate)
		dueDate = &t
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Number,
		model.Title,
		model.Description,
		status,
		vo.Priority(model.Priority),
		vo.Visibility(model.Visibility),
		dueDate,
		model.AssignedTo,
		model.TicketTemplateID,
		model.ApprovalTemplateID,
		model.CreatedBy,
		model.UpdatedBy,
		model.Version,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}

func (m *TicketMapperImpl) NoteToModel(n *ticket.Note) (*models.NoteModel, error) {
	model := &models.NoteModel{
		ID:        n.ID(),
		TicketID:  n.TicketID(),
		AuthorID:  n.AuthorID(),
		Body:      n.Body(),
		EventType: n.EventType().String(),
		CreatedAt: n.CreatedAt().UnixMilli(),
		DeletedBy: n.DeletedBy(),
	}

	if len(n.EventDetails()) > 0 {
		detailsJSON, err := json.Marshal(n.EventDetails())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal note event details: %w", err)
		}
		model.EventDetails = datatypes.JSON(detailsJSON)
	}

	if n.DeletedAt() != nil {
		deleted := n.DeletedAt().UnixMilli()
		model.DeletedAt = &deleted
	}

	return model, nil
}

func (m *TicketMapperImpl) NoteToDomain(model *models.NoteModel) (*ticket.Note, error) {
	var details map[string]any
	if len(model.EventDetails) > 0 {
		if err := json.Unmarshal(model.EventDetails, &details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal note event details (id=%d): %w", model.ID, err)
		}
	}

	var deletedAt *time.Time
	if model.DeletedAt != nil {
		t := millisToTime(*model.DeletedAt)
		deletedAt = &t
	}

	return ticket.ReconstructNote(
		model.ID,
		model.TicketID,
		model.AuthorID,
		model.Body,
		vo.EventType(model.EventType),
		details,
		millisToTime(model.CreatedAt),
		model.DeletedBy,
		deletedAt,
	)
}

func millisToTime(millis int64) time.Time {
	return time.Unix(0, millis*int64(time.Millisecond))
}
