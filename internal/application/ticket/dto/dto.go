package dto

import (
	"time"

	"deskflow/internal/domain/ticket"
)

type TicketDTO struct {
	ID                 uint       `json:"id"`
	Number             string     `json:"number"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	Visibility         string     `json:"visibility"`
	DueDate            *time.Time `json:"due_date"`
	AssignedTo         *uint      `json:"assigned_to"`
	TicketTemplateID   *uint      `json:"ticket_template_id"`
	ApprovalTemplateID *uint      `json:"approval_template_id"`
	CreatedBy          uint       `json:"created_by"`
	UpdatedBy          uint       `json:"updated_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type NoteDTO struct {
	ID           uint           `json:"id"`
	TicketID     uint           `json:"ticket_id"`
	AuthorID     uint           `json:"author_id"`
	Note         string         `json:"note,omitempty"`
	NoteHTML     string         `json:"note_html,omitempty"`
	EventType    string         `json:"event_type,omitempty"`
	EventDetails map[string]any `json:"event_details,omitempty"`
	IsDeleted    bool           `json:"is_deleted"`
	CreatedAt    time.Time      `json:"created_at"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:                 t.ID(),
		Number:             t.Number(),
		Title:              t.Title(),
		Description:        t.Description(),
		Status:             t.Status().String(),
		Priority:           t.Priority().String(),
		Visibility:         t.Visibility().String(),
		DueDate:            t.DueDate(),
		AssignedTo:         t.AssignedTo(),
		TicketTemplateID:   t.TicketTemplateID(),
		ApprovalTemplateID: t.ApprovalTemplateID(),
		CreatedBy:          t.CreatedBy(),
		UpdatedBy:          t.UpdatedBy(),
		CreatedAt:          t.CreatedAt(),
		UpdatedAt:          t.UpdatedAt(),
	}
}

func ToTicketDTOs(tickets []*ticket.Ticket) []*TicketDTO {
	dtos := make([]*TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		dtos = append(dtos, ToTicketDTO(t))
	}
	return dtos
}

// ToNoteDTO maps a timeline entry. Removed comments keep their row but the
// body is blanked for display; renderedHTML applies only to user comments.
func ToNoteDTO(n *ticket.Note, renderedHTML string) *NoteDTO {
	if n == nil {
		return nil
	}
	d := &NoteDTO{
		ID:        n.ID(),
		TicketID:  n.TicketID(),
		AuthorID:  n.AuthorID(),
		IsDeleted: n.IsDeleted(),
		CreatedAt: n.CreatedAt(),
	}
	if n.IsSystemEvent() {
		d.EventType = n.EventType().String()
		d.EventDetails = n.EventDetails()
		return d
	}
	if !n.IsDeleted() {
		d.Note = n.Body()
		d.NoteHTML = renderedHTML
	}
	return d
}
