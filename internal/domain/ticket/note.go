package ticket

import (
	"fmt"
	"time"

	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/biztime"
)

// Note is one timeline entry on a ticket: either a user comment or a system
// event, never both and never neither. Notes are append-only facts; after
// creation only the moderation soft-delete flag may change.
type Note struct {
	id           uint
	ticketID     uint
	authorID     uint
	body         string
	eventType    vo.EventType
	eventDetails map[string]any
	createdAt    time.Time
	deletedBy    *uint
	deletedAt    *time.Time
}

// NewUserNote creates a user comment entry.
func NewUserNote(ticketID, authorID uint, body string) (*Note, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("note body cannot be empty")
	}
	if len(body) > 5000 {
		return nil, fmt.Errorf("note body exceeds maximum length of 5000 characters")
	}

	return &Note{
		ticketID:  ticketID,
		authorID:  authorID,
		body:      body,
		createdAt: biztime.NowUTC(),
	}, nil
}

// NewSystemEvent creates a system event entry with a type-specific payload.
func NewSystemEvent(ticketID, authorID uint, eventType vo.EventType, details map[string]any) (*Note, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	if !eventType.IsValid() {
		return nil, fmt.Errorf("invalid event type: %s", eventType)
	}

	return &Note{
		ticketID:     ticketID,
		authorID:     authorID,
		eventType:    eventType,
		eventDetails: details,
		createdAt:    biztime.NowUTC(),
	}, nil
}

func ReconstructNote(
	id uint,
	ticketID uint,
	authorID uint,
	body string,
	eventType vo.EventType,
	eventDetails map[string]any,
	createdAt time.Time,
	deletedBy *uint,
	deletedAt *time.Time,
) (*Note, error) {
	if id == 0 {
		return nil, fmt.Errorf("note ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if body == "" && eventType == "" {
		return nil, fmt.Errorf("note must carry either a body or an event")
	}
	if body != "" && eventType != "" {
		return nil, fmt.Errorf("note cannot carry both a body and an event")
	}

	return &Note{
		id:           id,
		ticketID:     ticketID,
		authorID:     authorID,
		body:         body,
		eventType:    eventType,
		eventDetails: eventDetails,
		createdAt:    createdAt,
		deletedBy:    deletedBy,
		deletedAt:    deletedAt,
	}, nil
}

func (n *Note) ID() uint                      { return n.id }
func (n *Note) TicketID() uint                { return n.ticketID }
func (n *Note) AuthorID() uint                { return n.authorID }
func (n *Note) Body() string                  { return n.body }
func (n *Note) EventType() vo.EventType       { return n.eventType }
func (n *Note) EventDetails() map[string]any  { return n.eventDetails }
func (n *Note) CreatedAt() time.Time          { return n.createdAt }
func (n *Note) DeletedBy() *uint              { return n.deletedBy }
func (n *Note) DeletedAt() *time.Time         { return n.deletedAt }

// IsSystemEvent reports whether the entry is a system event rather than a user comment.
func (n *Note) IsSystemEvent() bool {
	return n.eventType != ""
}

func (n *Note) IsDeleted() bool {
	return n.deletedAt != nil
}

func (n *Note) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("note ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("note ID cannot be zero")
	}
	n.id = id
	return nil
}

// MarkDeleted flags a user comment as removed for moderation. System events
// are immutable history and cannot be removed.
func (n *Note) MarkDeleted(by uint) error {
	if n.IsSystemEvent() {
		return fmt.Errorf("system events cannot be removed")
	}
	if n.IsDeleted() {
		return fmt.Errorf("note is already removed")
	}
	now := biztime.NowUTC()
	n.deletedBy = &by
	n.deletedAt = &now
	return nil
}
