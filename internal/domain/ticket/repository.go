package ticket

import (
	"context"

	vo "deskflow/internal/domain/ticket/valueobjects"
)

type TicketRepository interface {
	Save(ctx context.Context, ticket *Ticket) error
	// Update persists the entity guarded by its version: the row is only
	// written when the stored version matches the entity's previous one, so
	// concurrent writers surface as conflicts instead of lost updates.
	Update(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	CountByStatus(ctx context.Context) (map[vo.TicketStatus]int64, error)
}

type TicketFilter struct {
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	CreatorID  *uint
	AssigneeID *uint
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
	// Viewer scopes the result set to tickets the actor may read. Both the
	// page and the total count see only viewable rows, so a restricted
	// ticket never shows up in pagination arithmetic. Nil means unscoped
	// (internal callers).
	Viewer *Actor
}

type NoteRepository interface {
	Save(ctx context.Context, note *Note) error
	// ListByTicketID returns all timeline entries in ascending creation order.
	ListByTicketID(ctx context.Context, ticketID uint) ([]*Note, error)
	GetByID(ctx context.Context, noteID uint) (*Note, error)
	// MarkDeleted persists the moderation soft-delete flag. Rows are never
	// hard-deleted.
	MarkDeleted(ctx context.Context, note *Note) error
}

// NumberGenerator produces unique human-readable ticket numbers.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}
