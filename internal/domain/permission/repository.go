package permission

import "context"

// GrantRepository persists explicit view grants. Grants are append-only;
// revocation is out of scope and duplicates are idempotent no-ops.
type GrantRepository interface {
	// Save persists a grant and assigns its id. Saving an equivalent existing
	// grant returns the stored one without error.
	Save(ctx context.Context, grant *Grant) error

	// ListByTicketID returns all grants on a ticket.
	ListByTicketID(ctx context.Context, ticketID uint) ([]*Grant, error)

	// HasGrant reports whether any grant on the ticket matches the user
	// directly or through one of the roles.
	HasGrant(ctx context.Context, ticketID, userID uint, roles []string) (bool, error)
}
