package permission

import (
	"fmt"
	"time"
)

// Grant is an explicit view permission on one ticket, targeting either a
// single user or every holder of a role, never both.
type Grant struct {
	id        uint
	ticketID  uint
	userID    *uint
	role      *string
	grantedBy uint
	createdAt time.Time
}

func NewGrant(ticketID uint, userID *uint, role *string, grantedBy uint, now time.Time) (*Grant, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == nil && role == nil {
		return nil, fmt.Errorf("grant must target a user or a role")
	}
	if userID != nil && role != nil {
		return nil, fmt.Errorf("grant cannot target both a user and a role")
	}
	if grantedBy == 0 {
		return nil, fmt.Errorf("granting user is required")
	}
	return &Grant{
		ticketID:  ticketID,
		userID:    userID,
		role:      role,
		grantedBy: grantedBy,
		createdAt: now,
	}, nil
}

func ReconstructGrant(id, ticketID uint, userID *uint, role *string, grantedBy uint, createdAt time.Time) (*Grant, error) {
	if id == 0 {
		return nil, fmt.Errorf("grant ID cannot be zero")
	}
	g, err := NewGrant(ticketID, userID, role, grantedBy, createdAt)
	if err != nil {
		return nil, err
	}
	g.id = id
	return g, nil
}

func (g *Grant) ID() uint             { return g.id }
func (g *Grant) TicketID() uint       { return g.ticketID }
func (g *Grant) UserID() *uint        { return g.userID }
func (g *Grant) Role() *string        { return g.role }
func (g *Grant) GrantedBy() uint      { return g.grantedBy }
func (g *Grant) CreatedAt() time.Time { return g.createdAt }

func (g *Grant) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("grant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("grant ID cannot be zero")
	}
	g.id = id
	return nil
}

// Matches reports whether the grant applies to the given user and role set.
func (g *Grant) Matches(userID uint, roles []string) bool {
	if g.userID != nil {
		return *g.userID == userID
	}
	for _, r := range roles {
		if r == *g.role {
			return true
		}
	}
	return false
}
