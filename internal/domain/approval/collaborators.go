package approval

import (
	"context"
	"time"

	"deskflow/internal/domain/shared/events"
)

// TemplateResolver loads approval templates for process instantiation.
type TemplateResolver interface {
	Get(ctx context.Context, templateID uint) (*Template, error)
}

// RoleApproverResolver maps a role-designated template step to the concrete
// user who will approve. Resolution happens once, at instantiation; later
// role membership changes do not touch existing processes.
type RoleApproverResolver interface {
	Resolve(ctx context.Context, roleID uint) (uint, error)
}

// ProxyLookup answers proxy-delegation questions against active delegation
// windows at a point in time.
type ProxyLookup interface {
	// IsProxyFor reports whether actingUserID may decide on behalf of
	// approverID at the given instant.
	IsProxyFor(ctx context.Context, approverID, actingUserID uint, asOf time.Time) (bool, error)

	// PrincipalsFor returns the approver ids the acting user currently proxies
	// for, excluding the acting user itself.
	PrincipalsFor(ctx context.Context, actingUserID uint, asOf time.Time) ([]uint, error)
}

// TransitionRequester asks the ticket side to perform a system-driven
// lifecycle transition once a process reaches a terminal outcome. It runs
// inside the caller's unit of work; the returned domain events must be
// published by the caller after commit.
type TransitionRequester interface {
	RequestTransition(ctx context.Context, ticketID uint, target string, onBehalfOf uint) ([]events.DomainEvent, error)
}
