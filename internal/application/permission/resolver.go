package permission

import (
	"context"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/permission"
	"deskflow/internal/domain/ticket"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

// Resolver computes ticket visibility as a logical OR of six independent
// grant sources. Ordering below only short-circuits the cheap checks first;
// no source takes precedence over another. Participation is recomputed from
// the immutable step history on every call rather than cached.
type Resolver struct {
	grantRepo   permission.GrantRepository
	processRepo approval.ProcessRepository
	logger      logger.Interface
}

func NewResolver(
	grantRepo permission.GrantRepository,
	processRepo approval.ProcessRepository,
	logger logger.Interface,
) *Resolver {
	return &Resolver{
		grantRepo:   grantRepo,
		processRepo: processRepo,
		logger:      logger,
	}
}

// CanView reports whether the actor may read the ticket:
// internal visibility, admin, creator, assignee, approval participation
// (approver or proxy on any step, any status), or an explicit grant.
func (r *Resolver) CanView(ctx context.Context, t *ticket.Ticket, actor ticket.Actor) (bool, error) {
	if t.Visibility().IsInternal() {
		return true, nil
	}

	if actor.IsAdmin() {
		return true, nil
	}

	if actor.ID == t.CreatedBy() {
		return true, nil
	}

	if t.AssignedTo() != nil && actor.ID == *t.AssignedTo() {
		return true, nil
	}

	participant, err := r.isParticipant(ctx, t.ID(), actor.ID)
	if err != nil {
		return false, err
	}
	if participant {
		return true, nil
	}

	granted, err := r.grantRepo.HasGrant(ctx, t.ID(), actor.ID, actor.Roles)
	if err != nil {
		r.logger.Errorw("failed to check view grants", "ticket_id", t.ID(), "user_id", actor.ID, "error", err)
		return false, err
	}
	return granted, nil
}

// isParticipant scans the ticket's approval step history, treating a missing
// process as non-participation rather than an error.
func (r *Resolver) isParticipant(ctx context.Context, ticketID, userID uint) (bool, error) {
	process, err := r.processRepo.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		r.logger.Errorw("failed to load approval process", "ticket_id", ticketID, "error", err)
		return false, err
	}
	return process.IsParticipant(userID), nil
}
