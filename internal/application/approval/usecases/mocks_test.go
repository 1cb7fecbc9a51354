package usecases

import (
	"context"
	"time"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/logger"
)

type mockProcessRepository struct {
	SaveFunc                        func(ctx context.Context, p *approval.Process) error
	UpdateFunc                      func(ctx context.Context, p *approval.Process) error
	UpdateStepDecisionFunc          func(ctx context.Context, s *approval.Step) error
	GetByIDFunc                     func(ctx context.Context, processID uint) (*approval.Process, error)
	GetByTicketIDFunc               func(ctx context.Context, ticketID uint) (*approval.Process, error)
	GetByStepIDFunc                 func(ctx context.Context, stepID uint) (*approval.Process, error)
	ListPendingStepsForApproversFunc func(ctx context.Context, approverIDs []uint) ([]*approval.PendingStep, error)
}

func (m *mockProcessRepository) Save(ctx context.Context, p *approval.Process) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *mockProcessRepository) Update(ctx context.Context, p *approval.Process) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockProcessRepository) UpdateStepDecision(ctx context.Context, s *approval.Step) error {
	if m.UpdateStepDecisionFunc != nil {
		return m.UpdateStepDecisionFunc(ctx, s)
	}
	return nil
}

func (m *mockProcessRepository) GetByID(ctx context.Context, processID uint) (*approval.Process, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, processID)
	}
	return nil, nil
}

func (m *mockProcessRepository) GetByTicketID(ctx context.Context, ticketID uint) (*approval.Process, error) {
	if m.GetByTicketIDFunc != nil {
		return m.GetByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockProcessRepository) GetByStepID(ctx context.Context, stepID uint) (*approval.Process, error) {
	if m.GetByStepIDFunc != nil {
		return m.GetByStepIDFunc(ctx, stepID)
	}
	return nil, nil
}

func (m *mockProcessRepository) ListPendingStepsForApprovers(ctx context.Context, approverIDs []uint) ([]*approval.PendingStep, error) {
	if m.ListPendingStepsForApproversFunc != nil {
		return m.ListPendingStepsForApproversFunc(ctx, approverIDs)
	}
	return nil, nil
}

type mockProxyLookup struct {
	IsProxyForFunc    func(ctx context.Context, approverID, actingUserID uint, asOf time.Time) (bool, error)
	PrincipalsForFunc func(ctx context.Context, actingUserID uint, asOf time.Time) ([]uint, error)
}

func (m *mockProxyLookup) IsProxyFor(ctx context.Context, approverID, actingUserID uint, asOf time.Time) (bool, error) {
	if m.IsProxyForFunc != nil {
		return m.IsProxyForFunc(ctx, approverID, actingUserID, asOf)
	}
	return false, nil
}

func (m *mockProxyLookup) PrincipalsFor(ctx context.Context, actingUserID uint, asOf time.Time) ([]uint, error) {
	if m.PrincipalsForFunc != nil {
		return m.PrincipalsForFunc(ctx, actingUserID, asOf)
	}
	return nil, nil
}

type mockTransitionRequester struct {
	RequestTransitionFunc func(ctx context.Context, ticketID uint, target string, onBehalfOf uint) ([]events.DomainEvent, error)
	requested             []string
}

func (m *mockTransitionRequester) RequestTransition(ctx context.Context, ticketID uint, target string, onBehalfOf uint) ([]events.DomainEvent, error) {
	m.requested = append(m.requested, target)
	if m.RequestTransitionFunc != nil {
		return m.RequestTransitionFunc(ctx, ticketID, target, onBehalfOf)
	}
	return nil, nil
}

type mockTemplateResolver struct {
	GetFunc func(ctx context.Context, templateID uint) (*approval.Template, error)
}

func (m *mockTemplateResolver) Get(ctx context.Context, templateID uint) (*approval.Template, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, templateID)
	}
	return nil, nil
}

type mockRoleApproverResolver struct {
	ResolveFunc func(ctx context.Context, roleID uint) (uint, error)
}

func (m *mockRoleApproverResolver) Resolve(ctx context.Context, roleID uint) (uint, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, roleID)
	}
	return 0, nil
}

type mockTicketRepository struct {
	SaveFunc          func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc        func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc       func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	GetByNumberFunc   func(ctx context.Context, number string) (*ticket.Ticket, error)
	ListFunc          func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
	CountByStatusFunc func(ctx context.Context) (map[vo.TicketStatus]int64, error)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context) (map[vo.TicketStatus]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return nil, nil
}

type mockNoteRepository struct {
	SaveFunc           func(ctx context.Context, note *ticket.Note) error
	ListByTicketIDFunc func(ctx context.Context, ticketID uint) ([]*ticket.Note, error)
	GetByIDFunc        func(ctx context.Context, noteID uint) (*ticket.Note, error)
	MarkDeletedFunc    func(ctx context.Context, note *ticket.Note) error
}

func (m *mockNoteRepository) Save(ctx context.Context, note *ticket.Note) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, note)
	}
	return nil
}

func (m *mockNoteRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Note, error) {
	if m.ListByTicketIDFunc != nil {
		return m.ListByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockNoteRepository) GetByID(ctx context.Context, noteID uint) (*ticket.Note, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, noteID)
	}
	return nil, nil
}

func (m *mockNoteRepository) MarkDeleted(ctx context.Context, note *ticket.Note) error {
	if m.MarkDeletedFunc != nil {
		return m.MarkDeletedFunc(ctx, note)
	}
	return nil
}

type mockViewPolicy struct {
	CanViewFunc func(ctx context.Context, t *ticket.Ticket, actor ticket.Actor) (bool, error)
}

func (m *mockViewPolicy) CanView(ctx context.Context, t *ticket.Ticket, actor ticket.Actor) (bool, error) {
	if m.CanViewFunc != nil {
		return m.CanViewFunc(ctx, t, actor)
	}
	return true, nil
}

type mockPublisher struct {
	PublishFunc    func(event events.DomainEvent) error
	PublishAllFunc func(evts []events.DomainEvent) error
}

func (m *mockPublisher) Publish(event events.DomainEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(event)
	}
	return nil
}

func (m *mockPublisher) PublishAll(evts []events.DomainEvent) error {
	if m.PublishAllFunc != nil {
		return m.PublishAllFunc(evts)
	}
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)                   {}
func (noopLogger) Info(msg string, args ...any)                    {}
func (noopLogger) Warn(msg string, args ...any)                    {}
func (noopLogger) Error(msg string, args ...any)                   {}
func (n noopLogger) With(args ...any) logger.Interface             { return n }
func (n noopLogger) Named(name string) logger.Interface            { return n }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func uintPtr(v uint) *uint { return &v }
