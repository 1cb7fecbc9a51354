package usecases

import (
	"context"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/permission"
	"deskflow/internal/domain/shared/events"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/shared/logger"
)

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

type mockGrantRepository struct {
	SaveFunc           func(ctx context.Context, grant *permission.Grant) error
	ListByTicketIDFunc func(ctx context.Context, ticketID uint) ([]*permission.Grant, error)
	HasGrantFunc       func(ctx context.Context, ticketID, userID uint, roles []string) (bool, error)
}

func (m *mockGrantRepository) Save(ctx context.Context, grant *permission.Grant) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, grant)
	}
	return nil
}

func (m *mockGrantRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*permission.Grant, error) {
	if m.ListByTicketIDFunc != nil {
		return m.ListByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockGrantRepository) HasGrant(ctx context.Context, ticketID, userID uint, roles []string) (bool, error) {
	if m.HasGrantFunc != nil {
		return m.HasGrantFunc(ctx, ticketID, userID, roles)
	}
	return false, nil
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

type mockApprovalStarter struct {
	StartFunc func(ctx context.Context, t *ticket.Ticket) ([]events.DomainEvent, error)
	started   int
}

func (m *mockApprovalStarter) Start(ctx context.Context, t *ticket.Ticket) ([]events.DomainEvent, error) {
	m.started++
	if m.StartFunc != nil {
		return m.StartFunc(ctx, t)
	}
	return nil, nil
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

type mockRenderer struct {
	RenderFunc func(markdown string) (string, error)
}

func (m *mockRenderer) Render(markdown string) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(markdown)
	}
	return "<p>" + markdown + "</p>", nil
}

type mockNumberGenerator struct {
	GenerateFunc func(ctx context.Context) (string, error)
}

func (m *mockNumberGenerator) Generate(ctx context.Context) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx)
	}
	return "T-20250101-0001", nil
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

// passthroughTxManager runs the function directly; commit/rollback behavior is
// exercised in repository integration tests.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)                    {}
func (noopLogger) Info(msg string, args ...any)                     {}
func (noopLogger) Warn(msg string, args ...any)                     {}
func (noopLogger) Error(msg string, args ...any)                    {}
func (n noopLogger) With(args ...any) logger.Interface              { return n }
func (n noopLogger) Named(name string) logger.Interface             { return n }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})   {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})   {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{})  {}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
