package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"deskflow/internal/domain/approval"
	"deskflow/internal/domain/permission"
	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/infrastructure/persistence/migrations"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/constants"
	"deskflow/internal/shared/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, migrations.Migrate(db))

	return db
}

func createTestTicket(t *testing.T, number, title string, creatorID uint) *ticket.Ticket {
	tk, err := ticket.NewTicket(title, "Test description", vo.PriorityMedium, vo.VisibilityInternal, creatorID)
	require.NoError(t, err)
	require.NoError(t, tk.SetNumber(number))
	return tk
}

func savedTestTicket(t *testing.T, repo *TicketRepository, number, title string, creatorID uint) *ticket.Ticket {
	tk := createTestTicket(t, number, title, creatorID)
	require.NoError(t, repo.Save(context.Background(), tk))
	return tk
}

func TestTicketRepository_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	t.Run("save assigns id and round-trips", func(t *testing.T) {
		tk := createTestTicket(t, "T-20260901-0001", "Laptop request", 1)

		err := repo.Save(ctx, tk)
		assert.NoError(t, err)
		assert.NotZero(t, tk.ID())

		found, err := repo.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, tk.Number(), found.Number())
		assert.Equal(t, tk.Title(), found.Title())
		assert.Equal(t, vo.StatusDraft, found.Status())
		assert.Equal(t, 1, found.Version())
	})

	t.Run("duplicate number fails", func(t *testing.T) {
		tk1 := createTestTicket(t, "T-20260901-0002", "First", 1)
		require.NoError(t, repo.Save(ctx, tk1))

		tk2 := createTestTicket(t, "T-20260901-0002", "Second", 1)
		err := repo.Save(ctx, tk2)
		assert.Error(t, err)
	})

	t.Run("get by number", func(t *testing.T) {
		tk := savedTestTicket(t, repo, "T-20260901-0003", "Find me", 2)

		found, err := repo.GetByNumber(ctx, tk.Number())
		require.NoError(t, err)
		assert.Equal(t, tk.ID(), found.ID())
	})

	t.Run("missing ticket returns not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestTicketRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	t.Run("update persists changes and bumps version", func(t *testing.T) {
		tk := savedTestTicket(t, repo, "T-UPD-0001", "Original", 1)

		require.NoError(t, tk.AssignTo(5, 1))
		require.NoError(t, repo.Update(ctx, tk))

		found, err := repo.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		require.NotNil(t, found.AssignedTo())
		assert.Equal(t, uint(5), *found.AssignedTo())
		assert.Equal(t, 2, found.Version())
	})

	t.Run("concurrent update loses on version guard", func(t *testing.T) {
		tk := savedTestTicket(t, repo, "T-UPD-0002", "Contested", 1)

		copy1, err := repo.GetByID(ctx, tk.ID())
		require.NoError(t, err)
		copy2, err := repo.GetByID(ctx, tk.ID())
		require.NoError(t, err)

		require.NoError(t, copy1.AssignTo(10, 1))
		assert.NoError(t, repo.Update(ctx, copy1))

		require.NoError(t, copy2.AssignTo(20, 1))
		err = repo.Update(ctx, copy2)
		require.Error(t, err)
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)
	})

	t.Run("update of missing row reports conflict", func(t *testing.T) {
		tk := createTestTicket(t, "T-UPD-0003", "Ghost", 1)
		require.NoError(t, tk.SetID(99999))
		require.NoError(t, tk.AssignTo(5, 1))

		err := repo.Update(ctx, tk)
		assert.Error(t, err)
	})
}

func TestTicketRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	savedTestTicket(t, repo, "T-LIST-0001", "Monitor request", 1)
	savedTestTicket(t, repo, "T-LIST-0002", "Keyboard request", 1)
	savedTestTicket(t, repo, "T-LIST-0003", "Access request", 2)

	t.Run("filter by creator", func(t *testing.T) {
		creatorID := uint(1)
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{CreatorID: &creatorID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, tickets, 2)
	})

	t.Run("search matches number and title", func(t *testing.T) {
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{Search: "Keyboard"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, tickets, 1)
		assert.Equal(t, "T-LIST-0002", tickets[0].Number())
	})

	t.Run("pagination caps page size", func(t *testing.T) {
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, tickets, 2)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		_, _, err := repo.List(ctx, ticket.TicketFilter{SortBy: "1; DROP TABLE tickets"})
		assert.NoError(t, err)
	})
}

func savedRestrictedTicket(t *testing.T, repo *TicketRepository, number, title string, creatorID uint) *ticket.Ticket {
	tk, err := ticket.NewTicket(title, "Test description", vo.PriorityMedium, vo.VisibilityRestricted, creatorID)
	require.NoError(t, err)
	require.NoError(t, tk.SetNumber(number))
	require.NoError(t, repo.Save(context.Background(), tk))
	return tk
}

func TestTicketRepository_List_ViewerScope(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db)
	grantRepo := NewGrantRepository(db)
	processRepo := NewProcessRepository(db)
	ctx := context.Background()

	savedTestTicket(t, repo, "T-VIS-0001", "Printer request", 1)
	savedRestrictedTicket(t, repo, "T-VIS-0002", "Salary review", 1)
	granted := savedRestrictedTicket(t, repo, "T-VIS-0003", "Vendor contract", 1)
	withProcess := savedRestrictedTicket(t, repo, "T-VIS-0004", "Budget request", 1)

	assigned, err := ticket.NewTicket("Audit prep", "Test description", vo.PriorityMedium, vo.VisibilityRestricted, 1)
	require.NoError(t, err)
	require.NoError(t, assigned.SetNumber("T-VIS-0005"))
	require.NoError(t, assigned.AssignTo(33, 1))
	require.NoError(t, repo.Save(ctx, assigned))

	granteeID := uint(7)
	userGrant, err := permission.NewGrant(granted.ID(), &granteeID, nil, 1, biztime.NowUTC())
	require.NoError(t, err)
	require.NoError(t, grantRepo.Save(ctx, userGrant))

	auditor := "auditor"
	roleGrant, err := permission.NewGrant(granted.ID(), nil, &auditor, 1, biztime.NowUTC())
	require.NoError(t, err)
	require.NoError(t, grantRepo.Save(ctx, roleGrant))

	process := createTestProcess(t, withProcess.ID(), 42)
	require.NoError(t, processRepo.Save(ctx, process))

	t.Run("stranger sees only internal tickets in page and total", func(t *testing.T) {
		viewer := ticket.Actor{ID: 99}
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{
			Viewer: &viewer, Page: 1, PageSize: 1, SortBy: "id", SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, "restricted tickets on other pages stay out of the count")
		require.Len(t, tickets, 1)
		assert.Equal(t, "T-VIS-0001", tickets[0].Number())

		tickets, total, err = repo.List(ctx, ticket.TicketFilter{
			Viewer: &viewer, Page: 2, PageSize: 1, SortBy: "id", SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Empty(t, tickets, "later pages hold nothing the viewer cannot see")
	})

	t.Run("creator sees all own tickets", func(t *testing.T) {
		viewer := ticket.Actor{ID: 1}
		_, total, err := repo.List(ctx, ticket.TicketFilter{Viewer: &viewer})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("assignee sees the restricted ticket", func(t *testing.T) {
		viewer := ticket.Actor{ID: 33}
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{
			Viewer: &viewer, SortBy: "id", SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, tickets, 2)
		assert.Equal(t, "T-VIS-0005", tickets[1].Number())
	})

	t.Run("user grant admits the holder", func(t *testing.T) {
		viewer := ticket.Actor{ID: 7}
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{
			Viewer: &viewer, SortBy: "id", SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, tickets, 2)
		assert.Equal(t, "T-VIS-0003", tickets[1].Number())
	})

	t.Run("role grant admits any holder of the role", func(t *testing.T) {
		viewer := ticket.Actor{ID: 8, Roles: []string{"auditor"}}
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{
			Viewer: &viewer, SortBy: "id", SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, tickets, 2)
		assert.Equal(t, "T-VIS-0003", tickets[1].Number())
	})

	t.Run("approver on the process sees the ticket", func(t *testing.T) {
		viewer := ticket.Actor{ID: 42}
		tickets, total, err := repo.List(ctx, ticket.TicketFilter{
			Viewer: &viewer, SortBy: "id", SortOrder: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, tickets, 2)
		assert.Equal(t, "T-VIS-0004", tickets[1].Number())
	})

	t.Run("admin viewer is unscoped", func(t *testing.T) {
		viewer := ticket.Actor{ID: 99, Roles: []string{constants.RoleAdmin}}
		_, total, err := repo.List(ctx, ticket.TicketFilter{Viewer: &viewer})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})
}

func TestTicketRepository_CountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	savedTestTicket(t, repo, "T-CNT-0001", "One", 1)
	savedTestTicket(t, repo, "T-CNT-0002", "Two", 1)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[vo.StatusDraft])
}

func TestGrantRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrantRepository(db)
	ctx := context.Background()

	t.Run("save user grant and check membership", func(t *testing.T) {
		userID := uint(7)
		grant, err := permission.NewGrant(1, &userID, nil, 99, biztime.NowUTC())
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, grant))
		assert.NotZero(t, grant.ID())

		has, err := repo.HasGrant(ctx, 1, 7, nil)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = repo.HasGrant(ctx, 1, 8, nil)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("role grant matches any holder", func(t *testing.T) {
		role := "it-support"
		grant, err := permission.NewGrant(2, nil, &role, 99, biztime.NowUTC())
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, grant))

		has, err := repo.HasGrant(ctx, 2, 123, []string{"it-support"})
		require.NoError(t, err)
		assert.True(t, has)

		has, err = repo.HasGrant(ctx, 2, 123, []string{"finance"})
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("list returns grants in insertion order", func(t *testing.T) {
		userA := uint(11)
		userB := uint(12)
		first, err := permission.NewGrant(3, &userA, nil, 99, biztime.NowUTC())
		require.NoError(t, err)
		second, err := permission.NewGrant(3, &userB, nil, 99, biztime.NowUTC())
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		grants, err := repo.ListByTicketID(ctx, 3)
		require.NoError(t, err)
		require.Len(t, grants, 2)
		assert.Equal(t, first.ID(), grants[0].ID())
		assert.Equal(t, second.ID(), grants[1].ID())
	})
}

func TestNoteRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNoteRepository(db)
	ctx := context.Background()

	t.Run("notes list in chronological order", func(t *testing.T) {
		first, err := ticket.NewUserNote(1, 5, "first comment")
		require.NoError(t, err)
		second, err := ticket.NewUserNote(1, 6, "second comment")
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		notes, err := repo.ListByTicketID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, first.ID(), notes[0].ID())
		assert.Equal(t, second.ID(), notes[1].ID())
	})

	t.Run("mark deleted keeps the tombstone row", func(t *testing.T) {
		note, err := ticket.NewUserNote(2, 5, "to be removed")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, note))

		require.NoError(t, note.MarkDeleted(9))
		require.NoError(t, repo.MarkDeleted(ctx, note))

		found, err := repo.GetByID(ctx, note.ID())
		require.NoError(t, err)
		assert.True(t, found.IsDeleted())
		require.NotNil(t, found.DeletedBy())
		assert.Equal(t, uint(9), *found.DeletedBy())
		assert.Equal(t, "to be removed", found.Body())
	})
}

func createTestProcess(t *testing.T, ticketID uint, approverIDs ...uint) *approval.Process {
	steps := make([]*approval.Step, 0, len(approverIDs))
	for i, approverID := range approverIDs {
		step, err := approval.NewStep(i+1, approverID)
		require.NoError(t, err)
		steps = append(steps, step)
	}

	process, err := approval.NewProcess(ticketID, 1, steps)
	require.NoError(t, err)
	return process
}

func TestProcessRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProcessRepository(db)
	ctx := context.Background()

	process := createTestProcess(t, 1, 10, 20)
	require.NoError(t, repo.Save(ctx, process))

	assert.NotZero(t, process.ID())
	for _, step := range process.Steps() {
		assert.NotZero(t, step.ID())
		assert.Equal(t, process.ID(), step.ProcessID())
	}

	found, err := repo.GetByTicketID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, process.ID(), found.ID())
	assert.Equal(t, approval.ProcessStatusPending, found.Status())
	assert.Equal(t, 1, found.CurrentStep())
	assert.Len(t, found.Steps(), 2)
}

func TestProcessRepository_UpdateMissingProcess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProcessRepository(db)
	ctx := context.Background()

	step, err := approval.ReconstructStep(901, 900, 1, 10, nil, approval.StepStatusPending, "", nil)
	require.NoError(t, err)
	ghost, err := approval.ReconstructProcess(900, 1, 5, approval.ProcessStatusPending, 1, nil, []*approval.Step{step})
	require.NoError(t, err)
	ghost.MarkRejected()

	err = repo.Update(ctx, ghost)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "an update that matched no row must not pass silently")
}

func TestProcessRepository_UpdateStepDecision(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProcessRepository(db)
	ctx := context.Background()

	t.Run("decision persists", func(t *testing.T) {
		process := createTestProcess(t, 1, 10)
		require.NoError(t, repo.Save(ctx, process))

		step := process.CurrentStepEntity()
		require.NoError(t, step.Decide(approval.OutcomeApprove, "looks good", nil))
		require.NoError(t, repo.UpdateStepDecision(ctx, step))

		found, err := repo.GetByTicketID(ctx, 1)
		require.NoError(t, err)
		decided := found.StepByID(step.ID())
		require.NotNil(t, decided)
		assert.Equal(t, approval.StepStatusApproved, decided.Status())
		assert.Equal(t, "looks good", decided.Comment())
		assert.NotNil(t, decided.ActionAt())
	})

	t.Run("second decision on same step reports already decided", func(t *testing.T) {
		process := createTestProcess(t, 2, 10)
		require.NoError(t, repo.Save(ctx, process))

		// Two actors load the same pending step
		copy1, err := repo.GetByTicketID(ctx, 2)
		require.NoError(t, err)
		copy2, err := repo.GetByTicketID(ctx, 2)
		require.NoError(t, err)

		step1 := copy1.CurrentStepEntity()
		require.NoError(t, step1.Decide(approval.OutcomeApprove, "", nil))
		assert.NoError(t, repo.UpdateStepDecision(ctx, step1))

		step2 := copy2.CurrentStepEntity()
		require.NoError(t, step2.Decide(approval.OutcomeReject, "too expensive", nil))
		err = repo.UpdateStepDecision(ctx, step2)
		require.Error(t, err)
		assert.True(t, errors.IsAlreadyDecided(err))

		wfErr := errors.GetWorkflowError(err)
		require.NotNil(t, wfErr)
		assert.Equal(t, step2.ID(), wfErr.StepID)
	})

	t.Run("decision on missing step reports step not found", func(t *testing.T) {
		step, err := approval.ReconstructStep(99999, 1, 1, 10, nil, approval.StepStatusPending, "", nil)
		require.NoError(t, err)
		require.NoError(t, step.Decide(approval.OutcomeApprove, "", nil))

		err = repo.UpdateStepDecision(ctx, step)
		require.Error(t, err)
		wfErr := errors.GetWorkflowError(err)
		require.NotNil(t, wfErr)
		assert.Equal(t, errors.ErrorTypeStepNotFound, wfErr.Type)
	})
}

func TestProcessRepository_ListPendingStepsForApprovers(t *testing.T) {
	db := setupTestDB(t)
	processRepo := NewProcessRepository(db)
	ticketRepo := NewTicketRepository(db)
	ctx := context.Background()

	tk := savedTestTicket(t, ticketRepo, "T-INBOX-0001", "Server access", 1)

	process := createTestProcess(t, tk.ID(), 10, 20)
	require.NoError(t, processRepo.Save(ctx, process))

	t.Run("only the current step is actionable", func(t *testing.T) {
		pending, err := processRepo.ListPendingStepsForApprovers(ctx, []uint{10, 20})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, uint(10), pending[0].ApproverID)
		assert.Equal(t, 1, pending[0].StepOrder)
		assert.Equal(t, tk.Number(), pending[0].TicketNumber)
		assert.Equal(t, tk.Title(), pending[0].TicketTitle)
	})

	t.Run("advancing the process surfaces the next step", func(t *testing.T) {
		step := process.CurrentStepEntity()
		require.NoError(t, step.Decide(approval.OutcomeApprove, "", nil))
		require.NoError(t, processRepo.UpdateStepDecision(ctx, step))

		completed := process.Advance()
		assert.False(t, completed)
		require.NoError(t, processRepo.Update(ctx, process))

		pending, err := processRepo.ListPendingStepsForApprovers(ctx, []uint{10})
		require.NoError(t, err)
		assert.Empty(t, pending)

		pending, err = processRepo.ListPendingStepsForApprovers(ctx, []uint{20})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, 2, pending[0].StepOrder)
	})

	t.Run("completed process leaves the inbox", func(t *testing.T) {
		step := process.CurrentStepEntity()
		require.NoError(t, step.Decide(approval.OutcomeApprove, "", nil))
		require.NoError(t, processRepo.UpdateStepDecision(ctx, step))

		completed := process.Advance()
		assert.True(t, completed)
		require.NoError(t, processRepo.Update(ctx, process))

		pending, err := processRepo.ListPendingStepsForApprovers(ctx, []uint{10, 20})
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("empty approver set short-circuits", func(t *testing.T) {
		pending, err := processRepo.ListPendingStepsForApprovers(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}
