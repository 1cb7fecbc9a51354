package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"deskflow/internal/domain/ticket"
	vo "deskflow/internal/domain/ticket/valueobjects"
	"deskflow/internal/infrastructure/persistence/mappers"
	"deskflow/internal/infrastructure/persistence/models"
	"deskflow/internal/shared/constants"
	"deskflow/internal/shared/db"
	"deskflow/internal/shared/errors"
)

// allowedTicketOrderByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedTicketOrderByFields = map[string]bool{
	"id":          true,
	"number":      true,
	"title":       true,
	"status":      true,
	"priority":    true,
	"due_date":    true,
	"assigned_to": true,
	"created_by":  true,
	"created_at":  true,
	"updated_at":  true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	return t.SetID(model.ID)
}

// Update writes the ticket guarded by its previous version. A row that was
// updated concurrently (stored version no longer matches) surfaces as a
// conflict error instead of a silent lost update.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]any{
			"title":                model.Title,
			"description":          model.Description,
			"status":               model.Status,
			"priority":             model.Priority,
			"visibility":           model.Visibility,
			"due_date":             model.DueDate,
			"assigned_to":          model.AssignedTo,
			"approval_template_id": model.ApprovalTemplateID,
			"updated_by":           model.UpdatedBy,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewConflictError(
			"ticket was modified concurrently",
			fmt.Sprintf("ticket_id=%d version=%d", model.ID, model.Version-1),
		)
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByNumber(ctx context.Context, number string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("number = ?", number).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.CreatorID != nil {
		query = query.Where("created_by = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assigned_to = ?", *filter.AssigneeID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR title LIKE ?", pattern, pattern)
	}

	query = r.scopeToViewer(tx, query, filter.Viewer)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	sortBy := filter.SortBy
	if !allowedTicketOrderByFields[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var rows []models.TicketModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	return tickets, total, nil
}

// scopeToViewer restricts the query to tickets the viewer may read, mirroring
// the view policy predicates: internal visibility, creator, assignee, an
// explicit grant by user or role, or participation in the ticket's approval
// process as approver or proxy. The predicate runs before counting so the
// total never reveals how many restricted tickets exist.
func (r *TicketRepository) scopeToViewer(tx *gorm.DB, query *gorm.DB, viewer *ticket.Actor) *gorm.DB {
	if viewer == nil || viewer.System || viewer.IsAdmin() {
		return query
	}

	grants := tx.
		Table(constants.TableTicketViewGrants).
		Select("ticket_id").
		Where("user_id = ?", viewer.ID)
	if len(viewer.Roles) > 0 {
		grants = tx.
			Table(constants.TableTicketViewGrants).
			Select("ticket_id").
			Where("user_id = ? OR role IN ?", viewer.ID, viewer.Roles)
	}

	participation := tx.
		Table(constants.TableApprovalProcesses+" AS p").
		Select("p.ticket_id").
		Joins("JOIN "+constants.TableProcessSteps+" AS s ON s.process_id = p.id").
		Where("s.approver_id = ? OR s.proxy_id = ?", viewer.ID, viewer.ID)

	return query.Where(
		"visibility = ? OR created_by = ? OR assigned_to = ? OR id IN (?) OR id IN (?)",
		vo.VisibilityInternal.String(), viewer.ID, viewer.ID, grants, participation,
	)
}

func (r *TicketRepository) CountByStatus(ctx context.Context) (map[vo.TicketStatus]int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []struct {
		Status string
		Count  int64
	}
	if err := tx.
		Model(&models.TicketModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}

	counts := make(map[vo.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[vo.TicketStatus(row.Status)] = row.Count
	}

	return counts, nil
}
