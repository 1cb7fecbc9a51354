package ticket

import (
	"time"

	"github.com/gin-gonic/gin"

	"deskflow/internal/application/ticket/usecases"
	domain "deskflow/internal/domain/ticket"
	"deskflow/internal/shared/utils"
)

type CreateTicketRequest struct {
	Title              string     `json:"title" binding:"required,max=200"`
	Description        string     `json:"description"`
	Priority           string     `json:"priority"`
	Visibility         string     `json:"visibility"`
	DueDate            *time.Time `json:"due_date"`
	TicketTemplateID   *uint      `json:"ticket_template_id"`
	ApprovalTemplateID *uint      `json:"approval_template_id"`
}

func (r *CreateTicketRequest) ToCommand(creatorID uint) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Title:              r.Title,
		Description:        r.Description,
		Priority:           r.Priority,
		Visibility:         r.Visibility,
		DueDate:            r.DueDate,
		TicketTemplateID:   r.TicketTemplateID,
		ApprovalTemplateID: r.ApprovalTemplateID,
		CreatorID:          creatorID,
	}
}

type UpdateTicketRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due"`
}

func (r *UpdateTicketRequest) ToCommand(ticketID uint, actor domain.Actor) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		TicketID:    ticketID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		ClearDue:    r.ClearDue,
		Actor:       actor,
	}
}

type TransitionTicketRequest struct {
	TargetStatus string `json:"target_status" binding:"required"`
	Reason       string `json:"reason"`
}

func (r *TransitionTicketRequest) ToCommand(ticketID uint, actor domain.Actor) usecases.TransitionTicketCommand {
	return usecases.TransitionTicketCommand{
		TicketID:     ticketID,
		TargetStatus: r.TargetStatus,
		Reason:       r.Reason,
		Actor:        actor,
	}
}

type AssignTicketRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

type AddNoteRequest struct {
	Note string `json:"note" binding:"required,max=5000"`
}

// GrantViewRequest targets exactly one of user_id or role.
type GrantViewRequest struct {
	UserID *uint   `json:"user_id" validate:"required_without=Role,excluded_with=Role"`
	Role   *string `json:"role" validate:"omitempty,max=50"`
}

func (r *GrantViewRequest) ToCommand(ticketID uint, actor domain.Actor) usecases.GrantViewCommand {
	return usecases.GrantViewCommand{
		TicketID: ticketID,
		UserID:   r.UserID,
		Role:     r.Role,
		Actor:    actor,
	}
}

// parseListTicketsQuery builds the list query from query string parameters.
func parseListTicketsQuery(c *gin.Context, actor domain.Actor) usecases.ListTicketsQuery {
	page, pageSize := utils.ParsePagination(c)

	query := usecases.ListTicketsQuery{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  pageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Actor:     actor,
	}

	if creatorID, err := utils.ParseUintQuery(c, "creator_id"); err == nil && creatorID > 0 {
		query.CreatorID = &creatorID
	}
	if assigneeID, err := utils.ParseUintQuery(c, "assignee_id"); err == nil && assigneeID > 0 {
		query.AssigneeID = &assigneeID
	}

	return query
}
