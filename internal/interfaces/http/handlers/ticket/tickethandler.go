package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"deskflow/internal/application/ticket/usecases"
	domain "deskflow/internal/domain/ticket"
	"deskflow/internal/shared/logger"
	"deskflow/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC   usecases.CreateTicketExecutor
	getTicketUC      usecases.GetTicketExecutor
	listTicketsUC    usecases.ListTicketsExecutor
	updateTicketUC   usecases.UpdateTicketExecutor
	transitionUC     usecases.TransitionTicketExecutor
	assignTicketUC   usecases.AssignTicketExecutor
	addNoteUC        usecases.AddNoteExecutor
	removeNoteUC     usecases.RemoveNoteExecutor
	getTimelineUC    usecases.GetTimelineExecutor
	grantViewUC      usecases.GrantViewExecutor
	getTicketStatsUC usecases.GetTicketStatsExecutor
	logger           logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	updateTicketUC usecases.UpdateTicketExecutor,
	transitionUC usecases.TransitionTicketExecutor,
	assignTicketUC usecases.AssignTicketExecutor,
	addNoteUC usecases.AddNoteExecutor,
	removeNoteUC usecases.RemoveNoteExecutor,
	getTimelineUC usecases.GetTimelineExecutor,
	grantViewUC usecases.GrantViewExecutor,
	getTicketStatsUC usecases.GetTicketStatsExecutor,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:   createTicketUC,
		getTicketUC:      getTicketUC,
		listTicketsUC:    listTicketsUC,
		updateTicketUC:   updateTicketUC,
		transitionUC:     transitionUC,
		assignTicketUC:   assignTicketUC,
		addNoteUC:        addNoteUC,
		removeNoteUC:     removeNoteUC,
		getTimelineUC:    getTimelineUC,
		grantViewUC:      grantViewUC,
		getTicketStatsUC: getTicketStatsUC,
		logger:           logger.NewLogger(),
	}
}

func actorFromContext(c *gin.Context) domain.Actor {
	userID, roles := utils.ActorFromContext(c)
	return domain.Actor{ID: userID, Roles: roles}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	actor := actorFromContext(c)
	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(actor.ID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		TicketID: ticketID,
		Actor:    actorFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets handles GET /tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	query := parseListTicketsQuery(c, actorFromContext(c))

	result, err := h.listTicketsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// UpdateTicket handles PATCH /tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update ticket", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), req.ToCommand(ticketID, actorFromContext(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// TransitionTicket handles POST /tickets/:id/transition
func (h *TicketHandler) TransitionTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TransitionTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for transition ticket", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.transitionUC.Execute(c.Request.Context(), req.ToCommand(ticketID, actorFromContext(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket transitioned successfully", result)
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		TicketID:   ticketID,
		AssigneeID: req.AssigneeID,
		Actor:      actorFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// AddNote handles POST /tickets/:id/notes
func (h *TicketHandler) AddNote(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addNoteUC.Execute(c.Request.Context(), usecases.AddNoteCommand{
		TicketID: ticketID,
		Body:     req.Note,
		Actor:    actorFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Note added successfully")
}

// RemoveNote handles DELETE /notes/:id
func (h *TicketHandler) RemoveNote(c *gin.Context) {
	noteID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.removeNoteUC.Execute(c.Request.Context(), usecases.RemoveNoteCommand{
		NoteID: noteID,
		Actor:  actorFromContext(c),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Note removed successfully", nil)
}

// GetTimeline handles GET /tickets/:id/timeline
func (h *TicketHandler) GetTimeline(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTimelineUC.Execute(c.Request.Context(), usecases.GetTimelineQuery{
		TicketID: ticketID,
		Actor:    actorFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GrantView handles POST /tickets/:id/permissions
func (h *TicketHandler) GrantView(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req GrantViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.grantViewUC.Execute(c.Request.Context(), req.ToCommand(ticketID, actorFromContext(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "View permission granted successfully")
}

// GetTicketStats handles GET /tickets/stats
func (h *TicketHandler) GetTicketStats(c *gin.Context) {
	result, err := h.getTicketStatsUC.Execute(c.Request.Context(), usecases.GetTicketStatsQuery{
		Actor: actorFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
