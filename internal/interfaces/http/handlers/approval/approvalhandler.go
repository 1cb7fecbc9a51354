package approval

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"deskflow/internal/application/approval/usecases"
	domain "deskflow/internal/domain/ticket"
	"deskflow/internal/shared/logger"
	"deskflow/internal/shared/utils"
)

type ApprovalHandler struct {
	decideStepUC  usecases.DecideStepExecutor
	getProcessUC  usecases.GetProcessExecutor
	listPendingUC usecases.ListPendingApprovalsExecutor
	logger        logger.Interface
}

func NewApprovalHandler(
	decideStepUC usecases.DecideStepExecutor,
	getProcessUC usecases.GetProcessExecutor,
	listPendingUC usecases.ListPendingApprovalsExecutor,
) *ApprovalHandler {
	return &ApprovalHandler{
		decideStepUC:  decideStepUC,
		getProcessUC:  getProcessUC,
		listPendingUC: listPendingUC,
		logger:        logger.NewLogger(),
	}
}

type DecideStepRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=approve reject"`
	Comment string `json:"comment" binding:"max=2000"`
}

// DecideStep handles POST /approvals/steps/:id/decide
func (h *ApprovalHandler) DecideStep(c *gin.Context) {
	stepID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req DecideStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for decide step", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, _ := utils.ActorFromContext(c)
	result, err := h.decideStepUC.Execute(c.Request.Context(), usecases.DecideStepCommand{
		StepID:  stepID,
		ActorID: userID,
		Outcome: req.Outcome,
		Comment: req.Comment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Decision recorded successfully", result)
}

// GetProcess handles GET /tickets/:id/approval
func (h *ApprovalHandler) GetProcess(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, roles := utils.ActorFromContext(c)
	result, err := h.getProcessUC.Execute(c.Request.Context(), usecases.GetProcessQuery{
		TicketID: ticketID,
		Actor:    domain.Actor{ID: userID, Roles: roles},
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPendingApprovals handles GET /approvals/pending
func (h *ApprovalHandler) ListPendingApprovals(c *gin.Context) {
	userID, _ := utils.ActorFromContext(c)

	result, err := h.listPendingUC.Execute(c.Request.Context(), usecases.ListPendingApprovalsQuery{
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
