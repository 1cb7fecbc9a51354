package routes

import (
	"github.com/gin-gonic/gin"

	approvalhandlers "deskflow/internal/interfaces/http/handlers/approval"
	"deskflow/internal/interfaces/http/middleware"
)

type ApprovalRouteConfig struct {
	ApprovalHandler *approvalhandlers.ApprovalHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupApprovalRoutes(engine *gin.Engine, config *ApprovalRouteConfig) {
	approvals := engine.Group("/api/approvals")
	approvals.Use(config.AuthMiddleware.RequireAuth())
	{
		approvals.GET("/pending",
			config.ApprovalHandler.ListPendingApprovals)
		approvals.POST("/steps/:id/decide",
			config.ApprovalHandler.DecideStep)
	}

	tickets := engine.Group("/api/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.GET("/:id/approval",
			config.ApprovalHandler.GetProcess)
	}
}
