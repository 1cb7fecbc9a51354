package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "deskflow/internal/interfaces/http/handlers/ticket"
	"deskflow/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/api/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts

		// Collection operations (no ID parameter)
		tickets.POST("",
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			config.TicketHandler.ListTickets)
		tickets.GET("/stats",
			config.TicketHandler.GetTicketStats)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		tickets.POST("/:id/transition",
			config.TicketHandler.TransitionTicket)
		tickets.POST("/:id/assign",
			config.TicketHandler.AssignTicket)
		tickets.POST("/:id/notes",
			config.TicketHandler.AddNote)
		tickets.GET("/:id/timeline",
			config.TicketHandler.GetTimeline)
		tickets.POST("/:id/permissions",
			config.TicketHandler.GrantView)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id",
			config.TicketHandler.GetTicket)
		tickets.PATCH("/:id",
			config.TicketHandler.UpdateTicket)
	}

	notes := engine.Group("/api/notes")
	notes.Use(config.AuthMiddleware.RequireAuth())
	{
		notes.DELETE("/:id",
			config.TicketHandler.RemoveNote)
	}
}
