package handler

import (
	"github.com/labstack/echo/v4"

	"theater-portal/internal/middleware"
)

// RegisterRoutes mounts every route on e. Global middleware is applied by the caller.
func (h *Handler) RegisterRoutes(e *echo.Echo, adminEmails []string) {
	e.Validator = &requestValidator{v: validate}

	// Public routes - no authentication required
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", MetricsHandler)
	e.GET("/public/events", h.ListPublicEvents)

	auth := e.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Tokens))

	// Profile and theater selection do not require an active theater
	api.GET("/me", h.GetMe)
	api.POST("/theaters", h.CreateTheater)
	api.GET("/theaters/active", h.GetActiveTheater)
	api.PUT("/theaters/active", h.SetActiveTheater)

	// Theater-scoped routes
	scoped := api.Group("")
	scoped.Use(middleware.RequireActiveTheater(h.Resolver))

	scoped.GET("/theater", h.GetTheater)
	scoped.GET("/members", h.ListMembers)

	events := scoped.Group("/events")
	events.GET("", h.ListEvents)
	events.POST("", h.CreateEvent)
	events.GET("/:id", h.GetEvent)
	events.PUT("/:id", h.UpdateEvent)
	events.DELETE("/:id", h.DeleteEvent)

	// Owner-only routes
	owner := scoped.Group("")
	owner.Use(middleware.RequireOwner)
	owner.PATCH("/theater", h.UpdateTheater)
	owner.DELETE("/members/:user_id", h.RemoveMember)
	owner.GET("/invites", h.ListInvites)
	owner.POST("/invites", h.CreateInvite)
	owner.DELETE("/invites/:id", h.DeleteInvite)

	admin := e.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.Tokens), middleware.RequireAdmin(adminEmails))
	admin.GET("/theaters", h.ListTheaters)
	admin.PATCH("/theaters/:id/status", h.UpdateTheaterStatus)
}
