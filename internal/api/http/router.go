package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	Statuses       *handlers.StatusesHandler
	Users          *handlers.UsersHandler
	History        *handlers.HistoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	// The key lookup must precede the numeric one so "key" never parses as an id.
	tickets.Get("/key/:key", cfg.Tickets.GetByKey)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/satisfaction", cfg.Tickets.AddSatisfaction)
	tickets.Post("/:id/assign", auth.RequireExecutor(), cfg.Tickets.Assign)
	tickets.Post("/:id/reject", auth.RequireExecutor(), cfg.Tickets.Reject)
	tickets.Delete("/:id", auth.RequireExecutor(), cfg.Tickets.Delete)

	protected.Get("/statuses", cfg.Statuses.List)
	protected.Get("/users/executors", auth.RequireExecutor(), cfg.Users.Executors)
	protected.Get("/history", auth.RequireAdmin(), cfg.History.List)

	reports := protected.Group("/reports", auth.RequireExecutor())
	reports.Get("/summary", cfg.Reports.Summary)
	reports.Get("/compare", cfg.Reports.Compare)
	reports.Get("/resolution-distribution", cfg.Reports.Distribution)
	reports.Get("/overdue", cfg.Reports.Overdue)
	reports.Get("/sla-breaches", cfg.Reports.Breaches)
}
