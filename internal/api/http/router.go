package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ramp-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/ramp-scheduler/internal/auth"
	"github.com/spec-kit/ramp-scheduler/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Scheduler      *handlers.SchedulerHandler
	Teams          *handlers.TeamsHandler
	Notifications  *handlers.NotificationsHandler
	Assignments    *handlers.AssignmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	protected.Post("/scheduler/clock/advance", cfg.Scheduler.AdvanceClock)
	protected.Post("/scheduler/assign", cfg.Scheduler.AssignWindow)
	protected.Get("/scheduler/summary", cfg.Scheduler.Summary)

	protected.Get("/teams", cfg.Teams.List)
	protected.Post("/teams/swap", cfg.Teams.Swap)

	protected.Get("/notifications/pending", cfg.Notifications.Pending)
	protected.Get("/notifications/history", cfg.Notifications.History)

	protected.Get("/assignments", cfg.Assignments.List)
	protected.Get("/assignments/by-member", cfg.Assignments.ByMember)
	protected.Get("/assignments/export", cfg.Assignments.Export)

	// Shift bootstrap and crew-change resolutions are supervisor calls.
	supervised := protected.Group("", auth.RequireRole(domain.OperatorRoleSupervisor, domain.OperatorRoleAdmin))
	supervised.Post("/scheduler/shift/init", cfg.Scheduler.InitShift)
	supervised.Post("/notifications/:id/approve", cfg.Notifications.Approve)
	supervised.Post("/notifications/:id/reject", cfg.Notifications.Reject)
}
