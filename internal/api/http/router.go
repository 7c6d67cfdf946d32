package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/filedrop/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets/redeem", cfg.Tickets.RedeemTicket)
}
