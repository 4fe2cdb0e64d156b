package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shop-at/authentication-service/internal/api/http/handlers"
	"github.com/shop-at/authentication-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Services       *handlers.ServicesHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.ServiceAuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/users/refresh", cfg.Users.Refresh)
	authGroup.Post("/services/token", cfg.Services.IssueToken)

	// Validation is only offered to registered internal services.
	authGroup.Post("/tokens/validate", cfg.AuthMiddleware.Handle, cfg.Users.Validate)
	authGroup.Post("/services/validate", cfg.AuthMiddleware.Handle, cfg.Services.Validate)
}
