package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coach-gateway/internal/api/http/handlers"
	"github.com/spec-kit/coach-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Access         *handlers.AccessHandler
	Proxy          *handlers.ProxyHandler
	Webhook        *handlers.WebhookHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/verify-access", cfg.Access.VerifyAccess)
	api.Post("/verify-membership", cfg.Access.VerifyMembership)
	api.Post("/proxy", cfg.AuthMiddleware.Handle, cfg.Proxy.Chat)
	api.Post("/membership-webhook", cfg.Webhook.Handle)
}
