package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/registry-service/internal/api/http/handlers"
	"github.com/spec-kit/registry-service/internal/auth"
	"github.com/spec-kit/registry-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Submissions    *handlers.SubmissionsHandler
	Public         *handlers.PublicHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Submissions.Register)
	api.Post("/registrations", cfg.Submissions.Register)
	api.Post("/contact", cfg.Submissions.Contact)
	api.Get("/metrics", cfg.Public.Metrics)
	api.Get("/quotes", cfg.Public.Quotes)

	app.Use("/admin", cfg.AuthMiddleware.Handle)
	app.Use("/api/admin", cfg.AuthMiddleware.Handle)

	app.Get(auth.LoginPage, cfg.Admin.LoginPage)
	app.Get(auth.SubmissionPage, cfg.Admin.SubmissionsPage)
	app.Get("/admin", func(c *fiber.Ctx) error {
		return c.Redirect(auth.SubmissionPage, fiber.StatusFound)
	})

	app.Post(auth.LoginAPI, cfg.Admin.Login)
	app.Post(auth.LogoutAPI, cfg.Admin.Logout)
	app.Get("/api/admin/submissions", cfg.Admin.ListSubmissions)
	app.Get("/api/admin/registrations", cfg.Admin.ListSubmissions)
}
