package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estimate-service/internal/api/http/handlers"
	"github.com/spec-kit/estimate-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Projects       *handlers.ProjectsHandler
	Public         *handlers.PublicHandler
	Feedback       *handlers.FeedbackHandler
	Admin          *handlers.AdminHandler
	Pages          *handlers.PagesHandler
	Gate           *auth.Gate
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The access gate runs app-wide before
// anything below it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// browser pages; the gate decides who gets here
	app.Get("/login", cfg.Pages.Login)
	app.Get("/dashboard", cfg.Pages.Dashboard)
	app.Get("/dashboard/*", cfg.Pages.Dashboard)
	app.Get("/wizard", cfg.Pages.Wizard)
	app.Get("/wizard/*", cfg.Pages.Wizard)

	// token-bearing public routes
	app.Get("/view/:token", cfg.Public.View)
	app.Get("/intake/:token", cfg.Public.Intake)

	api := app.Group("/api")
	api.Post("/auth/register", cfg.Auth.Register)
	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/logout", cfg.Auth.Logout)

	api.Get("/public/:token", cfg.Public.View)
	api.Post("/public/:token/sign", cfg.Public.Sign)
	api.Get("/intake/:token", cfg.Public.Intake)
	api.Put("/intake/:token", cfg.Public.CompleteIntake)
	api.Post("/feedback", cfg.Feedback.Create)

	protected := api.Group("", cfg.AuthMiddleware.RequireContractor)
	protected.Get("/auth/me", cfg.Auth.Me)

	customers := protected.Group("/customers")
	customers.Post("", cfg.Customers.Create)
	customers.Get("", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)
	customers.Post("/:id/intake", cfg.Customers.IssueIntakeLink)

	projects := protected.Group("/projects")
	projects.Post("", cfg.Projects.Create)
	projects.Get("", cfg.Projects.List)
	projects.Get("/:id", cfg.Projects.Get)
	projects.Put("/:id", cfg.Projects.Update)
	projects.Delete("/:id", cfg.Projects.Delete)
	projects.Post("/:id/share", cfg.Projects.IssueShareLink)

	admin := protected.Group("/admin", cfg.AuthMiddleware.RequireAdmin)
	admin.Get("/contractors", cfg.Admin.ListContractors)
	admin.Get("/feedback", cfg.Feedback.List)
}
