package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/learning-portal/internal/api/http/handlers"
	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Users       *handlers.UsersHandler
	Departments *handlers.DepartmentsHandler
	Pages       *handlers.PagesHandler
	Guard       *auth.Guard
	StaticDir   string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.StaticDir != "" {
		app.Static("/static", cfg.StaticDir)
	}

	guard := cfg.Guard
	adminOnly := guard.RequireRole(auth.ModeAPI, domain.RoleAdmin)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", guard.Optional(), cfg.Auth.Logout)
	authGroup.Get("/me", guard.Required(auth.ModeAPI), cfg.Auth.Me)

	users := api.Group("/users")
	users.Put("/me", guard.Required(auth.ModeAPI), cfg.Users.UpdateMe)
	users.Post("/me/password", guard.Required(auth.ModeAPI), cfg.Users.ChangePassword)
	users.Get("/", adminOnly, cfg.Users.List)
	users.Get("/:id", adminOnly, cfg.Users.Get)
	users.Patch("/:id/role", adminOnly, cfg.Users.SetRole)
	users.Patch("/:id/status", adminOnly, cfg.Users.SetStatus)

	api.Get("/departments", guard.Required(auth.ModeAPI), cfg.Departments.List)
	api.Get("/dashboard/stats", guard.Required(auth.ModeAPI), cfg.Departments.Stats)

	app.Get("/", guard.Optional(), cfg.Pages.Index)
	app.Get("/login", guard.Optional(), cfg.Pages.Login)
	app.Get("/register", guard.Optional(), cfg.Pages.Register)

	member := guard.Required(auth.ModePage)
	app.Get("/dashboard", member, cfg.Pages.Dashboard)
	app.Get("/materials", member, cfg.Pages.Materials)
	app.Get("/detail", member, cfg.Pages.Detail)
	app.Get("/statistics", member, cfg.Pages.Statistics)
	app.Get("/admin/users", guard.RequireRole(auth.ModePage, domain.RoleAdmin), cfg.Pages.AdminUsers)
}
