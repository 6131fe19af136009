package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicfix/report-service/internal/api/http/handlers"
	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Reports    *handlers.ReportsHandler
	Admin      *handlers.AdminHandler
	Contact    *handlers.ContactHandler
	Middleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/contact", cfg.Contact.Submit)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/logout", cfg.Middleware.Handle, cfg.Users.Logout)

	reports := app.Group("/reports", cfg.Middleware.Handle)
	reports.Post("", auth.RequireRole(domain.RoleCitizen), cfg.Reports.Create)
	reports.Get("/mine", auth.RequireRole(), cfg.Reports.Mine)
	reports.Get("/:id", auth.RequireRole(), cfg.Reports.Get)
	reports.Delete("/:id", auth.RequireRole(domain.RoleCitizen), cfg.Reports.Delete)
	reports.Patch("/:id/status", auth.RequireRole(domain.RoleWorker, domain.RoleAdmin), cfg.Reports.UpdateStatus)

	users := app.Group("/users", cfg.Middleware.Handle)
	users.Patch("/me/request-worker", auth.RequireRole(domain.RoleCitizen), cfg.Users.RequestWorkerRole)

	worker := app.Group("/worker", cfg.Middleware.Handle, auth.RequireRole(domain.RoleWorker, domain.RoleAdmin))
	worker.Get("/queue", cfg.Reports.WorkerQueue)

	admin := app.Group("/admin", cfg.Middleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/reports", cfg.Reports.AdminAll)
	admin.Get("/archive", cfg.Reports.Archive)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id/role", cfg.Admin.UpdateUserRole)
	admin.Get("/messages", cfg.Admin.ListMessages)
}
