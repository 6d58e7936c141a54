package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/membership-hub/membership-service/internal/api/http/handlers"
	"github.com/membership-hub/membership-service/internal/auth"
	"github.com/membership-hub/membership-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Members        *handlers.MemberHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/password/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	staff := api.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.StaffRoleAdmin))
	staff.Post("/", cfg.Staff.Create)
	staff.Get("/", cfg.Staff.List)
	staff.Patch("/:id/suspension", cfg.Staff.SetSuspension)
	staff.Delete("/:id", cfg.Staff.Delete)

	members := api.Group("/members", cfg.AuthMiddleware.Handle)
	members.Post("/add", cfg.Members.Create)
	members.Get("/list", cfg.Members.List)
	members.Put("/update/:id", cfg.Members.Update)
	members.Delete("/delete/:id", cfg.Members.Delete)
	members.Post("/send-email", cfg.Members.SendEmail)
}
