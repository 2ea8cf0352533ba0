package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecyclehub/ecyclehub/internal/api/http/handlers"
	"github.com/ecyclehub/ecyclehub/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Registrations  *handlers.RegistrationsHandler
	Profile        *handlers.ProfileHandler
	Community      *handlers.CommunityHandler
	AuthMiddleware *auth.AuthMiddleware
	// AuthLimiter throttles the unauthenticated account and login routes.
	AuthLimiter fiber.Handler
	Metrics     fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	throttled := func(h fiber.Handler) []fiber.Handler {
		if cfg.AuthLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{cfg.AuthLimiter, h}
	}
	authenticated := cfg.AuthMiddleware.Handle
	self := auth.RequireSelf("userId")

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", throttled(cfg.Accounts.Register)...)
	authGroup.Post("/login", throttled(cfg.Accounts.Login)...)
	authGroup.Post("/logout", authenticated, cfg.Accounts.Logout)

	api.Post("/registrations", throttled(cfg.Registrations.CreateJoint)...)
	api.Post("/registrations/existing", authenticated, cfg.Registrations.CreateForExisting)

	api.Get("/users/:userId", authenticated, self, cfg.Profile.GetProfile)
	api.Get("/users/:userId/registrations", authenticated, self, cfg.Profile.ListRegistrations)

	api.Post("/rewards/quote", cfg.Community.Quote)
	api.Get("/drop-offs", cfg.Community.DropOffs)
	api.Get("/announcements", cfg.Community.Announcements)
}
