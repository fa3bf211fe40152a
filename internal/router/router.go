package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/companies-api/internal/config"
	"github.com/noah-isme/companies-api/internal/handler"
	"github.com/noah-isme/companies-api/internal/middleware"
	"github.com/noah-isme/companies-api/internal/observability"
	"github.com/noah-isme/companies-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	OrganizationHandler *handler.OrganizationHandler
	ActivityHandler     *handler.ActivityHandler
	AuthHandler         *handler.AuthHandler
	SeedHandler         *handler.SeedHandler
	AuditHandler        *handler.AuditHandler
	JWTMiddleware       fiber.Handler
	ReadinessProbes     map[string]handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	observability.Mount(app, observability.DefaultMetricsPath)

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	if len(deps.ReadinessProbes) > 0 {
		api.Get("/health/ready", handler.ReadinessCheck(cfg, deps.ReadinessProbes))
	}

	apiKey := middleware.APIKey(cfg.APIKey)

	// Use provided JWT middleware, or the configured HS256 validator if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}
	authenticated := []fiber.Handler{jwtMiddleware}
	if deps.AuthHandler != nil {
		authenticated = append(authenticated, deps.AuthHandler.ActiveUser())
	}
	withScopes := func(scopes ...string) []fiber.Handler {
		chain := append([]fiber.Handler{apiKey}, authenticated...)
		return append(chain, middleware.RequireScope(scopes...))
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", apiKey)
		tokenLimiter := middleware.RateLimit("token", cfg.TokenRequestsPerMin, time.Minute)
		deps.AuthHandler.Register(auth, tokenLimiter, authenticated...)
	}

	if deps.OrganizationHandler != nil {
		organizations := api.Group("/organizations", withScopes(service.ScopeBasicUser, service.ScopeAdvancedUser)...)
		deps.OrganizationHandler.Register(organizations, middleware.RequireScope(service.ScopeAdvancedUser))
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", withScopes(service.ScopeBasicUser, service.ScopeAdvancedUser)...)
		deps.ActivityHandler.Register(activities)
	}

	if deps.AuditHandler != nil {
		audit := api.Group("/audit", withScopes(service.ScopeAdvancedUser)...)
		deps.AuditHandler.Register(audit)
	}

	// Seeding is guarded by its own token instead of a bearer token.
	if deps.SeedHandler != nil {
		admin := api.Group("/admin", apiKey)
		deps.SeedHandler.Register(admin)
	}
}
