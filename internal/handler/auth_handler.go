package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/middleware"
	"github.com/noah-isme/companies-api/internal/service"
	"github.com/noah-isme/companies-api/internal/utils"
)

// AuthHandler exposes token issuance and the current user.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. tokenGuard runs before the token endpoint (rate limiting) and
// the authenticated chain runs before /users/me.
func (h *AuthHandler) Register(router fiber.Router, tokenGuard fiber.Handler, authenticated ...fiber.Handler) {
	if tokenGuard == nil {
		tokenGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Post("/token", tokenGuard, h.token)
	handlers := append(append([]fiber.Handler{}, authenticated...), h.me)
	router.Get("/users/me", handlers...)
}

// ActiveUser rejects tokens whose user has since been disabled or removed.
func (h *AuthHandler) ActiveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := h.service.CurrentUser(requestContext(c), middleware.UsernameFromContext(c)); err != nil {
			return sendServiceError(c, h.logger, err)
		}
		return c.Next()
	}
}

func (h *AuthHandler) token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, err := h.service.IssueToken(requestContext(c), req)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return utils.SendSuccess(c, "token issued", token)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(requestContext(c), middleware.UsernameFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "current user", user)
}
