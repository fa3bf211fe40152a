package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/companies-api/internal/utils"
)

// RequireScope ensures the bearer token grants at least one of the listed scopes.
func RequireScope(scopes ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		normalized := strings.TrimSpace(scope)
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		for _, granted := range ScopesFromContext(c) {
			if _, ok := allowed[granted]; ok {
				return c.Next()
			}
		}
		c.Set(fiber.HeaderWWWAuthenticate, `Bearer scope="`+strings.Join(scopes, " ")+`"`)
		return utils.SendError(c, fiber.StatusForbidden, "not enough permissions")
	}
}
