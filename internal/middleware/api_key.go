package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/companies-api/internal/utils"
)

// APIKeyHeader carries the static API key.
const APIKeyHeader = "API-key"

// APIKey rejects requests whose API-key header does not match key. An empty key disables the
// check.
func APIKey(key string) fiber.Handler {
	expected := []byte(strings.TrimSpace(key))

	return func(c *fiber.Ctx) error {
		if len(expected) == 0 {
			return c.Next()
		}
		provided := []byte(strings.TrimSpace(c.Get(APIKeyHeader)))
		if subtle.ConstantTimeCompare(expected, provided) != 1 {
			return utils.SendError(c, fiber.StatusForbidden, "invalid api key")
		}
		return c.Next()
	}
}
