package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/companies-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalUsername = "username"
	LocalScopes   = "scopes"
)

const invalidCredentialsMessage = "could not validate credentials"

// JWTProtected returns a middleware that validates HS256 bearer tokens and exposes the subject
// and scopes to later handlers.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return unauthorized(c, "not authenticated")
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return unauthorized(c, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, invalidCredentialsMessage)
		}

		username, err := claims.GetSubject()
		if err != nil || strings.TrimSpace(username) == "" {
			return unauthorized(c, invalidCredentialsMessage)
		}

		c.Locals(LocalUsername, username)
		c.Locals(LocalScopes, extractScopes(claims))

		return c.Next()
	}
}

// UsernameFromContext returns the authenticated subject, if any.
func UsernameFromContext(c *fiber.Ctx) string {
	if value, ok := c.Locals(LocalUsername).(string); ok {
		return value
	}
	return ""
}

// ScopesFromContext returns the scopes granted by the bearer token.
func ScopesFromContext(c *fiber.Ctx) []string {
	if value, ok := c.Locals(LocalScopes).([]string); ok {
		return value
	}
	return nil
}

func extractScopes(claims jwt.MapClaims) []string {
	switch value := claims["scopes"].(type) {
	case []interface{}:
		scopes := make([]string, 0, len(value))
		for _, item := range value {
			if scope, ok := item.(string); ok && strings.TrimSpace(scope) != "" {
				scopes = append(scopes, strings.TrimSpace(scope))
			}
		}
		return scopes
	case string:
		// OAuth2 style space separated scope string.
		return strings.Fields(value)
	default:
		return nil
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return utils.SendError(c, fiber.StatusUnauthorized, message)
}
