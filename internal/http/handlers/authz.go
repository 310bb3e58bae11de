package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "tiendita/internal/log"
	"tiendita/internal/services"
)

// RequireAdmin guards the back-office API. A missing, malformed or expired
// bearer token answers 401 so the client can direct the user to re-login
// without discarding staged edits; a valid token without the ADMIN role
// answers 403.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			applog.Security(c, "auth.token.missing", nil)
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		claims, err := auth.Verify(strings.TrimSpace(token))
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if claims.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", map[string]any{"sub": claims.Subject})
			return jsonError(c, fiber.StatusForbidden, "admin role required")
		}
		c.Locals("adminID", claims.Subject)
		return c.Next()
	}
}
