package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tiendita/internal/log"
	"tiendita/internal/services"
	"tiendita/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /api/v1/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	email, ok := validate.Email(req.Email)
	if !ok || req.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "email and password required")
	}

	token, err := h.Auth.Login(email, req.Password)
	if err != nil {
		applog.Security(c, "login.fail", map[string]any{"email": email})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	applog.Audit(c, "login.ok", map[string]any{"email": email})
	return c.JSON(fiber.Map{"token": token})
}
