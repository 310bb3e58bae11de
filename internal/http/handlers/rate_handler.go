package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tiendita/internal/currency"
)

type RateHandler struct {
	Rates *currency.Service
}

// GET /api/v1/exchange-rate
// 503 while the first fetch is still pending; clients show their loading
// placeholder rather than converting against zero.
func (h *RateHandler) Get(c *fiber.Ctx) error {
	rate, ok := h.Rates.Rate()
	if !ok {
		return jsonError(c, fiber.StatusServiceUnavailable, "exchange rate not available yet")
	}
	return c.JSON(fiber.Map{"rate": rate})
}
