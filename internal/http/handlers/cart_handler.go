package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tiendita/internal/currency"
	applog "tiendita/internal/log"
	"tiendita/internal/repos"
	"tiendita/internal/services"
	"tiendita/internal/validate"
)

type CartHandler struct {
	Cart  *services.CartService
	Rates *currency.Service
}

func (h *CartHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{Name: "sid", Value: sid, Path: "/", HTTPOnly: true})
	}
	return sid
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	productID, okID := validate.ID(c.FormValue("productId"))
	size, okSize := validate.SizeLabel(c.FormValue("size"))
	if !okID || !okSize {
		return c.Status(400).SendString("missing productId or size")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(sid, productID, size, qty); err != nil {
		if errors.Is(err, repos.ErrNotFound) || errors.Is(err, services.ErrNoSuchSize) {
			return c.Status(400).SendString("product or size not available")
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not add to cart")
	}
	return c.Redirect("/cart")
}

// POST /cart/delete
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	productID, okID := validate.ID(c.FormValue("productId"))
	size, okSize := validate.SizeLabel(c.FormValue("size"))
	if !okID || !okSize {
		return c.Status(400).SendString("missing productId or size")
	}
	if err := h.Cart.Remove(sid, productID, size); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

// POST /cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart. Please retry."})
	}
	rate, ok := h.Rates.Rate()
	return render(c, "cart", fiber.Map{
		"Items":      cv.Items,
		"Total":      cv.Total,
		"LocalTotal": currency.Display(cv.Total, rate, ok),
	})
}
