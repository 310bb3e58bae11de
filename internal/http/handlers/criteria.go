package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tiendita/internal/catalog"
	"tiendita/internal/domain"
	"tiendita/internal/validate"
)

// criteriaFromQuery builds filter criteria from request query params.
// Malformed values are treated as absent, never as errors.
func criteriaFromQuery(c *fiber.Ctx) catalog.Criteria {
	cr := catalog.Criteria{}
	if b := strings.TrimSpace(c.Query("brand")); b != "" {
		if v, ok := validate.Name(b); ok {
			cr.Brand = v
		}
	}
	if v, ok := validate.SizeLabel(c.Query("clothingSize")); ok {
		cr.ClothingSize = v
	}
	if v, ok := validate.SizeLabel(c.Query("footwearSize")); ok {
		cr.FootwearSize = v
	}
	if v, ok := validate.SizeLabel(c.Query("accessorySize")); ok {
		cr.AccessorySize = v
	}
	if v, ok := validate.Price(c.Query("priceMin")); ok {
		cr.PriceMin = &v
	}
	if v, ok := validate.Price(c.Query("priceMax")); ok {
		cr.PriceMax = &v
	}
	switch a := strings.TrimSpace(c.Query("availability")); a {
	case domain.AvailImmediate, domain.AvailShortWait, domain.AvailLongWait, domain.AvailInStock:
		cr.Availability = a
	}
	if q, ok := validate.Q(c.Query("q")); ok {
		cr.Query = q
	}
	return cr
}
