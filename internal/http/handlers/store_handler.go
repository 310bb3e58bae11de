package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tiendita/internal/currency"
	"tiendita/internal/domain"
	applog "tiendita/internal/log"
	"tiendita/internal/repos"
	"tiendita/internal/services"
	"tiendita/internal/validate"
)

// StoreHandler renders the customer-facing pages.
type StoreHandler struct {
	Catalog *services.CatalogService
	Embeds  *repos.EmbedRepo
	Rates   *currency.Service
}

// productVM decorates a product with its derived availability and the
// local-currency price string shown next to the USD price.
type productVM struct {
	domain.Product
	Avail      domain.Availability
	LocalPrice string
}

func (h *StoreHandler) vms(products []domain.Product) []productVM {
	rate, ok := h.Rates.Rate()
	out := make([]productVM, 0, len(products))
	for _, p := range products {
		out = append(out, productVM{
			Product:    p,
			Avail:      p.Availability(),
			LocalPrice: currency.Display(p.Price, rate, ok),
		})
	}
	return out
}

// GET /
func (h *StoreHandler) Home(c *fiber.Ctx) error {
	featured, footwear, err := h.Catalog.Featured()
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the store. Please retry."})
	}
	embeds, err := h.Embeds.List()
	if err != nil {
		applog.Error(c, "home.embeds.fail", err, nil)
		embeds = nil // the home page still renders without the social row
	}
	rate, ok := h.Rates.Rate()
	data := fiber.Map{
		"Featured": h.vms(featured),
		"Footwear": h.vms(footwear),
		"Embeds":   embeds,
	}
	if ok {
		data["Rate"] = rate
	}
	return render(c, "home", data)
}

// GET /category/:category
func (h *StoreHandler) Category(c *fiber.Ctx) error {
	category := c.Params("category")
	if !domain.ValidCategory(category) {
		applog.Security(c, "validation.fail", map[string]any{"field": "category", "value": category})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Unknown category"})
	}
	cr := criteriaFromQuery(c)
	products, err := h.Catalog.ListByCategory(category, cr)
	if err != nil {
		applog.Error(c, "category.list.fail", err, map[string]any{"category": category})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	facets, err := h.Catalog.Facets()
	if err != nil {
		applog.Error(c, "category.facets.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}
	return render(c, "category", fiber.Map{
		"Category": category,
		"Products": h.vms(products),
		"Count":    len(products),
		"Facets":   facets,
	})
}

// GET /product/:id
func (h *StoreHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}

	rate, rateOK := h.Rates.Rate()
	type sizeVM struct {
		domain.SizeEntry
		LocalPrice string
	}
	sizes := make([]sizeVM, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, sizeVM{SizeEntry: s, LocalPrice: currency.Display(s.Price, rate, rateOK)})
	}

	return render(c, "product", fiber.Map{
		"P":          p,
		"Avail":      p.Availability(),
		"LocalPrice": currency.Display(p.Price, rate, rateOK),
		"Sizes":      sizes,
	})
}

// GET /search
func (h *StoreHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if rawQ == "" {
		return render(c, "search", fiber.Map{"Q": "", "Products": []productVM{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Products": []productVM{}, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}

	products, err := h.Catalog.List(criteriaFromQuery(c))
	if err != nil {
		applog.Error(c, "search.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}
	return render(c, "search", fiber.Map{
		"Q": q, "Products": h.vms(products), "Count": len(products),
	})
}
