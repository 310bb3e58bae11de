package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tiendita/internal/catalog"
	"tiendita/internal/domain"
	applog "tiendita/internal/log"
	"tiendita/internal/media"
	"tiendita/internal/repos"
	"tiendita/internal/services"
	"tiendita/internal/validate"
)

// ProductAPI is the JSON surface: public catalog reads plus the bearer-
// guarded back-office writes.
type ProductAPI struct {
	Catalog *services.CatalogService
	Admin   *services.AdminService
}

// GET /api/v1/products
// Without page/limit the response is a bare array; with either present it
// becomes the pagination envelope.
func (h *ProductAPI) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List(criteriaFromQuery(c))
	if err != nil {
		applog.Error(c, "api.products.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	if c.Query("page") == "" && c.Query("limit") == "" {
		return c.JSON(products)
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return c.JSON(catalog.Paginate(products, page, limit))
}

// GET /api/v1/products/category/:category
func (h *ProductAPI) ListByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if !domain.ValidCategory(category) {
		return jsonError(c, fiber.StatusNotFound, "unknown category")
	}
	products, err := h.Catalog.ListByCategory(category, criteriaFromQuery(c))
	if err != nil {
		applog.Error(c, "api.products.category.fail", err, map[string]any{"category": category})
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
// Optional w/h query params are passed through onto the image reference;
// actual resampling belongs to the image host.
func (h *ProductAPI) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	p, err := h.Catalog.Get(id)
	if errors.Is(err, repos.ErrNotFound) {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		applog.Error(c, "api.products.get.fail", err, map[string]any{"id": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not load product")
	}
	if p.Image != "" {
		if sized := imageQuery(c.Query("w"), c.Query("h")); sized != "" {
			p.Image += "?" + sized
		}
	}
	return c.JSON(p)
}

func imageQuery(w, h string) string {
	parts := make([]string, 0, 2)
	if _, err := strconv.Atoi(w); err == nil {
		parts = append(parts, "w="+w)
	}
	if _, err := strconv.Atoi(h); err == nil {
		parts = append(parts, "h="+h)
	}
	return strings.Join(parts, "&")
}

// GET /api/v1/filters
func (h *ProductAPI) Filters(c *fiber.Ctx) error {
	md, err := h.Catalog.Facets()
	if err != nil {
		applog.Error(c, "api.filters.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load filters")
	}
	return c.JSON(md)
}

// POST /api/v1/products (admin, multipart: fields + optional image)
func (h *ProductAPI) Create(c *fiber.Ctx) error {
	p, err := productFromForm(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	image, _ := c.FormFile("image")

	created, err := h.Admin.Create(p, image)
	if err != nil {
		return h.writeError(c, "api.products.create.fail", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"id": created.ID})
	return c.Status(fiber.StatusCreated).JSON(created)
}

// PUT /api/v1/products/:id (admin, JSON full record)
func (h *ProductAPI) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	p.ID = id

	updated, err := h.Admin.Update(&p)
	if err != nil {
		return h.writeError(c, "api.products.update.fail", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"id": id})
	return c.JSON(updated)
}

// PUT /api/v1/products/:id/image (admin, multipart)
func (h *ProductAPI) UpdateImage(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	image, err := c.FormFile("image")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "image file required")
	}
	updated, err := h.Admin.UpdateImage(id, image)
	if err != nil {
		return h.writeError(c, "api.products.image.fail", err)
	}
	applog.Audit(c, "admin.products.image", map[string]any{"id": id})
	return c.JSON(updated)
}

// DELETE /api/v1/products/:id (admin)
func (h *ProductAPI) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if err := h.Admin.Delete(id); err != nil {
		return h.writeError(c, "api.products.delete.fail", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductAPI) writeError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "product not found")
	case errors.Is(err, services.ErrInvalidProduct):
		return jsonError(c, fiber.StatusBadRequest, "invalid product fields")
	case errors.Is(err, media.ErrBadImageType):
		return jsonError(c, fiber.StatusBadRequest, "unsupported image type")
	default:
		applog.Error(c, action, err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not save product")
	}
}

// productFromForm reads the multipart create form. Sizes and colors arrive
// as repeated "size" (label:price) and "color" fields.
func productFromForm(c *fiber.Ctx) (*domain.Product, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("multipart form required")
	}
	get := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}
	price, _ := validate.Price(get("price"))
	p := &domain.Product{
		Name:             get("name"),
		Description:      get("description"),
		Brand:            get("brand"),
		Category:         get("category"),
		Price:            price,
		OnOrder:          get("onOrder") == "true",
		Featured:         get("featured") == "true",
		FeaturedFootwear: get("featuredFootwear") == "true",
	}
	for _, raw := range form.Value["size"] {
		label, priceStr, found := strings.Cut(raw, ":")
		if !found {
			return nil, errors.New("size entries must be label:price")
		}
		sp, ok := validate.Price(priceStr)
		if !ok {
			return nil, errors.New("size entries must be label:price")
		}
		p.Sizes = append(p.Sizes, domain.SizeEntry{Label: strings.TrimSpace(label), Price: sp})
	}
	for _, col := range form.Value["color"] {
		if col = strings.TrimSpace(col); col != "" {
			p.Colors = append(p.Colors, col)
		}
	}
	return p, nil
}
