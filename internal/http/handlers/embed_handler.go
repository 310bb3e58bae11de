package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tiendita/internal/domain"
	applog "tiendita/internal/log"
	"tiendita/internal/repos"
	"tiendita/internal/validate"
)

type EmbedHandler struct {
	Embeds *repos.EmbedRepo
}

// GET /api/v1/social-embeds
func (h *EmbedHandler) List(c *fiber.Ctx) error {
	embeds, err := h.Embeds.List()
	if err != nil {
		applog.Error(c, "api.embeds.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load embeds")
	}
	return c.JSON(embeds)
}

// POST /api/v1/social-embeds (admin)
func (h *EmbedHandler) Create(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	url, ok := validate.URL(req.URL)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid embed url")
	}
	e := domain.SocialEmbed{ID: uuid.NewString(), URL: url}
	if err := h.Embeds.Create(&e); err != nil {
		applog.Error(c, "api.embeds.create.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not save embed")
	}
	applog.Audit(c, "admin.embeds.create", map[string]any{"id": e.ID})
	return c.Status(fiber.StatusCreated).JSON(e)
}

// DELETE /api/v1/social-embeds/:id (admin)
func (h *EmbedHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "embed not found")
	}
	if err := h.Embeds.Delete(id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "embed not found")
		}
		applog.Error(c, "api.embeds.delete.fail", err, map[string]any{"id": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not delete embed")
	}
	applog.Audit(c, "admin.embeds.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
