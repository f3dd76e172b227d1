package handlers

import (
	"cozyoven/internal/log"
	"cozyoven/internal/services"
	"cozyoven/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// Lookup is the catalog lookup combos are linked against.
// GET /api/v1/products/:id
func (h *ProductHandler) Lookup(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(fiber.Map{"id": p.ID, "name": p.Name, "price": p.Price})
}
