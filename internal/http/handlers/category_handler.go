package handlers

import (
	"cozyoven/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
	Combos  *services.ComboService
	Money   Money
}

// GET /
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	combos := h.Combos.Storefront()
	views := make([]comboView, 0, len(combos))
	for _, cb := range combos {
		views = append(views, h.Money.comboView(cb))
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Combos": views})
}

// GET /category/:id
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID := c.Params("id")
	products, err := h.Catalog.ListProductsByCategory(catID, 1, 12)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categoryId": catID, "products": products})
}
