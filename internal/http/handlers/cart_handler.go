package handlers

import (
	"cozyoven/internal/log"
	"cozyoven/internal/services"
	"cozyoven/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	Cart  *services.CartService
	Money Money
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		log.Error(c, "cart.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	lines := make([]cartLineView, 0, len(cv.Items))
	for _, it := range cv.Items {
		lines = append(lines, h.Money.cartLineView(it))
	}
	return render(c, "cart", fiber.Map{"Lines": lines, "Total": h.Money.Format(cv.Total)})
}

// GET /api/v1/cart
func (h *CartHandler) JSON(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		log.Error(c, "cart.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cv)
}

// DELETE /api/v1/cart/:lineId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID, ok := validate.ID(c.Params("lineId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid line"})
	}
	if err := h.Cart.Remove(sid, lineID); err != nil {
		log.Error(c, "cart.remove.fail", err, map[string]any{"line_id": lineID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not remove line"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(ensureSID(c)); err != nil {
		log.Error(c, "cart.clear.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear cart"})
	}
	log.Audit(c, "cart.clear", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
