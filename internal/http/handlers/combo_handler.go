package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"cozyoven/internal/domain"
	applog "cozyoven/internal/log"
	"cozyoven/internal/services"
	"cozyoven/internal/validate"
)

type ComboHandler struct {
	Combos *services.ComboService
	Cart   *services.CartService
	Money  Money
}

type selectionRequest struct {
	Selected []string `json:"selected" validate:"max=100,dive,required,max=64"`
}

func (h *ComboHandler) lookup(c *fiber.Ctx) (domain.ComboConfig, bool) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "combo"})
		return domain.ComboConfig{}, false
	}
	return h.Combos.Get(id)
}

// GET /combos/:id
func (h *ComboHandler) Page(c *fiber.Ctx) error {
	cfg, ok := h.lookup(c)
	if !ok {
		return notFound(c, "This combo is no longer available")
	}
	return render(c, "combo", fiber.Map{
		"Combo":     h.Money.comboView(cfg),
		"BasePrice": h.Money.Format(cfg.BasePrice),
	})
}

// GET /api/v1/combos
func (h *ComboHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"combos": h.Combos.Storefront()})
}

// GET /api/v1/combos/:id
func (h *ComboHandler) Get(c *fiber.Ctx) error {
	cfg, ok := h.lookup(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "combo not found"})
	}
	cfg.Options = cfg.ActiveOptions()
	return c.JSON(fiber.Map{"combo": cfg, "quote": services.PriceCombo(cfg, nil)})
}

// replay opens a fresh builder and toggles the posted selection in order.
func (h *ComboHandler) replay(c *fiber.Ctx, cfg domain.ComboConfig, sink services.CartSink) (*services.ComboBuilder, error) {
	var req selectionRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid selection")
	}
	if err := validate.Struct(req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "selected", "error": err.Error()})
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid selection")
	}
	seen := make(map[string]struct{}, len(req.Selected))
	for _, id := range req.Selected {
		if _, dup := seen[id]; dup {
			return nil, fiber.NewError(fiber.StatusBadRequest, "each option can be selected once")
		}
		seen[id] = struct{}{}
	}

	b := services.NewComboBuilder(sink)
	if err := b.Open(cfg); err != nil {
		return nil, err
	}
	for _, id := range req.Selected {
		if _, err := b.Toggle(id); err != nil {
			switch {
			case errors.Is(err, services.ErrUnknownOption):
				return nil, fiber.NewError(fiber.StatusBadRequest, "option is not available")
			case errors.Is(err, services.ErrSelectionFull):
				return nil, fiber.NewError(fiber.StatusConflict,
					fmt.Sprintf("this combo allows exactly %d flavours", cfg.BaseSelectionCount))
			}
			return nil, err
		}
	}
	return b, nil
}

func selectionError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return err
}

// POST /api/v1/combos/:id/quote
func (h *ComboHandler) Quote(c *fiber.Ctx) error {
	cfg, ok := h.lookup(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "combo not found"})
	}
	b, err := h.replay(c, cfg, nil)
	if err != nil {
		return selectionError(c, err)
	}
	q := b.Quote()
	b.Cancel()
	return c.JSON(fiber.Map{"quote": q, "total": h.Money.Format(q.Total)})
}

// POST /api/v1/combos/:id/cart
func (h *ComboHandler) AddToCart(c *fiber.Ctx) error {
	cfg, ok := h.lookup(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "combo not found"})
	}
	sink := &services.SessionCart{Cart: h.Cart, SessionID: ensureSID(c)}
	b, err := h.replay(c, cfg, sink)
	if err != nil {
		return selectionError(c, err)
	}
	if !b.CanCommit() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Select at least %d flavours", cfg.BaseSelectionCount),
		})
	}
	line, err := b.Commit()
	if err != nil {
		applog.Error(c, "combo.cart.add.fail", err, map[string]any{"combo_id": cfg.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add combo to cart"})
	}
	line.ID = sink.LastID
	applog.Audit(c, "combo.cart.add", map[string]any{
		"combo_id": cfg.ID, "product_id": line.ProductID, "price": line.Price.String(), "selections": len(line.Selections),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"line":    line,
		"price":   h.Money.Format(line.Price),
		"summary": h.Money.SummaryLines(line),
	})
}
