package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"cozyoven/internal/domain"
	applog "cozyoven/internal/log"
	"cozyoven/internal/repos"
	"cozyoven/internal/services"
	"cozyoven/internal/validate"
)

type AdminComboHandler struct {
	Combos *services.ComboService
}

type optionRequest struct {
	ID       string          `json:"id" validate:"omitempty,max=64"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image" validate:"max=2048"`
	IsActive *bool           `json:"isActive"`
}

func (o optionRequest) option() domain.ComboOption {
	active := true
	if o.IsActive != nil {
		active = *o.IsActive
	}
	return domain.ComboOption{ID: o.ID, Name: o.Name, Price: o.Price, Image: o.Image, IsActive: active}
}

func options(in []optionRequest) []domain.ComboOption {
	out := make([]domain.ComboOption, len(in))
	for i, o := range in {
		out[i] = o.option()
	}
	return out
}

type comboRequest struct {
	Name               string          `json:"name" validate:"max=120"`
	Description        string          `json:"description" validate:"max=2000"`
	Image              string          `json:"image" validate:"max=2048"`
	BaseSelectionCount int             `json:"baseSelectionCount"`
	BasePrice          decimal.Decimal `json:"basePrice"`
	AllowExtras        bool            `json:"allowExtras"`
	BaseProductID      string          `json:"baseProductId" validate:"max=64"`
	Options            []optionRequest `json:"options" validate:"max=100,dive"`
}

type comboPatchRequest struct {
	Name               *string          `json:"name" validate:"omitempty,max=120"`
	Description        *string          `json:"description" validate:"omitempty,max=2000"`
	Image              *string          `json:"image" validate:"omitempty,max=2048"`
	BaseSelectionCount *int             `json:"baseSelectionCount"`
	BasePrice          *decimal.Decimal `json:"basePrice"`
	AllowExtras        *bool            `json:"allowExtras"`
	BaseProductID      *string          `json:"baseProductId" validate:"omitempty,max=64"`
	Options            *[]optionRequest `json:"options"`
}

type addOptionRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image" validate:"max=2048"`
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func badRequest(c *fiber.Ctx, err error) error {
	applog.Security(c, "validation.fail", map[string]any{"error": err.Error()})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
}

// respond maps a combo write outcome onto the response. A PersistError still carries the applied record.
func respond(c *fiber.Ctx, action string, status int, cfg domain.ComboConfig, err error) error {
	var ce *validate.ComboError
	var pe *repos.PersistError
	switch {
	case err == nil:
		applog.Audit(c, action, map[string]any{"combo_id": cfg.ID})
		return c.Status(status).JSON(fiber.Map{"combo": cfg, "durable": true})
	case errors.As(err, &ce):
		applog.Security(c, action+".rejected", map[string]any{"rule": string(ce.Rule), "combo_id": cfg.ID})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": ce.Msg, "rule": ce.Rule})
	case errors.Is(err, services.ErrOptionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "option not found"})
	case errors.As(err, &pe):
		applog.Error(c, action+".not_durable", err, map[string]any{"combo_id": cfg.ID})
		return c.Status(status).JSON(fiber.Map{
			"combo": cfg, "durable": false, "warning": "Saved locally but not durably. Please retry.",
		})
	}
	applog.Error(c, action+".fail", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save combo"})
}

func comboID(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

func comboNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "combo not found"})
}

// GET /admin/combos
func (h *AdminComboHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"combos": h.Combos.List()})
}

// GET /admin/combos/products?q=
func (h *AdminComboHandler) Products(c *fiber.Ctx) error {
	q := ""
	if raw := strings.TrimSpace(c.Query("q")); raw != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid search"})
		}
	}
	products, err := h.Combos.LinkableProducts(q)
	if err != nil {
		applog.Error(c, "admin.combo.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(fiber.Map{"products": products})
}

// GET /admin/combos/:id
func (h *AdminComboHandler) Get(c *fiber.Ctx) error {
	id, ok := comboID(c)
	if !ok {
		return comboNotFound(c)
	}
	cfg, ok := h.Combos.Get(id)
	if !ok {
		return comboNotFound(c)
	}
	return c.JSON(fiber.Map{"combo": cfg})
}

// POST /admin/combos
func (h *AdminComboHandler) Create(c *fiber.Ctx) error {
	var req comboRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}
	cfg, err := h.Combos.Create(services.ComboDraft{
		Name:               req.Name,
		Description:        req.Description,
		Image:              req.Image,
		BaseSelectionCount: req.BaseSelectionCount,
		BasePrice:          req.BasePrice,
		AllowExtras:        req.AllowExtras,
		BaseProductID:      req.BaseProductID,
		Options:            options(req.Options),
	})
	return respond(c, "admin.combo.create", fiber.StatusCreated, cfg, err)
}

// PATCH /admin/combos/:id
func (h *AdminComboHandler) Update(c *fiber.Ctx) error {
	id, ok := comboID(c)
	if !ok {
		return comboNotFound(c)
	}
	var req comboPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}
	patch := domain.ComboPatch{
		Name:               req.Name,
		Description:        req.Description,
		Image:              req.Image,
		BaseSelectionCount: req.BaseSelectionCount,
		BasePrice:          req.BasePrice,
		AllowExtras:        req.AllowExtras,
		BaseProductID:      req.BaseProductID,
	}
	if req.Options != nil {
		for _, o := range *req.Options {
			if err := validate.Struct(o); err != nil {
				return badRequest(c, err)
			}
		}
		opts := options(*req.Options)
		patch.Options = &opts
	}
	cfg, found, err := h.Combos.Update(id, patch)
	if !found {
		return comboNotFound(c)
	}
	return respond(c, "admin.combo.update", fiber.StatusOK, cfg, err)
}

// DELETE /admin/combos/:id
func (h *AdminComboHandler) Delete(c *fiber.Ctx) error {
	id, ok := comboID(c)
	if !ok {
		return comboNotFound(c)
	}
	if err := h.Combos.Delete(id); err != nil {
		applog.Error(c, "admin.combo.delete.not_durable", err, map[string]any{"combo_id": id})
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"durable": false, "warning": "Deleted locally but not durably. Please retry."})
	}
	applog.Audit(c, "admin.combo.delete", map[string]any{"combo_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/combos/:id/options
func (h *AdminComboHandler) AddOption(c *fiber.Ctx) error {
	id, ok := comboID(c)
	if !ok {
		return comboNotFound(c)
	}
	var req addOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}
	cfg, _, found, err := h.Combos.AddOption(id, req.Name, req.Price, req.Image)
	if !found {
		return comboNotFound(c)
	}
	return respond(c, "admin.combo.option.add", fiber.StatusCreated, cfg, err)
}

// POST /admin/combos/:id/options/:optionId/active
func (h *AdminComboHandler) SetOptionActive(c *fiber.Ctx) error {
	id, ok := comboID(c)
	optID, okOpt := validate.ID(c.Params("optionId"))
	if !ok || !okOpt {
		return comboNotFound(c)
	}
	var req activeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err)
	}
	cfg, found, err := h.Combos.SetOptionActive(id, optID, *req.Active)
	if !found {
		return comboNotFound(c)
	}
	return respond(c, "admin.combo.option.active", fiber.StatusOK, cfg, err)
}

// DELETE /admin/combos/:id/options/:optionId
func (h *AdminComboHandler) RemoveOption(c *fiber.Ctx) error {
	id, ok := comboID(c)
	optID, okOpt := validate.ID(c.Params("optionId"))
	if !ok || !okOpt {
		return comboNotFound(c)
	}
	cfg, found, err := h.Combos.RemoveOption(id, optID)
	if !found {
		return comboNotFound(c)
	}
	return respond(c, "admin.combo.option.remove", fiber.StatusOK, cfg, err)
}
