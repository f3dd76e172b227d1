package domain

import "github.com/shopspring/decimal"

// ComboOption is one flavour a customer may pick inside a combo.
type ComboOption struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	IsActive bool            `json:"isActive"`
}

// ComboConfig is a "choose N for a base price, extras cost extra" offer.
// Options keep insertion order; inactive options are retained, not deleted.
type ComboConfig struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Image              string          `json:"image,omitempty"`
	BaseSelectionCount int             `json:"baseSelectionCount"`
	BasePrice          decimal.Decimal `json:"basePrice"`
	AllowExtras        bool            `json:"allowExtras"`
	BaseProductID      string          `json:"baseProductId"`
	Options            []ComboOption   `json:"options"`
}

// ActiveOptions returns the options a customer can choose from, in config order.
func (c ComboConfig) ActiveOptions() []ComboOption {
	out := make([]ComboOption, 0, len(c.Options))
	for _, o := range c.Options {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out
}

// Option looks up an option by id, active or not.
func (c ComboConfig) Option(id string) (ComboOption, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return ComboOption{}, false
}

// ComboPatch is a partial update. Nil fields are left untouched.
type ComboPatch struct {
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	Image              *string          `json:"image,omitempty"`
	BaseSelectionCount *int             `json:"baseSelectionCount,omitempty"`
	BasePrice          *decimal.Decimal `json:"basePrice,omitempty"`
	AllowExtras        *bool            `json:"allowExtras,omitempty"`
	BaseProductID      *string          `json:"baseProductId,omitempty"`
	Options            *[]ComboOption   `json:"options,omitempty"`
}

// Apply returns c with the patch merged in. c itself is not modified.
func (p ComboPatch) Apply(c ComboConfig) ComboConfig {
	out := c
	out.Options = append([]ComboOption(nil), c.Options...)
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.BaseSelectionCount != nil {
		out.BaseSelectionCount = *p.BaseSelectionCount
	}
	if p.BasePrice != nil {
		out.BasePrice = *p.BasePrice
	}
	if p.AllowExtras != nil {
		out.AllowExtras = *p.AllowExtras
	}
	if p.BaseProductID != nil {
		out.BaseProductID = *p.BaseProductID
	}
	if p.Options != nil {
		out.Options = append([]ComboOption(nil), (*p.Options)...)
	}
	return out
}
