package handlers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cozyoven/internal/domain"
)

// Money formats an amount for display, e.g. "₵ 100.00".
type Money struct{ Symbol string }

func (m Money) Format(d decimal.Decimal) string {
	return m.Symbol + " " + d.StringFixed(2)
}

// Delta formats an extra's surcharge, e.g. "+₵20.00".
func (m Money) Delta(d decimal.Decimal) string {
	return "+" + m.Symbol + d.StringFixed(2)
}

// SummaryLines renders a combo line's selections the way the cart shows them.
func (m Money) SummaryLines(line domain.CartLine) []string {
	out := make([]string, 0, len(line.Selections))
	for _, s := range line.Selections {
		tag := "Included"
		if !s.Included {
			tag = m.Delta(s.PriceDelta)
		}
		out = append(out, fmt.Sprintf("• %s (%s)", s.Label, tag))
	}
	return out
}

type optionView struct {
	ID    string
	Name  string
	Price string
	Image string
}

type comboView struct {
	ID          string
	Name        string
	Description string
	Image       string
	Offer       string
	ExtrasNote  string
	Count       int
	Options     []optionView
}

func (m Money) comboView(c domain.ComboConfig) comboView {
	v := comboView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Count:       c.BaseSelectionCount,
		Offer:       fmt.Sprintf("Choose any %d for %s", c.BaseSelectionCount, m.Format(c.BasePrice)),
	}
	if v.Description == "" {
		v.Description = "Create your own signature combo."
	}
	if c.AllowExtras {
		v.ExtrasNote = fmt.Sprintf("Extras beyond %d are charged per flavour.", c.BaseSelectionCount)
	}
	for _, o := range c.ActiveOptions() {
		v.Options = append(v.Options, optionView{ID: o.ID, Name: o.Name, Price: m.Format(o.Price), Image: o.Image})
	}
	return v
}

type cartLineView struct {
	ID          string
	Name        string
	Description string
	Price       string
	Summary     []string
}

func (m Money) cartLineView(l domain.CartLine) cartLineView {
	return cartLineView{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Price:       m.Format(l.Price),
		Summary:     m.SummaryLines(l),
	}
}
