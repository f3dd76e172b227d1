package services

import (
	"github.com/shopspring/decimal"

	"cozyoven/internal/domain"
)

// QuotedOption is a selected option with its classification.
type QuotedOption struct {
	Option   domain.ComboOption `json:"option"`
	Position int                `json:"position"`
	Included bool               `json:"included"`
}

// ComboQuote is the priced breakdown of one selection.
type ComboQuote struct {
	Lines         []QuotedOption  `json:"lines"`
	IncludedCount int             `json:"includedCount"`
	ExtraCount    int             `json:"extraCount"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	ExtrasTotal   decimal.Decimal `json:"extrasTotal"`
	Total         decimal.Decimal `json:"total"`
	CanCommit     bool            `json:"canCommit"`
}

// PriceCombo prices selected (in the order the customer picked them) against cfg.
// The first BaseSelectionCount picks are included, the rest are extras that add their own
// price. Unknown, inactive and repeated ids are dropped. The extras cap is not enforced here.
func PriceCombo(cfg domain.ComboConfig, selected []string) ComboQuote {
	active := make(map[string]domain.ComboOption, len(cfg.Options))
	for _, o := range cfg.ActiveOptions() {
		active[o.ID] = o
	}

	q := ComboQuote{
		Lines:       make([]QuotedOption, 0, len(selected)),
		BasePrice:   cfg.BasePrice,
		ExtrasTotal: decimal.Zero,
	}
	seen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		o, ok := active[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		pos := len(q.Lines)
		included := pos < cfg.BaseSelectionCount
		if included {
			q.IncludedCount++
		} else {
			q.ExtraCount++
			q.ExtrasTotal = q.ExtrasTotal.Add(o.Price)
		}
		q.Lines = append(q.Lines, QuotedOption{Option: o, Position: pos, Included: included})
	}

	n := len(q.Lines)
	switch {
	case n == 0, n <= cfg.BaseSelectionCount:
		q.Total = cfg.BasePrice
	default:
		q.Total = cfg.BasePrice.Add(q.ExtrasTotal)
	}
	q.CanCommit = n >= cfg.BaseSelectionCount
	return q
}
