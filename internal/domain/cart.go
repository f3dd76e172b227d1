package domain

import "github.com/shopspring/decimal"

// CartLine is what a committed combo turns into. Checkout only sees ProductID and Price.
type CartLine struct {
	ID          string          `db:"id" json:"id"`
	ProductID   string          `db:"product_id" json:"productId"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
	Quantity    int             `db:"qty" json:"quantity"`
	Selections  []LineSelection `db:"-" json:"selections,omitempty"`
}

// LineSelection is one chosen option on a cart line.
type LineSelection struct {
	OptionID   string          `json:"optionId"`
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
	Included   bool            `json:"included"`
}
