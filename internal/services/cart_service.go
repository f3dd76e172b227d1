package services

import (
	"github.com/shopspring/decimal"

	"cozyoven/internal/domain"
	"cozyoven/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
}

func NewCartService(carts *repos.CartRepo) *CartService {
	return &CartService{Carts: carts}
}

// AddLine stores a line in the session's cart and returns the new line id.
func (s *CartService) AddLine(sessionID string, line domain.CartLine) (string, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", err
	}
	return s.Carts.InsertLine(cartID, line)
}

type CartView struct {
	Items []domain.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}

func (s *CartService) Remove(sessionID, lineID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveLine(cartID, lineID)
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

// SessionCart adapts one session's cart to the CartSink a ComboBuilder commits into.
type SessionCart struct {
	Cart      *CartService
	SessionID string
	LastID    string
}

func (c *SessionCart) AddLine(line domain.CartLine) error {
	id, err := c.Cart.AddLine(c.SessionID, line)
	if err != nil {
		return err
	}
	c.LastID = id
	return nil
}
