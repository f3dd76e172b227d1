package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cozyoven/internal/domain"
	"cozyoven/internal/repos"
	"cozyoven/internal/validate"
)

var ErrOptionNotFound = errors.New("option not found")

// ComboService is the only write path to the combo store; every write goes through validate.Combo
// on the merged candidate first.
type ComboService struct {
	Store *repos.ComboStore
	Prods *repos.ProductRepo
}

func NewComboService(store *repos.ComboStore, prods *repos.ProductRepo) *ComboService {
	return &ComboService{Store: store, Prods: prods}
}

// ComboDraft is a combo before it has an id. Options without an id get one.
type ComboDraft struct {
	Name               string
	Description        string
	Image              string
	BaseSelectionCount int
	BasePrice          decimal.Decimal
	AllowExtras        bool
	BaseProductID      string
	Options            []domain.ComboOption
}

func (s *ComboService) List() []domain.ComboConfig { return s.Store.GetAll() }

func (s *ComboService) Get(id string) (domain.ComboConfig, bool) { return s.Store.GetByID(id) }

// Storefront lists combos as customers see them: inactive options hidden.
func (s *ComboService) Storefront() []domain.ComboConfig {
	all := s.Store.GetAll()
	for i := range all {
		all[i].Options = all[i].ActiveOptions()
	}
	return all
}

// Create validates and persists d. A *validate.ComboError means nothing was written; a
// *repos.PersistError comes with the record that could not be made durable.
func (s *ComboService) Create(d ComboDraft) (domain.ComboConfig, error) {
	candidate := domain.ComboConfig{
		Name:               strings.TrimSpace(d.Name),
		Description:        strings.TrimSpace(d.Description),
		Image:              d.Image,
		BaseSelectionCount: d.BaseSelectionCount,
		BasePrice:          d.BasePrice,
		AllowExtras:        d.AllowExtras,
		BaseProductID:      strings.TrimSpace(d.BaseProductID),
		Options:            withOptionIDs(d.Options),
	}
	if err := validate.Combo(candidate); err != nil {
		return domain.ComboConfig{}, err
	}
	return s.Store.Create(candidate)
}

// Update validates the stored record with patch applied and persists it in one step under the
// store lock. ok is false when id is unknown.
func (s *ComboService) Update(id string, patch domain.ComboPatch) (domain.ComboConfig, bool, error) {
	if patch.Options != nil {
		opts := withOptionIDs(*patch.Options)
		patch.Options = &opts
	}
	return s.Store.Update(id, patch, validate.Combo)
}

// Delete removes the combo if present.
func (s *ComboService) Delete(id string) error { return s.Store.Delete(id) }

// AddOption appends a new active option.
func (s *ComboService) AddOption(comboID, name string, price decimal.Decimal, image string) (domain.ComboConfig, domain.ComboOption, bool, error) {
	opt := domain.ComboOption{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Price:    price,
		Image:    image,
		IsActive: true,
	}
	cfg, ok, err := s.Store.Modify(comboID, func(c domain.ComboConfig) (domain.ComboConfig, error) {
		c.Options = append(append([]domain.ComboOption(nil), c.Options...), opt)
		return c, validate.Combo(c)
	})
	return cfg, opt, ok, err
}

// SetOptionActive flips an option on or off. Deactivation below the base count is rejected.
func (s *ComboService) SetOptionActive(comboID, optionID string, active bool) (domain.ComboConfig, bool, error) {
	return s.editOptions(comboID, optionID, func(opts []domain.ComboOption, i int) []domain.ComboOption {
		opts[i].IsActive = active
		return opts
	})
}

// RemoveOption drops an option entirely.
func (s *ComboService) RemoveOption(comboID, optionID string) (domain.ComboConfig, bool, error) {
	return s.editOptions(comboID, optionID, func(opts []domain.ComboOption, i int) []domain.ComboOption {
		return append(opts[:i], opts[i+1:]...)
	})
}

func (s *ComboService) editOptions(comboID, optionID string, edit func([]domain.ComboOption, int) []domain.ComboOption) (domain.ComboConfig, bool, error) {
	return s.Store.Modify(comboID, func(c domain.ComboConfig) (domain.ComboConfig, error) {
		opts := append([]domain.ComboOption(nil), c.Options...)
		for i := range opts {
			if opts[i].ID == optionID {
				c.Options = edit(opts, i)
				return c, validate.Combo(c)
			}
		}
		return c, ErrOptionNotFound
	})
}

// LinkableProducts lists catalog products a combo can be sold as.
func (s *ComboService) LinkableProducts(q string) ([]domain.Product, error) {
	return s.Prods.Search(strings.ToLower(q), 50, 0)
}

func withOptionIDs(in []domain.ComboOption) []domain.ComboOption {
	out := make([]domain.ComboOption, len(in))
	for i, o := range in {
		o.Name = strings.TrimSpace(o.Name)
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		out[i] = o
	}
	return out
}
