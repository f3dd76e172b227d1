package handlers

import (
	"cozyoven/internal/config"
	"cozyoven/internal/repos"
	"cozyoven/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CategoryHandler   *CategoryHandler
	ProductHandler    *ProductHandler
	ComboHandler      *ComboHandler
	CartHandler       *CartHandler
	AdminComboHandler *AdminComboHandler
}

// NewDeps builds one ComboStore for the process; every handler that reads combos shares it.
func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	store := repos.NewComboStore(repos.NewKVRepo(db), cfg.ComboStoreKey)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	comboSvc := services.NewComboService(store, prodRepo)
	cartSvc := services.NewCartService(cartRepo)
	money := Money{Symbol: cfg.CurrencySymbol}

	return &Deps{
		CategoryHandler:   &CategoryHandler{Catalog: catalogSvc, Combos: comboSvc, Money: money},
		ProductHandler:    &ProductHandler{Catalog: catalogSvc},
		ComboHandler:      &ComboHandler{Combos: comboSvc, Cart: cartSvc, Money: money},
		CartHandler:       &CartHandler{Cart: cartSvc, Money: money},
		AdminComboHandler: &AdminComboHandler{Combos: comboSvc},
	}
}
