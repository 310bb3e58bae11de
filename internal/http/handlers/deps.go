package handlers

import (
	"github.com/jmoiron/sqlx"

	"tiendita/internal/config"
	"tiendita/internal/currency"
	"tiendita/internal/media"
	"tiendita/internal/repos"
	"tiendita/internal/services"
)

type Deps struct {
	StoreHandler *StoreHandler
	CartHandler  *CartHandler
	ProductAPI   *ProductAPI
	EmbedHandler *EmbedHandler
	RateHandler  *RateHandler
	AuthHandler  *AuthHandler
	Auth         *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config, store *media.Store, rates *currency.Service) (*Deps, error) {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	embedRepo := repos.NewEmbedRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	adminSvc := services.NewAdminService(prodRepo, store)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	authSvc := &services.AuthService{Users: userRepo, Secret: []byte(cfg.JWTSecret)}

	return &Deps{
		StoreHandler: &StoreHandler{Catalog: catalogSvc, Embeds: embedRepo, Rates: rates},
		CartHandler:  &CartHandler{Cart: cartSvc, Rates: rates},
		ProductAPI:   &ProductAPI{Catalog: catalogSvc, Admin: adminSvc},
		EmbedHandler: &EmbedHandler{Embeds: embedRepo},
		RateHandler:  &RateHandler{Rates: rates},
		AuthHandler:  &AuthHandler{Auth: authSvc},
		Auth:         authSvc,
	}, nil
}
