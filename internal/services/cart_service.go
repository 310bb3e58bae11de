package services

import (
	"errors"

	"tiendita/internal/repos"
)

var ErrNoSuchSize = errors.New("size not available for this product")

type CartView struct {
	Items []repos.CartItemRow
	Total float64 // USD
}

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty of a product size into the session cart, priced at the
// current per-size price so later catalog edits don't move the cart.
func (s *CartService) Add(sessionID, productID, sizeLabel string, qty int) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	price := -1.0
	for _, sz := range p.Sizes {
		if sz.Label == sizeLabel {
			price = sz.Price
			break
		}
	}
	if price < 0 {
		return ErrNoSuchSize
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.UpsertItem(cartID, productID, sizeLabel, qty, price)
}

func (s *CartService) Remove(sessionID, productID, sizeLabel string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID, sizeLabel)
}

// Clear empties the session cart in one statement.
func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}
