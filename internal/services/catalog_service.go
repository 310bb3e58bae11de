package services

import (
	"tiendita/internal/catalog"
	"tiendita/internal/domain"
	"tiendita/internal/repos"
)

// CatalogService answers every customer-facing product query. Results are
// always availability-sorted, in-stock first.
type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List(cr catalog.Criteria) ([]domain.Product, error) {
	products, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	out := catalog.Filter(products, cr)
	catalog.SortByAvailability(out)
	return out, nil
}

func (s *CatalogService) ListByCategory(category string, cr catalog.Criteria) ([]domain.Product, error) {
	products, err := s.Prods.ListByCategory(category)
	if err != nil {
		return nil, err
	}
	out := catalog.Filter(products, cr)
	catalog.SortByAvailability(out)
	return out, nil
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Featured returns the two home-page rows: featured products and featured
// footwear.
func (s *CatalogService) Featured() (featured, footwear []domain.Product, err error) {
	products, err := s.Prods.List()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
		if p.FeaturedFootwear {
			footwear = append(footwear, p)
		}
	}
	catalog.SortByAvailability(featured)
	catalog.SortByAvailability(footwear)
	return featured, footwear, nil
}

func (s *CatalogService) Facets() (catalog.FilterMetadata, error) {
	products, err := s.Prods.List()
	if err != nil {
		return catalog.FilterMetadata{}, err
	}
	return catalog.Facets(products), nil
}
