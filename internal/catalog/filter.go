// Package catalog holds the pure product-list logic: multi-criteria
// filtering, availability-ordered sorting, facet metadata and pagination.
// Everything here is side-effect free and safe to call concurrently.
package catalog

import (
	"sort"
	"strings"

	"tiendita/internal/domain"
)

// Criteria is a conjunction of independently-optional filters. Zero values
// pass everything, so an empty Criteria is the identity filter.
type Criteria struct {
	Brand         string
	ClothingSize  string
	FootwearSize  string
	AccessorySize string
	PriceMin      *float64
	PriceMax      *float64
	Availability  string // domain status, or domain.AvailInStock sentinel
	Query         string // case-insensitive substring of the name
}

func (cr Criteria) Empty() bool {
	return cr.Brand == "" && cr.ClothingSize == "" && cr.FootwearSize == "" &&
		cr.AccessorySize == "" && cr.PriceMin == nil && cr.PriceMax == nil &&
		cr.Availability == "" && cr.Query == ""
}

// Filter narrows products by every present criterion, preserving input
// order. Callers wanting availability ordering apply SortByAvailability on
// the result.
func Filter(products []domain.Product, cr Criteria) []domain.Product {
	if cr.Empty() {
		if products == nil {
			return []domain.Product{}
		}
		return products
	}
	q := strings.ToLower(strings.TrimSpace(cr.Query))
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if cr.Brand != "" && p.Brand != cr.Brand {
			continue
		}
		if cr.ClothingSize != "" && !hasSizeInCategory(p, domain.CategoryClothing, cr.ClothingSize) {
			continue
		}
		if cr.FootwearSize != "" && !hasSizeInCategory(p, domain.CategoryFootwear, cr.FootwearSize) {
			continue
		}
		if cr.AccessorySize != "" && !hasSizeInCategory(p, domain.CategoryAccessories, cr.AccessorySize) {
			continue
		}
		if cr.PriceMin != nil && p.Price < *cr.PriceMin {
			continue
		}
		if cr.PriceMax != nil && p.Price > *cr.PriceMax {
			continue
		}
		if cr.Availability != "" && !matchAvailability(p, cr.Availability) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func hasSizeInCategory(p *domain.Product, category, label string) bool {
	if p.Category != category {
		return false
	}
	for _, s := range p.Sizes {
		if s.Label == label {
			return true
		}
	}
	return false
}

func matchAvailability(p *domain.Product, want string) bool {
	if want == domain.AvailInStock {
		return p.InStock()
	}
	return p.Availability().Status == want
}

// SortByAvailability orders products in-stock first. The sort is stable:
// products of equal rank keep their relative input order.
func SortByAvailability(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return domain.AvailabilityRank(products[i].Availability().Status) <
			domain.AvailabilityRank(products[j].Availability().Status)
	})
}
