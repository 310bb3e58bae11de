package catalog

import (
	"sort"
	"strconv"
	"strings"

	"tiendita/internal/domain"
)

// FilterMetadata feeds the storefront filter sidebar: which brands and
// sizes exist, and the store-wide price range.
type FilterMetadata struct {
	Brands         []string    `json:"brands"`
	ClothingSizes  []string    `json:"clothingSizes"`
	FootwearSizes  []string    `json:"footwearSizes"`
	AccessorySizes []string    `json:"accessorySizes"`
	PriceRange     *PriceRange `json:"priceRange,omitempty"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

var clothingOrder = []string{"XS", "S", "M", "L", "XL", "XXL", "OS"}

// Facets derives filter metadata from a product collection.
func Facets(products []domain.Product) FilterMetadata {
	brands := map[string]bool{}
	sizes := map[string]map[string]bool{
		domain.CategoryClothing:    {},
		domain.CategoryFootwear:    {},
		domain.CategoryAccessories: {},
	}
	var pr *PriceRange
	for i := range products {
		p := &products[i]
		if p.Brand != "" {
			brands[p.Brand] = true
		}
		if set, ok := sizes[p.Category]; ok {
			for _, s := range p.Sizes {
				set[s.Label] = true
			}
		}
		if pr == nil {
			pr = &PriceRange{Min: p.Price, Max: p.Price}
		} else {
			if p.Price < pr.Min {
				pr.Min = p.Price
			}
			if p.Price > pr.Max {
				pr.Max = p.Price
			}
		}
	}
	md := FilterMetadata{
		Brands:         sortedKeys(brands),
		ClothingSizes:  keys(sizes[domain.CategoryClothing]),
		FootwearSizes:  keys(sizes[domain.CategoryFootwear]),
		AccessorySizes: sortedKeys(sizes[domain.CategoryAccessories]),
		PriceRange:     pr,
	}
	sortClothingSizes(md.ClothingSizes)
	sortFootwearSizes(md.FootwearSizes)
	return md
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := keys(m)
	sort.Strings(out)
	return out
}

// Clothing sizes follow the garment scale, not lexicographic order.
func sortClothingSizes(labels []string) {
	rank := func(l string) int {
		for i, s := range clothingOrder {
			if s == l {
				return i
			}
		}
		return len(clothingOrder)
	}
	sort.SliceStable(labels, func(i, j int) bool { return rank(labels[i]) < rank(labels[j]) })
}

// Footwear sizes sort numerically; "41 EU" style labels parse their
// leading number, comma decimals included.
func sortFootwearSizes(labels []string) {
	num := func(l string) float64 {
		head, _, _ := strings.Cut(strings.TrimSpace(l), " ")
		n, err := strconv.ParseFloat(strings.ReplaceAll(head, ",", "."), 64)
		if err != nil {
			return 0
		}
		return n
	}
	sort.SliceStable(labels, func(i, j int) bool { return num(labels[i]) < num(labels[j]) })
}
