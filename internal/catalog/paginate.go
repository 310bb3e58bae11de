package catalog

import "tiendita/internal/domain"

const DefaultPageSize = 12

type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalProducts int `json:"totalProducts"`
}

// Page is the list envelope returned when the caller asks for paging.
type Page struct {
	Items      []domain.Product `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// Paginate slices an already filtered and sorted collection. Pages are
// 1-based; out-of-range pages return empty items, never an error.
func Paginate(products []domain.Product, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	total := len(products)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	items := products[start:end]
	if items == nil {
		items = []domain.Product{}
	}
	return Page{
		Items:      items,
		Pagination: Pagination{CurrentPage: page, TotalPages: totalPages, TotalProducts: total},
	}
}
