package domain

// Product categories as stored and filtered.
const (
	CategoryClothing    = "clothing"
	CategoryFootwear    = "footwear"
	CategoryAccessories = "accessories"
)

func ValidCategory(c string) bool {
	return c == CategoryClothing || c == CategoryFootwear || c == CategoryAccessories
}

// SizeEntry is one purchasable variant: a size label and its price in USD.
// Presence of an entry implies the size is in stock.
type SizeEntry struct {
	Label string  `db:"label" json:"label"`
	Price float64 `db:"price" json:"price"`
}

type Product struct {
	ID               string  `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	Description      string  `db:"description" json:"description"`
	Brand            string  `db:"brand" json:"brand"`
	Category         string  `db:"category" json:"category"` // clothing | footwear | accessories
	Price            float64 `db:"price" json:"price"`       // base price, USD
	Image            string  `db:"image" json:"image"`
	OnOrder          bool    `db:"on_order" json:"onOrder"` // imported to order, not held locally
	Featured         bool    `db:"featured" json:"featured"`
	FeaturedFootwear bool    `db:"featured_footwear" json:"featuredFootwear"`
	CreatedAt        string  `db:"created_at" json:"createdAt"`
	UpdatedAt        string  `db:"updated_at" json:"updatedAt,omitempty"`

	Sizes  []SizeEntry `json:"sizes"`
	Colors []string    `json:"colors"`
}

// HasStock reports whether any size entry exists. Availability derives from
// this plus OnOrder; there is no stored availability column.
func (p *Product) HasStock() bool { return len(p.Sizes) > 0 }

// InStock reports whether at least one size entry carries a positive price,
// the condition behind the "in stock only" storefront filter.
func (p *Product) InStock() bool {
	for _, s := range p.Sizes {
		if s.Price > 0 {
			return true
		}
	}
	return false
}
