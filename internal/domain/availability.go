package domain

// Availability statuses, ordered fastest first.
const (
	AvailImmediate = "IMMEDIATE"  // stocked sizes, ships now
	AvailShortWait = "SHORT_WAIT" // stocked sizes but imported to order, ~3 days
	AvailLongWait  = "LONG_WAIT"  // special-order, ~20 days
)

// Sentinel accepted by the availability filter in place of a status.
const AvailInStock = "in-stock"

type Availability struct {
	Status  string `json:"status"`
	EtaDays int    `json:"etaDays"`
	Label   string `json:"label"`
}

// Availability classifies a product from exactly two inputs: whether its
// size collection is non-empty and its on-order flag. When both hold, the
// on-order wait wins over immediate delivery.
func (p *Product) Availability() Availability {
	switch {
	case p.HasStock() && p.OnOrder:
		return Availability{Status: AvailShortWait, EtaDays: 3, Label: "Available in 3 days"}
	case p.HasStock():
		return Availability{Status: AvailImmediate, EtaDays: 0, Label: "Immediate delivery"}
	default:
		return Availability{Status: AvailLongWait, EtaDays: 20, Label: "Available in 20 days"}
	}
}

// AvailabilityRank orders statuses for display: immediate first, special
// orders last. Unknown statuses sink to the bottom.
func AvailabilityRank(status string) int {
	switch status {
	case AvailImmediate:
		return 0
	case AvailShortWait:
		return 1
	case AvailLongWait:
		return 2
	}
	return 3
}
