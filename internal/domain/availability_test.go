package domain

import "testing"

func TestAvailabilityClassification(t *testing.T) {
	sized := []SizeEntry{{Label: "M", Price: 40}}

	cases := []struct {
		name    string
		sizes   []SizeEntry
		onOrder bool
		status  string
		eta     int
	}{
		{"stocked", sized, false, AvailImmediate, 0},
		{"stocked on order", sized, true, AvailShortWait, 3},
		{"no sizes", nil, false, AvailLongWait, 20},
		{"no sizes on order", nil, true, AvailLongWait, 20},
		{"empty slice", []SizeEntry{}, false, AvailLongWait, 20},
	}
	for _, tc := range cases {
		p := Product{Sizes: tc.sizes, OnOrder: tc.onOrder}
		a := p.Availability()
		if a.Status != tc.status || a.EtaDays != tc.eta {
			t.Fatalf("%s: want %s/%d, got %s/%d", tc.name, tc.status, tc.eta, a.Status, a.EtaDays)
		}
	}
}

func TestAvailabilityRankOrder(t *testing.T) {
	if !(AvailabilityRank(AvailImmediate) < AvailabilityRank(AvailShortWait) &&
		AvailabilityRank(AvailShortWait) < AvailabilityRank(AvailLongWait)) {
		t.Fatal("rank order broken")
	}
	if AvailabilityRank("???") <= AvailabilityRank(AvailLongWait) {
		t.Fatal("unknown status should rank last")
	}
}

func TestInStockNeedsPositivePrice(t *testing.T) {
	p := Product{Sizes: []SizeEntry{{Label: "41", Price: 0}}}
	if p.InStock() {
		t.Fatal("zero-priced size should not count as in stock")
	}
	if !p.HasStock() {
		t.Fatal("zero-priced size still counts as a stocked size")
	}
	p.Sizes = append(p.Sizes, SizeEntry{Label: "42", Price: 120})
	if !p.InStock() {
		t.Fatal("positive-priced size should count as in stock")
	}
}
