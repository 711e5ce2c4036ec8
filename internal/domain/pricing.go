package domain

// PriceRange is the nightly min/max across a hotel's rooms.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DerivePriceRange returns nil for an empty room list; min and max of an
// empty sequence are undefined.
func DerivePriceRange(rooms []Room) *PriceRange {
	if len(rooms) == 0 {
		return nil
	}
	pr := PriceRange{Min: rooms[0].Price, Max: rooms[0].Price}
	for _, r := range rooms[1:] {
		if r.Price < pr.Min {
			pr.Min = r.Price
		}
		if r.Price > pr.Max {
			pr.Max = r.Price
		}
	}
	return &pr
}
