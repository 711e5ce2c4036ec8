package app

import (
	"slices"
	"strings"

	"hotel_listing/internal/domain"
)

// PriceRule selects how a hotel's rooms are matched against price bounds
// when filtering an already fetched list.
type PriceRule int

const (
	// PriceRuleAnyRoom keeps a hotel when at least one room is within bounds,
	// the same rule the server applies.
	PriceRuleAnyRoom PriceRule = iota
	// PriceRuleMinRoom keeps a hotel when its cheapest room is within bounds.
	PriceRuleMinRoom
)

// MirrorPriceCeiling is the upper slider bound treated as "no maximum".
const MirrorPriceCeiling = 10_000_000

type MirrorFilters struct {
	Search   string
	State    string
	City     string
	PriceMin float64
	PriceMax float64
	Rule     PriceRule
}

func DefaultMirrorFilters() MirrorFilters {
	return MirrorFilters{PriceMin: 0, PriceMax: MirrorPriceCeiling}
}

func (f MirrorFilters) isDefault() bool {
	return f.Search == "" && f.State == "" && f.City == "" &&
		f.PriceMin == 0 && f.PriceMax == MirrorPriceCeiling
}

// MirrorFilter re-applies a subset of the listing predicates to hotels
// already in memory. Default filters return the input slice unchanged.
func MirrorFilter(hotels []domain.HotelView, f MirrorFilters) []domain.HotelView {
	if f.isDefault() {
		return hotels
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.HotelView, 0, len(hotels))
	for _, h := range hotels {
		if search != "" && !matchesSearch(h, search) {
			continue
		}
		if f.State != "" && (h.Location == nil || h.Location.State != f.State) {
			continue
		}
		if f.City != "" && (h.Location == nil || !h.Location.HasCity(f.City)) {
			continue
		}
		if !withinPrice(h.Rooms, f) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func matchesSearch(h domain.HotelView, needle string) bool {
	if strings.Contains(strings.ToLower(h.Name), needle) {
		return true
	}
	if h.Location == nil {
		return false
	}
	if strings.Contains(strings.ToLower(h.Location.State), needle) {
		return true
	}
	return slices.ContainsFunc(h.Location.Cities, func(c string) bool {
		return strings.Contains(strings.ToLower(c), needle)
	})
}

func withinPrice(rooms []domain.Room, f MirrorFilters) bool {
	in := func(p float64) bool { return p >= f.PriceMin && p <= f.PriceMax }
	switch f.Rule {
	case PriceRuleMinRoom:
		pr := domain.DerivePriceRange(rooms)
		return pr != nil && in(pr.Min)
	default:
		return slices.ContainsFunc(rooms, func(r domain.Room) bool { return in(r.Price) })
	}
}
