package mysql

import (
	"strings"
	"testing"

	"hotel_listing/internal/domain"
)

func TestHotelWhere_Empty(t *testing.T) {
	where, args := hotelWhere(domain.HotelFilter{})
	if where != "" || len(args) != 0 {
		t.Fatalf("want no clause, got %q %v", where, args)
	}
}

func TestHotelWhere_AllPredicates(t *testing.T) {
	lo, text := 100.0, "50%_off"
	where, args := hotelWhere(domain.HotelFilter{
		LocationIDs: []int64{3, 4},
		MinPrice:    &lo,
		Amenities:   []string{"Pool", "Gym"},
		Text:        &text,
	})
	for _, frag := range []string{"h.location_id IN (?,?)", "EXISTS (", "JSON_CONTAINS(h.amenities", "LOWER(h.name) LIKE ?"} {
		if !strings.Contains(where, frag) {
			t.Errorf("missing %q in %s", frag, where)
		}
	}
	// 2 ids + 4 price + 2 amenities + 2 text
	if len(args) != 10 {
		t.Fatalf("args: %v", args)
	}
	if args[2] != 100.0 || args[4] != nil {
		t.Fatalf("price args: %v", args[2:6])
	}
	if args[8] != `%50\%\_off%` {
		t.Fatalf("like pattern: %v", args[8])
	}
}

func TestHotelWhere_EmptyLocationSet(t *testing.T) {
	where, _ := hotelWhere(domain.HotelFilter{LocationIDs: []int64{}})
	if !strings.Contains(where, "1 = 0") {
		t.Fatalf("empty set should match nothing: %q", where)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "(?,?,?)" {
		t.Fatalf("got %q", got)
	}
}
