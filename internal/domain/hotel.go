package domain

import (
	"fmt"
	"time"
)

// Room is one room type a hotel offers, priced per night.
type Room struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}

type Contact struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Address  string `json:"address"`
}

// Hotel is the persisted listing. LocationID references a Location; the
// hotel does not own it.
type Hotel struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	LocationID       int64     `json:"locationId"`
	Description      string    `json:"description"`
	Contact          Contact   `json:"contact"`
	WhatsAppTemplate string    `json:"whatsappMessageTemplate"`
	Amenities        []string  `json:"amenities"`
	Rooms            []Room    `json:"rooms"`
	Images           []string  `json:"images"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HotelView is the representation that leaves the store boundary: the hotel,
// its resolved location and a price range derived from the current rooms.
type HotelView struct {
	Hotel
	Location   *Location   `json:"location,omitempty"`
	PriceRange *PriceRange `json:"priceRange"`
}

// NewHotelView always recomputes the price range so it can never be stale.
func NewHotelView(h Hotel, loc *Location) HotelView {
	return HotelView{Hotel: h, Location: loc, PriceRange: DerivePriceRange(h.Rooms)}
}

// Limits enforced on hotel documents.
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 2000
	MaxAddressLen     = 500
	MinRooms          = 1
	MaxRooms          = 10
	MaxAmenities      = 20
	MaxImages         = 20
)

func DefaultWhatsAppTemplate(name string) string {
	return fmt.Sprintf("Hello, I'm interested in booking a room at %s. Can you provide more information?", name)
}
