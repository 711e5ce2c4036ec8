package main

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"hotel_listing/internal/domain"
)

const (
	seedState     = "Kogi"
	seedCity      = "Lokoja"
	imagesPerSeed = 7
)

var slugSep = regexp.MustCompile(`[^a-z0-9]+`)

// picsumImages returns stable placeholder images for a hotel name.
func picsumImages(name string) []string {
	base := strings.Trim(slugSep.ReplaceAllString(strings.ToLower(name), "-"), "-")
	out := make([]string, 0, imagesPerSeed)
	for i := 1; i <= imagesPerSeed; i++ {
		out = append(out, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", url.PathEscape(fmt.Sprintf("%s-%d", base, i))))
	}
	return out
}

type seedHotel struct {
	Name        string
	Description string
	Phone       string
	Address     string
	Amenities   []string
	Rooms       []domain.Room
}

var lokojaHotels = []seedHotel{
	{
		Name:        "Grand Hotel Lokoja",
		Description: "A luxurious hotel with modern amenities and excellent service located in the heart of Lokoja.",
		Phone:       "+2348031234567",
		Address:     "1 Ibrahim Babangida Way, Lokoja",
		Amenities: []string{"Free WiFi", "Parking", "Pool", "Gym", "Restaurant", "Bar",
			"Room Service", "Air Conditioning", "Cable TV", "24/7 Security", "Laundry Service"},
		Rooms: []domain.Room{{Type: "Standard Room", Price: 15000}, {Type: "Deluxe Room", Price: 25000}, {Type: "Suite", Price: 40000}},
	},
	{
		Name:        "Confluence Hotel",
		Description: "Situated near the famous River Niger and Benue confluence with beautiful views and comfortable rooms.",
		Phone:       "+2348052345678",
		Address:     "12 Ganaja Road, Lokoja",
		Amenities:   []string{"Free WiFi", "Parking", "Restaurant", "Bar", "Room Service", "Air Conditioning", "24/7 Security"},
		Rooms:       []domain.Room{{Type: "Standard Room", Price: 12000}, {Type: "Deluxe Room", Price: 20000}},
	},
	{
		Name:        "Kogi Hotels Limited",
		Description: "Government-owned hotel offering comfortable accommodation and conference facilities.",
		Phone:       "+2348073456789",
		Address:     "Lokoja-Abuja Road, Lokoja",
		Amenities:   []string{"Free WiFi", "Parking", "Restaurant", "Conference Room", "Air Conditioning", "24/7 Security"},
		Rooms: []domain.Room{{Type: "Standard Room", Price: 10000}, {Type: "Executive Room", Price: 18000},
			{Type: "Presidential Suite", Price: 35000}},
	},
	{
		Name:        "The Palace Hotel Lokoja",
		Description: "Modern hotel offering royal treatment, spacious rooms, and premium services for guests.",
		Phone:       "+2348098765432",
		Address:     "3 Marine Road, Lokoja",
		Amenities: []string{"Free WiFi", "Parking", "Pool", "Spa", "Restaurant", "Bar",
			"Room Service", "Air Conditioning", "24/7 Security"},
		Rooms: []domain.Room{{Type: "Standard Room", Price: 18000}, {Type: "Deluxe Room", Price: 28000}, {Type: "Suite", Price: 45000}},
	},
	{
		Name:        "River View Hotel",
		Description: "A scenic hotel overlooking the River Niger with peaceful surroundings and excellent facilities.",
		Phone:       "+2347012345678",
		Address:     "8 Old Market Road, Lokoja",
		Amenities:   []string{"Free WiFi", "Parking", "Restaurant", "Bar", "Air Conditioning", "24/7 Security", "Laundry Service"},
		Rooms:       []domain.Room{{Type: "Standard Room", Price: 14000}, {Type: "Executive Room", Price: 22000}},
	},
	{
		Name:        "Presidential Lodge Lokoja",
		Description: "High-end lodge offering exclusive suites and world-class hospitality for dignitaries and tourists.",
		Phone:       "+2348023456789",
		Address:     "Government Reserved Area, Lokoja",
		Amenities: []string{"Free WiFi", "Parking", "Gym", "Restaurant", "Bar",
			"Room Service", "Air Conditioning", "Cable TV", "24/7 Security"},
		Rooms: []domain.Room{{Type: "Executive Room", Price: 30000}, {Type: "Presidential Suite", Price: 60000}},
	},
	{
		Name:        "Lokoja Luxury Inn",
		Description: "Boutique-style hotel offering premium lodging and personalized services for business travelers.",
		Phone:       "+2348109876543",
		Address:     "15 Hassan Katsina Road, Lokoja",
		Amenities:   []string{"Free WiFi", "Parking", "Restaurant", "Bar", "Room Service", "Air Conditioning", "24/7 Security"},
		Rooms:       []domain.Room{{Type: "Standard Room", Price: 16000}, {Type: "Deluxe Room", Price: 24000}},
	},
	{
		Name:        "Hilltop Hotel Lokoja",
		Description: "Beautifully situated hotel on a hill with panoramic views of Lokoja and its surroundings.",
		Phone:       "+2348134567890",
		Address:     "Hilltop Avenue, Lokoja",
		Amenities:   []string{"Free WiFi", "Parking", "Restaurant", "Air Conditioning", "Cable TV", "24/7 Security"},
		Rooms:       []domain.Room{{Type: "Standard Room", Price: 13000}, {Type: "Executive Room", Price: 21000}},
	},
}

func (s seedHotel) hotel(locationID int64) domain.Hotel {
	return domain.Hotel{
		Name:             s.Name,
		LocationID:       locationID,
		Description:      s.Description,
		Contact:          domain.Contact{Phone: s.Phone, WhatsApp: s.Phone, Address: s.Address},
		WhatsAppTemplate: domain.DefaultWhatsAppTemplate(s.Name),
		Amenities:        s.Amenities,
		Rooms:            s.Rooms,
		Images:           picsumImages(s.Name),
	}
}
