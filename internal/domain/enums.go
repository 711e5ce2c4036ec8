package domain

import (
	"slices"
	"strings"
)

var RoomTypes = []string{
	"Standard Room",
	"Deluxe Room",
	"Suite",
	"Presidential Suite",
	"Executive Room",
	"Family Room",
}

var Amenities = []string{
	"Free WiFi", "Parking", "Pool", "Gym", "Restaurant", "Bar",
	"Room Service", "Spa", "Air Conditioning", "Cable TV",
	"24/7 Security", "Conference Room", "Laundry Service",
}

func IsRoomType(s string) bool { return slices.Contains(RoomTypes, s) }
func IsAmenity(s string) bool  { return slices.Contains(Amenities, s) }

type RoomTypeOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type AmenityOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

type Enums struct {
	RoomTypes []RoomTypeOption `json:"roomTypes"`
	Amenities []AmenityOption  `json:"amenities"`
}

// ReferenceEnums builds the labelled lists served to admin forms.
func ReferenceEnums() Enums {
	out := Enums{
		RoomTypes: make([]RoomTypeOption, 0, len(RoomTypes)),
		Amenities: make([]AmenityOption, 0, len(Amenities)),
	}
	for _, t := range RoomTypes {
		out.RoomTypes = append(out.RoomTypes, RoomTypeOption{Value: t, Label: t, Description: t + " accommodation"})
	}
	for _, a := range Amenities {
		cat := "Facilities"
		if strings.Contains(a, "Service") {
			cat = "Services"
		}
		out.Amenities = append(out.Amenities, AmenityOption{Value: a, Label: a, Category: cat})
	}
	return out
}
