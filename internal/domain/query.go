package domain

// HotelCriteria is the normalized, optional filter bag for hotel listing.
// Nil pointers mean "not given".
type HotelCriteria struct {
	State     *string
	City      *string
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []string
	Text      *string
	Page      int
	Limit     int
}

// HotelFilter is the store-neutral predicate set composed from criteria.
// LocationIDs nil means unrestricted; non-nil and empty matches nothing.
type HotelFilter struct {
	LocationIDs []int64
	MinPrice    *float64
	MaxPrice    *float64
	Amenities   []string
	Text        *string
	Offset      int
	Limit       int
}

type HotelsPage struct {
	Items []HotelView `json:"hotels"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Pages int         `json:"pages"`
}

type UserCriteria struct {
	Search    *string
	ExcludeID int64
	Offset    int
	Limit     int
}

type UsersPage struct {
	Items []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}
