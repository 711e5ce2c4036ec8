package domain

import (
	"slices"
	"time"
)

// Location is a state and the cities known for it.
type Location struct {
	ID        int64     `json:"id"`
	State     string    `json:"state"`
	Cities    []string  `json:"cities"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l Location) HasCity(city string) bool { return slices.Contains(l.Cities, city) }
