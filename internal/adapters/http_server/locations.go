package httpserver

import (
	"net/http"

	"hotel_listing/internal/app"
)

func (h *Handlers) states(w http.ResponseWriter, r *http.Request) {
	states, err := h.Locations.GetStates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCached(w, r, envelope{"states": states})
}

func (h *Handlers) cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.Locations.GetCities(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCached(w, r, envelope{"cities": cities})
}

func (h *Handlers) listLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Locations.ListLocations(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"count": len(locs), "locations": locs})
}

func (h *Handlers) addLocation(w http.ResponseWriter, r *http.Request) {
	var in app.LocationInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	loc, err := h.Locations.AddLocation(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, envelope{"location": loc})
}

func (h *Handlers) deleteCity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.Locations.DeleteCity(r.Context(), q.Get("state"), q.Get("city")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"message": "City deleted successfully"})
}
