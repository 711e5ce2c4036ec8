package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
)

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	c := app.NormalizeCriteria(r.URL.Query(), app.DefaultListLimit)
	page, err := h.Q.ListHotels(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCached(w, r, envelope{
		"count":  len(page.Items),
		"total":  page.Total,
		"page":   page.Page,
		"pages":  page.Pages,
		"hotels": page.Items,
	})
}

func (h *Handlers) enums(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, envelope{"data": h.Q.Enums()})
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.SearchHotels(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", app.DefaultSearchLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCached(w, r, envelope{"count": len(hotels), "hotels": hotels})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "hotel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCached(w, r, envelope{"hotel": v})
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	form, files, err := h.readHotelForm(w, r)
	defer sweep(files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := app.ValidateCreate(form)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.Hotels.Create(r.Context(), in, files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, envelope{"hotel": v})
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "hotel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form, files, err := h.readHotelForm(w, r)
	defer sweep(files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := app.ValidateUpdate(form)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.Hotels.Update(r.Context(), id, in, files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"hotel": v})
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "hotel")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Hotels.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"message": "Hotel deleted successfully"})
}

// readHotelForm accepts multipart (with images) or a JSON body.
func (h *Handlers) readHotelForm(w http.ResponseWriter, r *http.Request) (app.HotelForm, []domain.StagedFile, error) {
	if isMultipart(r) {
		values, files, err := h.Uploads.Stage(w, r)
		if err != nil {
			return app.HotelForm{}, nil, err
		}
		return formFromValues(values), files, nil
	}
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		return app.HotelForm{}, nil, err
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			values[k] = s
			continue
		}
		// rooms and amenities may arrive as arrays rather than JSON text
		values[k] = strings.TrimSpace(string(v))
	}
	return formFromValues(values), nil, nil
}

func formFromValues(v map[string]string) app.HotelForm {
	get := func(k string) *string {
		s, ok := v[k]
		if !ok {
			return nil
		}
		return &s
	}
	return app.HotelForm{
		Name:             get("name"),
		State:            get("state"),
		City:             get("city"),
		Description:      get("description"),
		Address:          get("address"),
		Phone:            get("phone"),
		WhatsApp:         get("whatsapp"),
		WhatsAppTemplate: get("whatsappMessageTemplate"),
		Rooms:            get("rooms"),
		Amenities:        get("amenities"),
	}
}
