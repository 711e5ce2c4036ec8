package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_listing/internal/app"
)

// Cookie controls the session cookie. Secure cookies are also SameSite=None
// so a separately hosted client can send them.
type Cookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type Handlers struct {
	Q         *app.QueryService
	Hotels    *app.HotelService
	Locations *app.LocationService
	Auth      *app.AuthService
	Users     *app.UserService

	Uploads Stager
	Cookie  Cookie
	// Dev exposes internal error text in 5xx bodies.
	Dev bool
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Cookie.Name == "" {
		h.Cookie.Name = "token"
	}
	if h.Cookie.TTL == 0 && h.Auth != nil {
		h.Cookie.TTL = h.Auth.TokenTTL()
	}
	authn := RequireAuth(h.Auth, h.Cookie.Name, h.Dev)
	admin := RequireAdmin(h.Dev)

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Get("/enums", h.enums)
		r.Get("/search", h.searchHotels)
		r.Get("/{id}", h.getHotel)
		r.Group(func(r chi.Router) {
			r.Use(authn, admin)
			r.Post("/", h.createHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
		})
	})

	s.mux.Route("/api/locations", func(r chi.Router) {
		r.Get("/states", h.states)
		r.Get("/cities", h.cities)
		r.Group(func(r chi.Router) {
			r.Use(authn, admin)
			r.Get("/", h.listLocations)
			r.Get("/all", h.listLocations)
			r.Post("/", h.addLocation)
			r.Delete("/city", h.deleteCity)
		})
	})

	s.mux.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.With(authn).Get("/profile", h.profile)
	})

	s.mux.Route("/api/users", func(r chi.Router) {
		r.Use(authn)
		r.Put("/update-password", h.updatePassword)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/{id}", h.getUser)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
			r.Put("/{id}/reset-password", h.resetPassword)
		})
	})
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err, h.Dev)
}
