package httpserver

import (
	"net/http"
	"time"

	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
)

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSession(w, sess.Token)
	writeOK(w, http.StatusCreated, envelope{"user": sess.User})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.setSession(w, sess.Token)
	writeOK(w, http.StatusOK, envelope{"user": sess.User})
}

func (h *Handlers) logout(w http.ResponseWriter, _ *http.Request) {
	c := h.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
	writeOK(w, http.StatusOK, envelope{"message": "Logged out successfully"})
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.Profile(r.Context(), actor(r).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"user": u})
}

func (h *Handlers) updatePassword(w http.ResponseWriter, r *http.Request) {
	var in app.PasswordChangeInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Auth.ChangePassword(r.Context(), actor(r).ID, in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"message": "Password updated successfully"})
}

func (h *Handlers) setSession(w http.ResponseWriter, token string) {
	c := h.cookie(token)
	c.MaxAge = int(h.Cookie.TTL / time.Second)
	http.SetCookie(w, c)
}

func (h *Handlers) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.Secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func actor(r *http.Request) domain.User {
	u, _ := UserFrom(r.Context())
	return u
}
