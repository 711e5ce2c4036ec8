package httpserver

import (
	"net/http"

	"hotel_listing/internal/app"
)

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.Users.List(r.Context(), actor(r).ID,
		r.URL.Query().Get("search"), queryInt(r, "page", 1), queryInt(r, "limit", app.DefaultUsersLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{
		"count": len(page.Items),
		"total": page.Total,
		"page":  page.Page,
		"pages": page.Pages,
		"users": page.Items,
	})
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var in app.CreateUserInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.Users.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, envelope{"message": "User created successfully", "user": u})
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.Users.Get(r.Context(), actor(r).ID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"user": u})
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in app.UpdateUserInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.Users.Update(r.Context(), actor(r).ID, id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"message": "User updated successfully", "user": u})
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Users.Delete(r.Context(), actor(r).ID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"message": "User deleted successfully"})
}

func (h *Handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "user")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in app.PasswordResetInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Users.ResetPassword(r.Context(), actor(r).ID, id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, envelope{"message": "Password reset successfully"})
}
