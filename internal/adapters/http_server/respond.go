package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hotel_listing/internal/domain"
)

// envelope is the JSON body of every response; success is filled in by the
// writers.
type envelope map[string]any

type errorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Details map[string]any      `json:"details,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeOK(w http.ResponseWriter, status int, env envelope) {
	env["success"] = true
	writeJSON(w, status, env)
}

// writeCached serves a read response with a weak ETag, answering 304 when
// the client already holds the same representation.
func writeCached(w http.ResponseWriter, r *http.Request, env envelope) {
	env["success"] = true
	etag, body := calcETagAndBody(env)
	if etag == "" {
		writeJSON(w, http.StatusOK, env)
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeError maps domain errors to status codes. Internal details are only
// exposed outside production.
func writeError(w http.ResponseWriter, r *http.Request, err error, dev bool) {
	var (
		ve *domain.ValidationError
		ue *domain.UpstreamError
	)
	status := http.StatusInternalServerError
	body := errorBody{Message: "Server error"}

	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body.Message, body.Errors, body.Details = ve.Message, ve.Fields, ve.Details
	case errors.Is(err, domain.ErrNotFound):
		status, body.Message = http.StatusNotFound, domain.Message(err)
	case errors.Is(err, domain.ErrConflict):
		status, body.Message = http.StatusConflict, domain.Message(err)
	case errors.Is(err, domain.ErrUnauthorized):
		status, body.Message = http.StatusUnauthorized, domain.Message(err)
	case errors.Is(err, domain.ErrForbidden):
		status, body.Message = http.StatusForbidden, domain.Message(err)
	case errors.As(err, &ue):
		status, body.Message = http.StatusBadGateway, "Upstream service error"
	}

	if status >= 500 {
		log.Error().Err(err).
			Str("route", routeOf(r)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request failed")
		if dev {
			body.Error = err.Error()
		}
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst; an empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.NewValidationError("Invalid JSON body")
	}
	return nil
}

func idParam(r *http.Request, what string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("Invalid " + what + " ID").WithField("id", "must be a positive integer")
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
