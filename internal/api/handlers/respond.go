package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/notpasha/astro/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps domain errors to their stable HTTP statuses. Anything
// outside the taxonomy is a server error; the detail stays generic.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrDuplicateEmail):
		writeDetail(w, http.StatusConflict, "The user with this email already exists in the system.")
	case errors.Is(err, core.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, core.ErrInvalidToken):
		writeDetail(w, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, core.ErrUnauthenticated):
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, core.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Email not verified")
	case errors.Is(err, core.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, core.ErrQuotaExceeded):
		writeDetail(w, http.StatusPaymentRequired, "Free tier chat limit reached. Please upgrade to continue.")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
