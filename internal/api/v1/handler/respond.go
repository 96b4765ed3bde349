package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"garagelog/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service failure taxonomy to transport status
// codes. Quota denials get 402 so clients can prompt an upgrade instead of
// showing a permission error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrQuotaExceeded):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, service.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
