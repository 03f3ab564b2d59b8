package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamflix/streamflix/internal/controllers"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSessionError maps session domain errors to HTTP statuses. Quota and
// state violations are blocking notices for the user, not retried.
func writeSessionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, controllers.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, controllers.ErrUpgradeRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, controllers.ErrDownloadQuotaReached),
		errors.Is(err, controllers.ErrAlreadyDownloaded):
		status = http.StatusConflict
	case errors.Is(err, controllers.ErrInvalidRating),
		errors.Is(err, controllers.ErrInvalidTier):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func isNotSignedIn(err error) bool {
	return errors.Is(err, controllers.ErrNotSignedIn)
}
