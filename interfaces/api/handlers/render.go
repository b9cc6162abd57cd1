package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"importsvc/domain/contracts"
	"importsvc/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps domain sentinel errors to HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the detail goes to the log only.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contracts.ErrInvalidSource),
		errors.Is(err, contracts.ErrMissingCredentials),
		errors.Is(err, contracts.ErrUsernameTaken),
		errors.Is(err, contracts.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrInvalidCredentials), errors.Is(err, contracts.ErrInactiveUser):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, contracts.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, contracts.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
