package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/finance1/summary-agent/backend/internal/apperr"
)

// RespondJSON writes a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError writes an error envelope with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError maps an error to its HTTP status and writes the
// error envelope, including details when the error carries them.
func RespondAppError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Details != "" {
			RespondJSON(w, status, map[string]string{
				"error":   message,
				"details": appErr.Details,
			})
			return
		}
	}
	RespondError(w, status, message)
}
