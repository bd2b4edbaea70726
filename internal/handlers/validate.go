package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// validateJobID parses s as a UUID, writing the spec's exact 400 error
// shape and returning false if it isn't one.
func validateJobID(w http.ResponseWriter, s string) (string, bool) {
	if _, err := uuid.Parse(s); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job_id format (must be UUID)")
		return "", false
	}
	return s, true
}
