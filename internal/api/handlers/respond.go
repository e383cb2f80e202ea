package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes payload as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the standard error body. Internal causes are logged by
// callers, never echoed here.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
